package billing

import (
	"errors"
	"pawkeeper/sources/configuration"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrPaymentNotConfigured = errors.New("no payment processor configured")

// PaymentProcessor is the gateway collaborator. The engine only needs to know
// whether a charge went through; everything else about payments lives outside.
type PaymentProcessor interface {
	Charge(log *tracing.Logger, userID uuid.UUID, tierID int64, amount decimal.Decimal, currency string) (providerRef string, err error)
}

// offlineProcessor declines every non-zero charge. It stands in until a real
// gateway is configured, which keeps zero-cost promo activations working in
// environments with no payment provider at all.
type offlineProcessor struct{}

func (p *offlineProcessor) Charge(log *tracing.Logger, userID uuid.UUID, tierID int64, amount decimal.Decimal, currency string) (string, error) {
	log.W("Charge attempted without a configured payment processor", tracing.UserId, userID, tracing.TierId, tierID, "amount", amount.String())
	return "", ErrPaymentNotConfigured
}

func NewPaymentProcessor(config *configuration.Config, log *tracing.Logger) PaymentProcessor {
	switch config.Billing.Processor {
	case "", "offline":
		log.I("Billing running with offline payment processor")
		return &offlineProcessor{}
	default:
		log.W("Unknown payment processor, falling back to offline", "processor", config.Billing.Processor)
		return &offlineProcessor{}
	}
}
