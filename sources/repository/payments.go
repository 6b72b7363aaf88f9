package repository

import (
	"context"
	"time"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"gorm.io/gorm"
)

type PaymentsRepository struct {
	db *gorm.DB
}

func NewPaymentsRepository(db *gorm.DB) *PaymentsRepository {
	return &PaymentsRepository{db: db}
}

func (x *PaymentsRepository) Create(log *tracing.Logger, payment *entities.Payment) error {
	defer tracing.ProfilePoint(log, "Payments create completed", "repository.payments.create", tracing.UserId, payment.UserID, tracing.TierId, payment.TierID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	if err := x.db.WithContext(ctx).Create(payment).Error; err != nil {
		log.E("Failed to create payment", tracing.InnerError, err)
		return err
	}

	log.I("Payment recorded", tracing.PaymentId, payment.ID, "status", payment.Status)
	return nil
}
