package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPromoExhausted       = errors.New("promo code usage limit reached")
)

type SubscriptionsRepository struct {
	db *gorm.DB
}

func NewSubscriptionsRepository(db *gorm.DB) *SubscriptionsRepository {
	return &SubscriptionsRepository{db: db}
}

// GetCurrentForUser returns the most recently created active subscription for
// the user, with its tier preloaded. Rows past expires_at are still returned;
// the read-time expiry check belongs to the entitlement resolver.
func (x *SubscriptionsRepository) GetCurrentForUser(log *tracing.Logger, userID uuid.UUID) (*entities.Subscription, error) {
	defer tracing.ProfilePoint(log, "Subscriptions get current completed", "repository.subscriptions.get.current", tracing.UserId, userID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var sub entities.Subscription
	err := x.db.WithContext(ctx).
		Preload("Tier").
		Where("user_id = ? AND status = ?", userID, entities.SubscriptionActive).
		Order("created_at DESC").
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get current subscription for user %s: %w", userID, err)
	}

	return &sub, nil
}

func (x *SubscriptionsRepository) Create(log *tracing.Logger, sub *entities.Subscription) error {
	defer tracing.ProfilePoint(log, "Subscriptions create completed", "repository.subscriptions.create", tracing.UserId, sub.UserID, tracing.TierId, sub.TierID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	if err := x.db.WithContext(ctx).Create(sub).Error; err != nil {
		log.E("Failed to create subscription", tracing.InnerError, err)
		return err
	}

	log.I("Created subscription", tracing.SubscriptionId, sub.ID)
	return nil
}

func (x *SubscriptionsRepository) MarkExpired(log *tracing.Logger, id uuid.UUID) error {
	defer tracing.ProfilePoint(log, "Subscriptions mark expired completed", "repository.subscriptions.mark.expired", tracing.SubscriptionId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("id = ? AND status = ?", id, entities.SubscriptionActive).
		Update("status", entities.SubscriptionExpired).Error

	if err != nil {
		log.E("Failed to mark subscription expired", tracing.InnerError, err)
		return err
	}

	return nil
}

// ActivateWithPromo creates the subscription and, when a promo code was
// applied, records the redemption and bumps used_count, all in one
// transaction, so a code is never consumed without a matching subscription or
// vice versa. The used_count bump is guarded against max_uses so two racing
// purchases cannot overspend the code.
func (x *SubscriptionsRepository) ActivateWithPromo(log *tracing.Logger, sub *entities.Subscription, promo *entities.PromoCode, paymentID *uuid.UUID) error {
	defer tracing.ProfilePoint(log, "Subscriptions activate with promo completed", "repository.subscriptions.activate.with.promo", tracing.UserId, sub.UserID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	err := x.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		if promo == nil {
			return nil
		}

		res := tx.Model(&entities.PromoCode{}).
			Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", promo.ID).
			Update("used_count", gorm.Expr("used_count + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to increment promo used_count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrPromoExhausted
		}

		redemption := &entities.PromoCodeRedemption{
			UserID:      sub.UserID,
			PromoCodeID: promo.ID,
			PaymentID:   paymentID,
		}
		if err := tx.Create(redemption).Error; err != nil {
			return fmt.Errorf("failed to record promo redemption: %w", err)
		}

		return nil
	})

	if err != nil {
		log.E("Failed to activate subscription", tracing.InnerError, err)
		return err
	}

	log.I("Subscription activated", tracing.SubscriptionId, sub.ID, tracing.TierId, sub.TierID)
	return nil
}
