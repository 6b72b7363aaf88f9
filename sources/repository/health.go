package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"pawkeeper/sources/configuration"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

type HealthRepository struct {
	db     *gorm.DB
	redis  *redis.Client
	openai *openai.Client
	config *configuration.Config
}

func NewHealthRepository(db *gorm.DB, redis *redis.Client, openai *openai.Client, config *configuration.Config) *HealthRepository {
	return &HealthRepository{
		db:     db,
		redis:  redis,
		openai: openai,
		config: config,
	}
}

func (x *HealthRepository) CheckDatabaseHealth(log *tracing.Logger) error {
	defer tracing.ProfilePoint(log, "Health check database completed", "repository.health.check.database")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 1*time.Second)
	defer cancel()

	var tiers []entities.Tier
	if err := x.db.WithContext(ctx).Limit(1).Find(&tiers).Error; err != nil {
		log.E("Database health check failed", tracing.InnerError, err)
		return err
	}

	log.I("Database health check passed")
	return nil
}

func (x *HealthRepository) CheckRedisHealth(log *tracing.Logger) error {
	defer tracing.ProfilePoint(log, "Health check redis completed", "repository.health.check.redis")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 1*time.Second)
	defer cancel()

	if err := x.redis.Ping(ctx).Err(); err != nil {
		log.E("Redis health check failed", tracing.InnerError, err)
		return err
	}

	log.I("Redis health check passed")
	return nil
}

func (x *HealthRepository) CheckOpenAIHealth(log *tracing.Logger) error {
	defer tracing.ProfilePoint(log, "Health check openai completed", "repository.health.check.openai")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := x.openai.ListModels(ctx); err != nil {
		log.E("OpenAI health check failed", tracing.InnerError, err)
		return err
	}

	log.I("OpenAI health check passed")
	return nil
}

func (x *HealthRepository) CheckUnleashHealth(log *tracing.Logger) error {
	defer tracing.ProfilePoint(log, "Health check unleash completed", "repository.health.check.unleash")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Second)
	defer cancel()

	unleashURL := x.config.Features.UnleashAPIURL + "health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, unleashURL, nil)
	if err != nil {
		log.E("Unleash health check failed: request creation error", tracing.InnerError, err)
		return err
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.E("Unleash health check failed: request error", tracing.InnerError, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unleash health check failed: status %d", resp.StatusCode)
		log.E("Unleash health check failed", tracing.InnerError, err)
		return err
	}

	log.I("Unleash health check passed")
	return nil
}
