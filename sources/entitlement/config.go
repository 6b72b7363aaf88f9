package entitlement

import "pawkeeper/sources/configuration"

type GateConfig struct {
	DefaultTierKey        string
	LowRemainingThreshold int
}

func NewGateConfig(config *configuration.Config) *GateConfig {
	threshold := config.Entitlement.LowRemainingThreshold
	if threshold <= 0 {
		threshold = 3
	}

	defaultKey := config.Entitlement.DefaultTierKey
	if defaultKey == "" {
		defaultKey = "free"
	}

	return &GateConfig{
		DefaultTierKey:        defaultKey,
		LowRemainingThreshold: threshold,
	}
}
