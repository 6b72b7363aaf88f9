package configuration

import (
	"time"
)

type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	AI          AIConfig          `yaml:"ai"`
	Entitlement EntitlementConfig `yaml:"entitlement"`
	Billing     BillingConfig     `yaml:"billing"`
	Throttler   ThrottlerConfig   `yaml:"throttler"`
	Features    FeaturesConfig    `yaml:"features"`
}

type ServiceConfig struct {
	StartupPort            int `yaml:"startup_port"`
	SystemMetricsPort      int `yaml:"system_metrics_port"`
	ApplicationMetricsPort int `yaml:"application_metrics_port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"ssl_mode"`
	TimeZone string `yaml:"time_zone"`

	ReplicaHosts []string `yaml:"replica_hosts"`
}

type RedisConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type AIConfig struct {
	OpenAIToken string `yaml:"openai_token"`

	ChatModel     string `yaml:"chat_model"`
	AnalysisModel string `yaml:"analysis_model"`

	ChatPrompt     string `yaml:"chat_prompt"`
	AnalysisPrompt string `yaml:"analysis_prompt"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type EntitlementConfig struct {
	DefaultTierKey        string `yaml:"default_tier_key"`
	LowRemainingThreshold int    `yaml:"low_remaining_threshold"`
}

type BillingConfig struct {
	Currency  string `yaml:"currency"`
	Processor string `yaml:"processor"`
}

type ThrottlerConfig struct {
	Limit time.Duration `yaml:"limit"`
}

type FeaturesConfig struct {
	UnleashAPIURL     string `yaml:"unleash_api_url"`
	UnleashAppName    string `yaml:"unleash_app_name"`
	UnleashInstanceID string `yaml:"unleash_instance_id"`
	RefreshInterval   int    `yaml:"refresh_interval"`
}
