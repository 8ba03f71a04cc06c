package gopay

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the production gateway endpoint.
const DefaultBaseURL = "https://api.moyasar.com"

// Config holds all client configuration.
type Config struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	Retry         RetryConfig         `mapstructure:"retry"`
	Breaker       BreakerConfig       `mapstructure:"breaker"`
	Webhook       WebhookConfig       `mapstructure:"webhook"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// RetryConfig holds transport retry configuration.
type RetryConfig struct {
	MaxAttempts  uint          `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
}

// BreakerConfig holds transport circuit breaker configuration.
type BreakerConfig struct {
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// WebhookConfig holds webhook ingestion configuration.
type WebhookConfig struct {
	SharedSecret string `mapstructure:"shared_secret"`
}

// ObservabilityConfig holds logging, metrics and tracing configuration.
type ObservabilityConfig struct {
	LogLevel        string `mapstructure:"log_level"`
	MetricNamespace string `mapstructure:"metric_namespace"`
	EnableMetrics   bool   `mapstructure:"enable_metrics"`
	EnableTracing   bool   `mapstructure:"enable_tracing"`
	JaegerEndpoint  string `mapstructure:"jaeger_endpoint"`
}

// LoadConfig reads configuration from environment variables (GOPAY_ prefix)
// and an optional config file.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("GOPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("gopay")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields have valid values.
func (c *Config) Validate() error {
	var errs []error

	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("api_key is required"))
	}
	if c.BaseURL == "" {
		errs = append(errs, fmt.Errorf("base_url is required"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}
	if c.Retry.MaxAttempts == 0 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be positive"))
	}
	if c.Retry.InitialDelay <= 0 {
		errs = append(errs, fmt.Errorf("retry.initial_delay must be positive"))
	}
	if c.Retry.MaxDelay < c.Retry.InitialDelay {
		errs = append(errs, fmt.Errorf("retry.max_delay must be at least retry.initial_delay"))
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		errs = append(errs, fmt.Errorf("breaker.failure_ratio must be in (0, 1], got %g", c.Breaker.FailureRatio))
	}
	if c.Breaker.MinRequests == 0 {
		errs = append(errs, fmt.Errorf("breaker.min_requests must be positive"))
	}
	if c.Breaker.Interval <= 0 {
		errs = append(errs, fmt.Errorf("breaker.interval must be positive"))
	}
	if c.Breaker.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("breaker.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", "30s")

	// Retry defaults
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_delay", "500ms")
	v.SetDefault("retry.max_delay", "5s")

	// Breaker defaults
	v.SetDefault("breaker.failure_ratio", 0.6)
	v.SetDefault("breaker.min_requests", 10)
	v.SetDefault("breaker.interval", "60s")
	v.SetDefault("breaker.timeout", "30s")

	// Webhook defaults
	v.SetDefault("webhook.shared_secret", "")

	// Observability defaults
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.metric_namespace", "gopay")
	v.SetDefault("observability.enable_metrics", false)
	v.SetDefault("observability.enable_tracing", false)
	v.SetDefault("observability.jaeger_endpoint", "http://localhost:14268/api/traces")
}
