package config

import (
	"fmt"
	"time"

	"github.com/abhinimbalkar96-spec/blak-website/pkg/config"
)

// Config is the storefront service configuration, loaded from the
// environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP     HTTPConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Services ServicesConfig
	Cart     CartConfig
	Catalog  CatalogConfig
	OTEL     OTELConfig
}

type HTTPConfig struct {
	Port            int           `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	AllowedOrigins  []string      `env:"HTTP_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

type ServicesConfig struct {
	ProductServiceURL string `env:"PRODUCT_SERVICE_URL" envDefault:"http://localhost:8081"`
	OrderServiceURL   string `env:"ORDER_SERVICE_URL" envDefault:"http://localhost:8082"`
}

type CartConfig struct {
	// MirrorTTL bounds how long an abandoned cart snapshot lives in Redis.
	MirrorTTL time.Duration `env:"CART_MIRROR_TTL" envDefault:"168h"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"30s"`
}

type OTELConfig struct {
	Enabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	SampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.Services.ProductServiceURL == "" || c.Services.OrderServiceURL == "" {
		return fmt.Errorf("product and order service URLs are required")
	}
	if c.OTEL.SampleRate < 0 || c.OTEL.SampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTEL.SampleRate)
	}
	return nil
}
