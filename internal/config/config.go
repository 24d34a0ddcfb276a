package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr           string
	Env            string
	Timezone       string
	AllowedOrigins []string

	Mongo     MongoConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Payment   PaymentConfig
	Messenger MessengerConfig
	Log       LogConfig
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	Collections    Collections
}

// Collections maps each aggregate to its collection name.
type Collections struct {
	Users               string
	Messages            string
	Slots               string
	Bookings            string
	Services            string
	Payments            string
	Questionnaires      string
	FailedNotifications string
}

type AuthConfig struct {
	JWTSecret         string
	Issuer            string
	Audience          string
	TokenTTL          time.Duration
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	PresignTTL   time.Duration
	MediaBaseURL string
}

type PaymentConfig struct {
	Provider            string
	StripeSecretKey     string
	StripeWebhookSecret string
	SandboxSecret       string
	Currency            string
	Commission          domain.CommissionPolicy
}

type MessengerConfig struct {
	Endpoint    string
	Destination string
	Timeout     time.Duration
	RetryDelay  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

var defaults = map[string]any{
	"http_addr":                      ":8080",
	"app_env":                        "development",
	"timezone":                       "UTC",
	"api_allowed_origins":            "*",
	"mongo_uri":                      "mongodb://mongo:27017",
	"mongo_db":                       "stagelink",
	"mongo_connect_timeout":          "10s",
	"user_collection":                "users",
	"message_collection":             "messages",
	"slot_collection":                "slots",
	"booking_collection":             "bookings",
	"service_collection":             "premium_services",
	"payment_collection":             "payments",
	"questionnaire_collection":       "questionnaires",
	"failed_notification_collection": "failed_notifications",
	"auth_jwt_issuer":                "stagelink-api",
	"auth_jwt_audience":              "stagelink",
	"auth_token_ttl":                 "24h",
	"auth_rate_limit_requests":       10,
	"auth_rate_limit_window":         "1m",
	"redis_enabled":                  false,
	"redis_addr":                     "redis:6379",
	"redis_db":                       0,
	"storage_region":                 "us-east-1",
	"storage_bucket":                 "stagelink-media",
	"storage_use_path_style":         true,
	"storage_presign_ttl":            "15m",
	"payment_provider":               "sandbox",
	"payment_currency":               "usd",
	"commission_rate_free":           "0.20",
	"commission_rate_premium":        "0.12",
	"commission_minimum":             "1.00",
	"messenger_gateway_url":          "http://messenger-gateway:3000",
	"messenger_gateway_destination":  "email",
	"messenger_gateway_timeout":      "3s",
	"messenger_gateway_retry_delay":  "200ms",
	"log_level":                      "info",
}

// Load reads an optional config.yaml, then environment variables, applies
// defaults and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	commission, err := commissionPolicy(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:           v.GetString("http_addr"),
		Env:            strings.ToLower(v.GetString("app_env")),
		Timezone:       v.GetString("timezone"),
		AllowedOrigins: parseList(v.GetString("api_allowed_origins")),
		Mongo: MongoConfig{
			URI:            v.GetString("mongo_uri"),
			Database:       v.GetString("mongo_db"),
			ConnectTimeout: v.GetDuration("mongo_connect_timeout"),
			Collections: Collections{
				Users:               v.GetString("user_collection"),
				Messages:            v.GetString("message_collection"),
				Slots:               v.GetString("slot_collection"),
				Bookings:            v.GetString("booking_collection"),
				Services:            v.GetString("service_collection"),
				Payments:            v.GetString("payment_collection"),
				Questionnaires:      v.GetString("questionnaire_collection"),
				FailedNotifications: v.GetString("failed_notification_collection"),
			},
		},
		Auth: AuthConfig{
			JWTSecret:         strings.TrimSpace(v.GetString("auth_jwt_secret")),
			Issuer:            v.GetString("auth_jwt_issuer"),
			Audience:          v.GetString("auth_jwt_audience"),
			TokenTTL:          v.GetDuration("auth_token_ttl"),
			RateLimitRequests: v.GetInt("auth_rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("auth_rate_limit_window"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis_enabled"),
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Storage: StorageConfig{
			Endpoint:     strings.TrimSpace(v.GetString("storage_endpoint")),
			Region:       v.GetString("storage_region"),
			Bucket:       v.GetString("storage_bucket"),
			AccessKey:    v.GetString("storage_access_key"),
			SecretKey:    v.GetString("storage_secret_key"),
			UsePathStyle: v.GetBool("storage_use_path_style"),
			PresignTTL:   v.GetDuration("storage_presign_ttl"),
			MediaBaseURL: strings.TrimSpace(v.GetString("media_base_url")),
		},
		Payment: PaymentConfig{
			Provider:            strings.ToLower(strings.TrimSpace(v.GetString("payment_provider"))),
			StripeSecretKey:     v.GetString("stripe_secret_key"),
			StripeWebhookSecret: v.GetString("stripe_webhook_secret"),
			SandboxSecret:       v.GetString("payment_webhook_secret"),
			Currency:            strings.ToLower(v.GetString("payment_currency")),
			Commission:          commission,
		},
		Messenger: MessengerConfig{
			Endpoint:    strings.TrimRight(strings.TrimSpace(v.GetString("messenger_gateway_url")), "/"),
			Destination: strings.TrimSpace(v.GetString("messenger_gateway_destination")),
			Timeout:     v.GetDuration("messenger_gateway_timeout"),
			RetryDelay:  v.GetDuration("messenger_gateway_retry_delay"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func commissionPolicy(v *viper.Viper) (domain.CommissionPolicy, error) {
	parse := func(key string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s must be a decimal: %w", strings.ToUpper(key), err)
		}
		return d, nil
	}
	free, err := parse("commission_rate_free")
	if err != nil {
		return domain.CommissionPolicy{}, err
	}
	premium, err := parse("commission_rate_premium")
	if err != nil {
		return domain.CommissionPolicy{}, err
	}
	minimum, err := parse("commission_minimum")
	if err != nil {
		return domain.CommissionPolicy{}, err
	}
	return domain.CommissionPolicy{FreeRate: free, PremiumRate: premium, Minimum: minimum}, nil
}

func (c *Config) validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("AUTH_JWT_SECRET is required and must be at least 32 bytes")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	if c.Auth.RateLimitRequests <= 0 || c.Auth.RateLimitWindow <= 0 {
		return errors.New("AUTH_RATE_LIMIT_REQUESTS and AUTH_RATE_LIMIT_WINDOW must be positive")
	}
	if c.Mongo.URI == "" || c.Mongo.Database == "" {
		return errors.New("MONGO_URI and MONGO_DB are required")
	}
	if c.Mongo.ConnectTimeout <= 0 {
		return errors.New("MONGO_CONNECT_TIMEOUT must be positive")
	}
	if err := c.Payment.Commission.Validate(); err != nil {
		return err
	}
	if len(c.Payment.Currency) != 3 {
		return errors.New("PAYMENT_CURRENCY must be a 3-letter ISO code")
	}
	switch c.Payment.Provider {
	case "stripe":
		if c.Payment.StripeSecretKey == "" || c.Payment.StripeWebhookSecret == "" {
			return errors.New("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET are required for the stripe provider")
		}
	case "sandbox":
		if c.IsProduction() {
			return errors.New("the sandbox payment provider cannot run in production")
		}
		if c.Payment.SandboxSecret == "" {
			return errors.New("PAYMENT_WEBHOOK_SECRET is required for the sandbox provider")
		}
	default:
		return fmt.Errorf("PAYMENT_PROVIDER %q is not supported", c.Payment.Provider)
	}
	if c.IsProduction() {
		for _, origin := range c.AllowedOrigins {
			if origin == "*" {
				return errors.New("API_ALLOWED_ORIGINS cannot be '*' in production")
			}
		}
	}
	return nil
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return []string{"*"}
	}
	return values
}
