package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func baseViper() *viper.Viper {
	v := viper.New()
	v.Set("auth_jwt_secret", testSecret)
	v.Set("payment_webhook_secret", "sandbox-secret")
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(baseViper())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "stagelink", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, "premium_services", cfg.Mongo.Collections.Services)
	assert.Equal(t, "failed_notifications", cfg.Mongo.Collections.FailedNotifications)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.Auth.RateLimitWindow)
	assert.Equal(t, "sandbox", cfg.Payment.Provider)
	assert.Equal(t, "usd", cfg.Payment.Currency)
	assert.True(t, cfg.Payment.Commission.FreeRate.Equal(decimal.RequireFromString("0.20")))
	assert.True(t, cfg.Payment.Commission.PremiumRate.Equal(decimal.RequireFromString("0.12")))
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignTTL)
	assert.Equal(t, 200*time.Millisecond, cfg.Messenger.RetryDelay)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Redis.Enabled)
}

func TestFromViper_Overrides(t *testing.T) {
	v := baseViper()
	v.Set("api_allowed_origins", " https://a.example , https://b.example,")
	v.Set("messenger_gateway_url", "http://gateway:3000/")
	v.Set("commission_rate_free", "0.25")
	v.Set("log_format", "json")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "http://gateway:3000", cfg.Messenger.Endpoint)
	assert.True(t, cfg.Payment.Commission.FreeRate.Equal(decimal.RequireFromString("0.25")))
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("PAYMENT_WEBHOOK_SECRET", "sandbox-secret")
	t.Setenv("MONGO_DB", "stagelink_test")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "stagelink_test", cfg.Mongo.Database)
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{"short secret", map[string]any{"auth_jwt_secret": "short"}, "AUTH_JWT_SECRET"},
		{"bad commission", map[string]any{"commission_rate_free": "abc"}, "COMMISSION_RATE_FREE"},
		{"commission above one", map[string]any{"commission_rate_free": "1.5"}, "rate"},
		{"unknown provider", map[string]any{"payment_provider": "paypal"}, "PAYMENT_PROVIDER"},
		{"stripe without keys", map[string]any{"payment_provider": "stripe"}, "STRIPE_SECRET_KEY"},
		{"sandbox in production", map[string]any{"app_env": "production", "api_allowed_origins": "https://x.example"}, "sandbox"},
		{"wildcard origin in production", map[string]any{
			"app_env":               "production",
			"payment_provider":      "stripe",
			"stripe_secret_key":     "sk_live",
			"stripe_webhook_secret": "whsec",
		}, "API_ALLOWED_ORIGINS"},
		{"zero rate limit", map[string]any{"auth_rate_limit_requests": 0}, "AUTH_RATE_LIMIT"},
		{"bad currency", map[string]any{"payment_currency": "dollars"}, "PAYMENT_CURRENCY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := baseViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := FromViper(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromViper_ProductionDefaultsToJSONLogs(t *testing.T) {
	v := baseViper()
	v.Set("app_env", "production")
	v.Set("api_allowed_origins", "https://stagelink.example")
	v.Set("payment_provider", "stripe")
	v.Set("stripe_secret_key", "sk_live")
	v.Set("stripe_webhook_secret", "whsec")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "json", cfg.Log.Format)
}
