package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// WhatsApp gateway.
	WhatsAppAPIURL   string `mapstructure:"WHATSAPP_API_URL"`
	WhatsAppAPIToken string `mapstructure:"WHATSAPP_API_TOKEN"`

	// Shop identity used in outbound messages.
	ShopName     string `mapstructure:"SHOP_NAME"`
	ShopTimezone string `mapstructure:"SHOP_TIMEZONE"`

	// CancelCodeSecret keys the cancel-code hash; the raw code is never
	// persisted. AdminTokenHash is a bcrypt hash of the operator token.
	CancelCodeSecret string `mapstructure:"CANCEL_CODE_SECRET"`
	AdminJWTSecret   string `mapstructure:"ADMIN_JWT_SECRET"`
	AdminTokenHash   string `mapstructure:"ADMIN_TOKEN_HASH"`

	// Self-service cancellation link prefix (raw cancel code is appended).
	CancelLinkBase string `mapstructure:"CANCEL_LINK_BASE"`

	// Outbound queue sweeping.
	SweepIntervalMin int `mapstructure:"SWEEP_INTERVAL_MIN"`
	SweepBatchSize   int `mapstructure:"SWEEP_BATCH_SIZE"`
	SweepSendDelayMs int `mapstructure:"SWEEP_SEND_DELAY_MS"`

	// Optional promo image attached to birthday broadcasts.
	PromoImageURL string `mapstructure:"PROMO_IMAGE_URL"`

	// Dependency health probe interval.
	HealthIntervalSec int `mapstructure:"HEALTH_INTERVAL_SEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "reserva")
	viper.SetDefault("SHOP_NAME", "Reserva")
	viper.SetDefault("SHOP_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("CANCEL_LINK_BASE", "https://reserva.app/cancelar/")
	viper.SetDefault("SWEEP_INTERVAL_MIN", 5)
	viper.SetDefault("SWEEP_BATCH_SIZE", 25)
	viper.SetDefault("SWEEP_SEND_DELAY_MS", 1500)
	viper.SetDefault("HEALTH_INTERVAL_SEC", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
