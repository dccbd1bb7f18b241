package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MerchantID     string
	MerchantSecret string

	// ServiceURL overrides the gateway's default payment-creation
	// endpoint, used against test environments.
	ServiceURL string

	SuccessURL      string
	FailureURL      string
	NotificationURL string

	ConnectTimeout time.Duration
	TotalTimeout   time.Duration

	AppPort string
	AppEnv  string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MerchantID:      os.Getenv("MERCHANT_ID"),
		MerchantSecret:  os.Getenv("MERCHANT_SECRET"),
		ServiceURL:      os.Getenv("SERVICE_URL"),
		SuccessURL:      os.Getenv("SUCCESS_URL"),
		FailureURL:      os.Getenv("FAILURE_URL"),
		NotificationURL: os.Getenv("NOTIFICATION_URL"),
		ConnectTimeout:  durationEnv("CONNECT_TIMEOUT", 15*time.Second),
		TotalTimeout:    durationEnv("TOTAL_TIMEOUT", 30*time.Second),
		AppPort:         os.Getenv("APP_PORT"),
		AppEnv:          os.Getenv("APP_ENV"),
	}

	if cfg.MerchantID == "" || cfg.MerchantSecret == "" {
		log.Fatal("Environment variables not loaded properly: MERCHANT_ID and MERCHANT_SECRET are required")
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}

	return cfg
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s value %q, using default %s", key, raw, fallback)
		return fallback
	}
	return d
}
