package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	AppEnv             string
	PostgresUser       string
	PostgresPassword   string
	PostgresDB         string
	PostgresHost       string
	PostgresPort       string
	PostgresSSLMode    string
	PostgresTimeZone   string
	JWTSecret          string
	KafkaBrokers       string
	PaymentTopic       string
	PaymentSNSTopicARN string // SNS topic ARN for payment events (best-effort mirror)
	IdentityServiceURL string // base URL of the auth service claims endpoint
}

func LoadConfig() (*Config, error) {
	// Missing .env just means the system environment is authoritative.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8088"),
		AppEnv:             getEnv("APP_ENV", "development"),
		PostgresUser:       os.Getenv("POSTGRES_USER"),
		PostgresPassword:   os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:         os.Getenv("POSTGRES_DB"),
		PostgresHost:       os.Getenv("POSTGRES_HOST"),
		PostgresPort:       getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:    getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:   getEnv("POSTGRES_TIMEZONE", "Asia/Jakarta"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		KafkaBrokers:       getEnv("KAFKA_BROKERS", "localhost:9092"),
		PaymentTopic:       getEnv("PAYMENT_EVENTS_TOPIC", "payment-events"),
		PaymentSNSTopicARN: os.Getenv("PAYMENT_SNS_TOPIC_ARN"),
		IdentityServiceURL: os.Getenv("IDENTITY_SERVICE_URL"),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" ||
		cfg.JWTSecret == "" || cfg.IdentityServiceURL == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
