package main

import (
	"fmt"
	"os"
)

// Config holds all configuration for the reconciler service. Database
// settings are read by the database package directly.
type Config struct {
	Port string

	// Cashfree payment gateway
	CashfreeBaseURL      string
	CashfreeClientID     string
	CashfreeClientSecret string
	WebhookSecret        string

	// Shiprocket carrier API
	ShiprocketBaseURL string
	ShiprocketToken   string

	// Back-office auth
	AdminAPIToken string
	SyncSecret    string

	// Notifications
	AdminEmail       string
	OrderSNSTopicARN string
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8095"),
		CashfreeBaseURL:      getEnv("CASHFREE_BASE_URL", "https://sandbox.cashfree.com"),
		CashfreeClientID:     os.Getenv("CASHFREE_CLIENT_ID"),
		CashfreeClientSecret: os.Getenv("CASHFREE_CLIENT_SECRET"),
		WebhookSecret:        os.Getenv("CASHFREE_WEBHOOK_SECRET"),
		ShiprocketBaseURL:    getEnv("SHIPROCKET_BASE_URL", "https://apiv2.shiprocket.in"),
		ShiprocketToken:      os.Getenv("SHIPROCKET_TOKEN"),
		AdminAPIToken:        os.Getenv("ADMIN_API_TOKEN"),
		SyncSecret:           os.Getenv("SYNC_SECRET"),
		AdminEmail:           os.Getenv("ADMIN_EMAIL"),
		OrderSNSTopicARN:     os.Getenv("ORDER_SNS_TOPIC_ARN"),
	}

	if cfg.CashfreeClientID == "" || cfg.CashfreeClientSecret == "" {
		return nil, fmt.Errorf("cashfree credentials not set")
	}
	if cfg.ShiprocketToken == "" {
		return nil, fmt.Errorf("SHIPROCKET_TOKEN not set")
	}
	if cfg.AdminAPIToken == "" && cfg.SyncSecret == "" {
		return nil, fmt.Errorf("at least one of ADMIN_API_TOKEN or SYNC_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
