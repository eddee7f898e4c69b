// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Config holds all service configuration.
// Environment determines whether the WhatsApp credentials load from env vars
// (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	MerchantID string

	// Optional backends. Empty values select the in-process fallbacks:
	// no CatalogURL = read the local product store directly,
	// no DatabaseURL = in-memory product store,
	// no NATSURL = in-process update broadcast.
	CatalogURL  string
	DatabaseURL string
	NATSURL     string

	// AdminToken guards the product CRUD endpoints. Empty disables them.
	AdminToken string

	// CatalogPollInterval bounds the fallback poller that re-fetches the
	// remote catalog when no update broadcast arrives.
	CatalogPollInterval time.Duration

	// WhatsApp holds the messaging channel settings (loaded from secrets).
	WhatsApp WhatsAppConfig
}

// WhatsAppConfig contains the WhatsApp channel settings.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
type WhatsAppConfig struct {
	// StoreNumber is the destination for wa.me deep links (digits only).
	StoreNumber string `json:"store_number"`

	// VerifyToken must match hub.verify_token on the webhook handshake.
	VerifyToken string `json:"verify_token"`

	// Graph API credentials for webhook replies. Both must be set together;
	// when absent the webhook channel is disabled and only deep links work.
	GraphToken   string `json:"graph_token"`
	GraphPhoneID string `json:"graph_phone_id"`
	GraphBaseURL string `json:"graph_base_url,omitempty"`

	StoreName string `json:"store_name,omitempty"`
}

// HasGraphAPI reports whether outbound Graph API sends are configured.
func (w WhatsAppConfig) HasGraphAPI() bool {
	return w.GraphToken != "" && w.GraphPhoneID != ""
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:                envOrDefault("PORT", "8080"),
		Environment:         envOrDefault("ENVIRONMENT", "development"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		GCPProject:          os.Getenv("GCP_PROJECT"),
		MerchantID:          os.Getenv("MERCHANT_ID"),
		CatalogURL:          os.Getenv("CATALOG_URL"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		NATSURL:             os.Getenv("NATS_URL"),
		AdminToken:          os.Getenv("ADMIN_TOKEN"),
		CatalogPollInterval: secondsOrDefault("CATALOG_POLL_SECONDS", 300),
	}

	// Load WhatsApp config based on environment
	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.MerchantID == "" {
			return nil, fmt.Errorf("MERCHANT_ID required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading whatsapp config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port                string         `json:"port"`
		Environment         string         `json:"environment"`
		LogLevel            string         `json:"log_level"`
		CatalogURL          string         `json:"catalog_url"`
		DatabaseURL         string         `json:"database_url"`
		NATSURL             string         `json:"nats_url"`
		AdminToken          string         `json:"admin_token"`
		CatalogPollSeconds  int            `json:"catalog_poll_seconds"`
		WhatsApp            WhatsAppConfig `json:"whatsapp"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	pollSeconds := fileConfig.CatalogPollSeconds
	if pollSeconds <= 0 {
		pollSeconds = 300
	}

	cfg := &Config{
		Port:                withDefault(fileConfig.Port, "8080"),
		Environment:         withDefault(fileConfig.Environment, "development"),
		LogLevel:            withDefault(fileConfig.LogLevel, "info"),
		CatalogURL:          fileConfig.CatalogURL,
		DatabaseURL:         fileConfig.DatabaseURL,
		NATSURL:             fileConfig.NATSURL,
		AdminToken:          fileConfig.AdminToken,
		CatalogPollInterval: time.Duration(pollSeconds) * time.Second,
		WhatsApp:            fileConfig.WhatsApp,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches WhatsApp config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{merchant_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.MerchantID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.WhatsApp); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	return nil
}

// loadFromEnv reads WhatsApp config from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() error {
	c.WhatsApp = WhatsAppConfig{
		StoreNumber:  os.Getenv("WHATSAPP_NUMBER"),
		VerifyToken:  os.Getenv("VERIFY_TOKEN"),
		GraphToken:   os.Getenv("WHATSAPP_TOKEN"),
		GraphPhoneID: os.Getenv("WHATSAPP_PHONE_ID"),
		GraphBaseURL: os.Getenv("WHATSAPP_GRAPH_URL"),
		StoreName:    os.Getenv("STORE_NAME"),
	}
	return nil
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.WhatsApp.StoreNumber == "" {
		return fmt.Errorf("store_number is required")
	}
	for _, r := range c.WhatsApp.StoreNumber {
		if r < '0' || r > '9' {
			return fmt.Errorf("store_number must contain digits only")
		}
	}

	if c.WhatsApp.VerifyToken == "" {
		return fmt.Errorf("verify_token is required")
	}

	// Graph credentials are optional but must be complete when present.
	if (c.WhatsApp.GraphToken == "") != (c.WhatsApp.GraphPhoneID == "") {
		return fmt.Errorf("graph_token and graph_phone_id must be set together")
	}

	return nil
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// secondsOrDefault reads an integer seconds value from the environment.
func secondsOrDefault(key string, defSeconds int) time.Duration {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(defSeconds) * time.Second
}
