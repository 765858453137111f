// Package config provides runtime configuration for the service. Values come
// from the environment (optionally seeded from a YAML file via CONFIG_FILE);
// credentials are required and validated up front so a misconfigured process
// refuses to start instead of silently disabling endpoints.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr    string
	ServiceName string
	Env         string

	Midtrans  MidtransConfig
	Firestore FirestoreConfig
	Email     EmailConfig
}

type MidtransConfig struct {
	ServerKey  string
	ClientKey  string
	Production bool
}

type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	User     string
	Pass     string
	// Inbox receives contact-form mail; defaults to User.
	Inbox string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SERVICE_NAME", "storefront-backend")
	v.SetDefault("ENV", "dev")
	v.SetDefault("MIDTRANS_PRODUCTION", false)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		ServiceName: v.GetString("SERVICE_NAME"),
		Env:         v.GetString("ENV"),
		Midtrans: MidtransConfig{
			ServerKey:  v.GetString("MIDTRANS_SERVER_KEY"),
			ClientKey:  v.GetString("MIDTRANS_CLIENT_KEY"),
			Production: v.GetBool("MIDTRANS_PRODUCTION"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       v.GetString("FIRESTORE_PROJECT_ID"),
			CredentialsFile: v.GetString("FIRESTORE_CREDENTIALS_FILE"),
		},
		Email: EmailConfig{
			SMTPHost: v.GetString("SMTP_HOST"),
			SMTPPort: v.GetInt("SMTP_PORT"),
			User:     v.GetString("EMAIL_USER"),
			Pass:     v.GetString("EMAIL_PASS"),
			Inbox:    v.GetString("CONTACT_INBOX"),
		},
	}
	if cfg.Email.Inbox == "" {
		cfg.Email.Inbox = cfg.Email.User
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing required key in one diagnostic.
func (c *Config) Validate() error {
	var missing []string
	require := func(value, key string) {
		if value == "" {
			missing = append(missing, key)
		}
	}

	require(c.Midtrans.ServerKey, "MIDTRANS_SERVER_KEY")
	require(c.Midtrans.ClientKey, "MIDTRANS_CLIENT_KEY")
	require(c.Firestore.ProjectID, "FIRESTORE_PROJECT_ID")
	require(c.Email.User, "EMAIL_USER")
	require(c.Email.Pass, "EMAIL_PASS")

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
