package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Provider  ProviderConfig  `yaml:"provider"`
	Billing   BillingConfig   `yaml:"billing"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Documents DocumentsConfig `yaml:"documents"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// ProviderConfig contains payment-provider settings. Injected into the
// gateway adapter at construction; never read from ambient process state
// elsewhere.
type ProviderConfig struct {
	APIKey        string `yaml:"api_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	BaseURL       string `yaml:"base_url"`
	PaymentPage   string `yaml:"payment_page"` // base URL for payable links
}

// BillingConfig contains the fixed commercial terms applied at onboarding
type BillingConfig struct {
	EntryFeeCents      int64   `yaml:"entry_fee_cents"`
	RoyaltyRate        float64 `yaml:"royalty_rate"`        // percent
	StockPurchaseRate  float64 `yaml:"stock_purchase_rate"` // percent
	VATRate            float64 `yaml:"vat_rate"`            // percent
	InitialCreditCents int64   `yaml:"initial_credit_cents"`
	CreditLimitCents   int64   `yaml:"credit_limit_cents"`
	Currency           string  `yaml:"currency"`
	ContractYears      int     `yaml:"contract_years"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// DocumentsConfig contains rendered-document settings
type DocumentsConfig struct {
	TemplateDir string `yaml:"template_dir"`
	OutputDir   string `yaml:"output_dir"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron specs for the background jobs
type SchedulerConfig struct {
	SendPaymentReminders string `yaml:"send_payment_reminders"`
	SendInvoiceReminders string `yaml:"send_invoice_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Payment provider
	if val := os.Getenv("PROVIDER_API_KEY"); val != "" {
		c.Provider.APIKey = val
	}
	if val := os.Getenv("PROVIDER_WEBHOOK_SECRET"); val != "" {
		c.Provider.WebhookSecret = val
	}
	if val := os.Getenv("PROVIDER_BASE_URL"); val != "" {
		c.Provider.BaseURL = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Provider validation
	if c.Provider.WebhookSecret == "" {
		return fmt.Errorf("provider webhook secret is required")
	}

	// Billing defaults: the standard franchise package
	if c.Billing.EntryFeeCents == 0 {
		c.Billing.EntryFeeCents = 5_000_000 // 50 000.00
	}
	if c.Billing.RoyaltyRate == 0 {
		c.Billing.RoyaltyRate = 4.0
	}
	if c.Billing.StockPurchaseRate == 0 {
		c.Billing.StockPurchaseRate = 10.0
	}
	if c.Billing.VATRate == 0 {
		c.Billing.VATRate = 20.0
	}
	if c.Billing.InitialCreditCents == 0 {
		c.Billing.InitialCreditCents = 500_000 // 5 000.00
	}
	if c.Billing.CreditLimitCents == 0 {
		c.Billing.CreditLimitCents = 500_000
	}
	if c.Billing.Currency == "" {
		c.Billing.Currency = "EUR"
	}
	if c.Billing.ContractYears == 0 {
		c.Billing.ContractYears = 5
	}

	// Scheduler defaults
	if c.Scheduler.SendPaymentReminders == "" {
		c.Scheduler.SendPaymentReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.SendInvoiceReminders == "" {
		c.Scheduler.SendInvoiceReminders = "0 30 8 * * *" // 8:30 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
