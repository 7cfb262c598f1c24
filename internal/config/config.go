package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brickline/storefront/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Billing    BillingConfig    `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string
	SSLMode                string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
}

// BillingConfig holds the invoicing policy of the store: the operating
// currency, the due date offset and the active numbering series.
type BillingConfig struct {
	Currency string `validate:"required,len=3"`
	DueDays  int    `validate:"gte=0"`
	Series   SeriesConfig
	// AllocatorMaxRetries bounds the internal retries of the number
	// allocator when the atomic increment loses a race
	AllocatorMaxRetries uint64 `mapstructure:"allocator_max_retries"`
}

// SeriesConfig identifies the active invoice numbering series. Numbers are
// unique only within a (prefix, suffix) pair.
type SeriesConfig struct {
	Prefix string
	Suffix string
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront")

	// Set up environment variables support
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Configuration) applyDefaults() {
	if c.Billing.Currency == "" {
		c.Billing.Currency = "EUR"
	}
	if c.Billing.DueDays == 0 {
		c.Billing.DueDays = types.InvoiceDefaultDueDays
	}
	if c.Billing.AllocatorMaxRetries == 0 {
		c.Billing.AllocatorMaxRetries = 3
	}
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Billing: BillingConfig{
			Currency:            "EUR",
			DueDays:             types.InvoiceDefaultDueDays,
			Series:              SeriesConfig{Prefix: "W-", Suffix: "-25"},
			AllocatorMaxRetries: 3,
		},
	}
}
