// Package config provides configuration management.
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"pajakin/core/deduction"
	"pajakin/core/types"
	perrors "pajakin/internal/errors"
	"pajakin/internal/logging"
)

// EnvPrefix is the prefix for environment overrides (PAJAKIN_OUTPUT_FORMAT, ...)
const EnvPrefix = "PAJAKIN"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// Calculation contains tax calculation defaults
	Calculation CalculationConfig `json:"calculation" mapstructure:"calculation"`

	// Output contains output configuration
	Output OutputConfig `json:"output" mapstructure:"output"`

	// Server contains HTTP API configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// CalculationConfig contains calculation defaults
type CalculationConfig struct {
	// DefaultCategory is the PTKP code used when a request names none
	DefaultCategory string `json:"default_category" mapstructure:"default_category"`

	// OccupationalCost configures the capped occupational-cost deduction
	OccupationalCost OccupationalCostConfig `json:"occupational_cost" mapstructure:"occupational_cost"`
}

// OccupationalCostConfig configures the optional "biaya jabatan" step
type OccupationalCostConfig struct {
	// Enabled applies the deduction unless a request says otherwise
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Rate is the share of gross income deducted, as a decimal string
	Rate string `json:"rate" mapstructure:"rate"`

	// Cap is the annual ceiling in rupiah, as a decimal string
	Cap string `json:"cap" mapstructure:"cap"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" mapstructure:"default_format"`

	// DecimalPlaces is the number of fraction digits shown for rupiah amounts
	DecimalPlaces int32 `json:"decimal_places" mapstructure:"decimal_places"`

	// ShowDetails shows the income and deduction derivation
	ShowDetails bool `json:"show_details" mapstructure:"show_details"`

	// Currency is the display currency
	Currency types.Currency `json:"currency" mapstructure:"currency"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" mapstructure:"addr"`

	// RateLimitRPS is the sustained requests per second per client (0 disables)
	RateLimitRPS float64 `json:"rate_limit_rps" mapstructure:"rate_limit_rps"`

	// RateLimitBurst is the token bucket size per client
	RateLimitBurst int `json:"rate_limit_burst" mapstructure:"rate_limit_burst"`

	// MaxBodyBytes caps request bodies
	MaxBodyBytes int64 `json:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Calculation: CalculationConfig{
			DefaultCategory: "TK/0",
			OccupationalCost: OccupationalCostConfig{
				Enabled: false,
				Rate:    "0.05",
				Cap:     "6000000",
			},
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			DecimalPlaces: 2,
			ShowDetails:   true,
			Currency:      types.CurrencyIDR,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RateLimitRPS:   10,
			RateLimitBurst: 20,
			MaxBodyBytes:   1 << 20,
		},
		Logging: logging.DefaultConfig(),
	}
}

// OccupationalRate parses the configured rate
func (c OccupationalCostConfig) OccupationalRate() (decimal.Decimal, error) {
	return parseDecimal("calculation.occupational_cost.rate", c.Rate)
}

// OccupationalCap parses the configured cap
func (c OccupationalCostConfig) OccupationalCap() (decimal.Decimal, error) {
	return parseDecimal("calculation.occupational_cost.cap", c.Cap)
}

// Steps returns the pre-processing deductions to apply. override, when
// non-nil, replaces Enabled for a single calculation.
func (c OccupationalCostConfig) Steps(override *bool) ([]deduction.Step, error) {
	enabled := c.Enabled
	if override != nil {
		enabled = *override
	}
	if !enabled {
		return nil, nil
	}

	rate, err := c.OccupationalRate()
	if err != nil {
		return nil, err
	}
	capAmount, err := c.OccupationalCap()
	if err != nil {
		return nil, err
	}
	step, err := deduction.NewOccupationalCost(rate, capAmount)
	if err != nil {
		return nil, perrors.Config("invalid occupational cost settings", err)
	}
	return []deduction.Step{step}, nil
}

func parseDecimal(key, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, perrors.Config("invalid decimal for "+key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, perrors.Config(key+" must not be negative", nil)
	}
	return d, nil
}

// Load loads configuration from a file, applying PAJAKIN_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, perrors.Config("failed to read config "+path, err)
			}
		}
	}

	config := Default()
	if err := v.Unmarshal(config); err != nil {
		return nil, perrors.Config("failed to decode config", err)
	}

	return config, nil
}

// LoadFromEnv loads defaults plus environment overrides only
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	d := Default()
	v.SetDefault("version", d.Version)
	v.SetDefault("calculation.default_category", d.Calculation.DefaultCategory)
	v.SetDefault("calculation.occupational_cost.enabled", d.Calculation.OccupationalCost.Enabled)
	v.SetDefault("calculation.occupational_cost.rate", d.Calculation.OccupationalCost.Rate)
	v.SetDefault("calculation.occupational_cost.cap", d.Calculation.OccupationalCost.Cap)
	v.SetDefault("output.default_format", d.Output.DefaultFormat)
	v.SetDefault("output.decimal_places", d.Output.DecimalPlaces)
	v.SetDefault("output.show_details", d.Output.ShowDetails)
	v.SetDefault("output.currency", string(d.Output.Currency))
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate_limit_rps", d.Server.RateLimitRPS)
	v.SetDefault("server.rate_limit_burst", d.Server.RateLimitBurst)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
	return v
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
