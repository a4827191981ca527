package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level tally.yaml configuration. Money values are
// stored as decimal strings so they parse exactly, never through float64.
type Config struct {
	Currency CurrencyConfig `yaml:"currency"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Goal     GoalConfig     `yaml:"goal"`
	Forecast ForecastConfig `yaml:"forecast"`
}

// CurrencyConfig controls how amounts are rendered.
type CurrencyConfig struct {
	Symbol string `yaml:"symbol"`
}

// AlertsConfig holds the spending-alert threshold.
type AlertsConfig struct {
	SpendingLimit string `yaml:"spending_limit"`
}

// GoalConfig holds the savings target.
type GoalConfig struct {
	Target string `yaml:"target"`
}

// ForecastConfig holds the default projection horizon.
type ForecastConfig struct {
	Days int `yaml:"days"`
}

// SpendingLimit parses the configured alert threshold.
func (c *Config) SpendingLimit() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Alerts.SpendingLimit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing spending_limit %q: %w", c.Alerts.SpendingLimit, err)
	}
	return d, nil
}

// GoalTarget parses the configured savings target.
func (c *Config) GoalTarget() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Goal.Target)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing goal target %q: %w", c.Goal.Target, err)
	}
	return d, nil
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new session.
func Default() *Config {
	return &Config{
		Currency: CurrencyConfig{Symbol: "$"},
		Alerts:   AlertsConfig{SpendingLimit: "500.00"},
		Goal:     GoalConfig{Target: "1000.00"},
		Forecast: ForecastConfig{Days: 30},
	}
}
