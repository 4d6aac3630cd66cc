package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"fxbt/sim"
)

// Config is the complete run configuration.
type Config struct {
	Account Account `json:"account" yaml:"account"`
	Engine  Engine  `json:"engine" yaml:"engine"`
	Journal Journal `json:"journal" yaml:"journal"`
	Data    Data    `json:"data" yaml:"data"`
}

// Account contains account initialization parameters.
type Account struct {
	Symbol  string  `json:"symbol" yaml:"symbol"`
	Balance float64 `json:"balance" yaml:"balance"`
}

// Engine contains execution-engine parameters.
type Engine struct {
	SpreadPips       float64 `json:"spread_pips" yaml:"spread_pips"`
	CommissionPerLot float64 `json:"commission_per_lot" yaml:"commission_per_lot"`
	MarginRate       float64 `json:"margin_rate" yaml:"margin_rate"`
	MaxPositions     int     `json:"max_positions" yaml:"max_positions"`
	MarginCeilingPct float64 `json:"margin_ceiling_pct,omitempty" yaml:"margin_ceiling_pct,omitempty"`
	LotSize          float64 `json:"lot_size,omitempty" yaml:"lot_size,omitempty"`
	CloseAtEnd       bool    `json:"close_at_end,omitempty" yaml:"close_at_end,omitempty"`
	CloseOnOpposite  bool    `json:"close_on_opposite,omitempty" yaml:"close_on_opposite,omitempty"`
}

// Journal contains journaling parameters.
type Journal struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Data points at the bar and signal datasets.
type Data struct {
	Bars    string `json:"bars" yaml:"bars"`
	Signals string `json:"signals,omitempty" yaml:"signals,omitempty"`
}

// LoadFromFile loads configuration from a file, YAML first with a JSON
// fallback.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, YAML for .yaml/.yml and JSON
// otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Account.Symbol == "" {
		return fmt.Errorf("account.symbol is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Engine.SpreadPips < 0 {
		return fmt.Errorf("engine.spread_pips must not be negative")
	}
	if c.Engine.CommissionPerLot < 0 {
		return fmt.Errorf("engine.commission_per_lot must not be negative")
	}
	if c.Engine.MarginRate <= 0 {
		return fmt.Errorf("engine.margin_rate must be positive")
	}
	if c.Engine.MaxPositions <= 0 {
		return fmt.Errorf("engine.max_positions must be positive")
	}
	if c.Engine.MarginCeilingPct < 0 || c.Engine.MarginCeilingPct > 1 {
		return fmt.Errorf("engine.margin_ceiling_pct must be between 0 and 1")
	}
	if c.Engine.LotSize < 0 {
		return fmt.Errorf("engine.lot_size must not be negative")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// SimConfig maps the file configuration onto the engine's config.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Symbol:           c.Account.Symbol,
		InitialBalance:   c.Account.Balance,
		SpreadPips:       c.Engine.SpreadPips,
		CommissionPerLot: c.Engine.CommissionPerLot,
		MarginRate:       c.Engine.MarginRate,
		MaxPositions:     c.Engine.MaxPositions,
		MarginCeilingPct: c.Engine.MarginCeilingPct,
		DefaultLotSize:   c.Engine.LotSize,
		CloseAtEnd:       c.Engine.CloseAtEnd,
		CloseOnOpposite:  c.Engine.CloseOnOpposite,
	}
}

// Default returns a configuration with sensible defaults for the USD/JPY
// research datasets.
func Default() *Config {
	return &Config{
		Account: Account{
			Symbol:  "USDJPY",
			Balance: 3_000_000,
		},
		Engine: Engine{
			SpreadPips:   0.2,
			MarginRate:   0.04,
			MaxPositions: 10,
			LotSize:      0.1,
			CloseAtEnd:   true,
		},
		Journal: Journal{
			Type:       "csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
	}
}
