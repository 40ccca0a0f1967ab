// Package config loads contest settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/engine"
	"github.com/talgya/tribute-arena/internal/odds"
	"github.com/talgya/tribute-arena/internal/world"
)

// AdminKeyEnv names the environment variable holding the admin bearer token.
const AdminKeyEnv = "ARENA_ADMIN_KEY"

// Config is the full set of contest and service settings.
type Config struct {
	FatalityRate  float64 `yaml:"fatality_rate"`
	EnableWeather bool    `yaml:"enable_weather"`
	MinDays       int     `yaml:"min_days"`
	MaxDays       int     `yaml:"max_days"`

	MapRadius         int   `yaml:"map_radius"`
	InventoryCapacity int   `yaml:"inventory_capacity"`
	OddsSimulations   int   `yaml:"odds_simulations"`
	WeatherSeed       int64 `yaml:"weather_seed"` // 0 = random

	SponsorPoints int `yaml:"sponsor_points"`
	SponsorCost   int `yaml:"sponsor_cost"`

	DBPath       string   `yaml:"db_path"`
	APIPort      int      `yaml:"api_port"`
	CatalogPacks []string `yaml:"catalog_packs"`

	// AdminKey is never read from the file.
	AdminKey string `yaml:"-"`
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		FatalityRate:      1.0,
		EnableWeather:     true,
		MinDays:           5,
		MaxDays:           10,
		MapRadius:         world.DefaultRadius,
		InventoryCapacity: agents.DefaultInventoryCapacity,
		OddsSimulations:   odds.DefaultSimulations,
		SponsorPoints:     100,
		SponsorCost:       25,
		DBPath:            "arena.db",
		APIPort:           8080,
	}
}

// Load reads path over the defaults and picks up secrets from the
// environment. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.AdminKey = os.Getenv(AdminKeyEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every setting that is out of range.
func (c Config) Validate() error {
	var errs []error
	if c.FatalityRate < 0 {
		errs = append(errs, fmt.Errorf("fatality_rate must not be negative, got %v", c.FatalityRate))
	}
	if c.MinDays < 1 {
		errs = append(errs, fmt.Errorf("min_days must be at least 1, got %d", c.MinDays))
	}
	if c.MaxDays < c.MinDays {
		errs = append(errs, fmt.Errorf("max_days (%d) must not be below min_days (%d)", c.MaxDays, c.MinDays))
	}
	if c.MapRadius < 3 {
		errs = append(errs, fmt.Errorf("map_radius must be at least 3, got %d", c.MapRadius))
	}
	if c.InventoryCapacity < 1 {
		errs = append(errs, fmt.Errorf("inventory_capacity must be at least 1, got %d", c.InventoryCapacity))
	}
	if c.OddsSimulations < 1 {
		errs = append(errs, fmt.Errorf("odds_simulations must be at least 1, got %d", c.OddsSimulations))
	}
	if c.SponsorCost < 0 || c.SponsorPoints < 0 {
		errs = append(errs, errors.New("sponsor_points and sponsor_cost must not be negative"))
	}
	if c.APIPort < 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("api_port out of range: %d", c.APIPort))
	}
	return errors.Join(errs...)
}

// Settings extracts the contest rules the engine needs.
func (c Config) Settings() engine.Settings {
	return engine.Settings{
		FatalityRate:    c.FatalityRate,
		EnableWeather:   c.EnableWeather,
		MinDays:         c.MinDays,
		MaxDays:         c.MaxDays,
		OddsSimulations: c.OddsSimulations,
		WeatherSeed:     c.WeatherSeed,
		SponsorPoints:   c.SponsorPoints,
		SponsorCost:     c.SponsorCost,
	}
}
