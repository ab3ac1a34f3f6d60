package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// VenueConfig holds the per-venue overrides. Zero values fall back to the
// adapter defaults (public base URL, published taker fee).
type VenueConfig struct {
	Enabled bool    `toml:"enabled"`
	BaseURL string  `toml:"base_url"`
	Fee     float64 `toml:"fee"`
}

type Config struct {
	App struct {
		Notional         float64 `toml:"notional"`
		Leverage         int     `toml:"leverage"`
		DefaultMinProfit float64 `toml:"default_min_profit"`
		FetchTimeoutSec  int     `toml:"fetch_timeout_sec"`
		Debug            bool    `toml:"debug"`
	} `toml:"app"`

	Instruments struct {
		List []string `toml:"list"`
	} `toml:"instruments"`

	Telegram struct {
		Token          string `toml:"token"`
		PollTimeoutSec int    `toml:"poll_timeout_sec"`
	} `toml:"telegram"`

	Venues map[string]VenueConfig `toml:"venues"`

	Storage struct {
		SQLite struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"sqlite"`
		Postgres struct {
			Enabled bool   `toml:"enabled"`
			DSN     string `toml:"dsn"`
		} `toml:"postgres"`
	} `toml:"storage"`

	Redis struct {
		Enabled  bool   `toml:"enabled"`
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
		Stream   string `toml:"stream"`
		Channel  string `toml:"channel"`
	} `toml:"redis"`
}

// Load reads the TOML config at path, layers environment overrides on top,
// fills defaults and validates the result. A .env file next to the binary is
// honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays secrets and connection strings from the environment so
// they never have to live in the config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("DEXSPREAD_PG_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("DEXSPREAD_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
}

// applyDefaults 只补缺省值，显式写出的非法数值留给 validate 拒绝
func applyDefaults(cfg *Config) {
	if cfg.App.Notional == 0 {
		cfg.App.Notional = 10000
	}
	if cfg.App.Leverage == 0 {
		cfg.App.Leverage = 10
	}
	if cfg.App.DefaultMinProfit == 0 {
		cfg.App.DefaultMinProfit = 1.0
	}
	if cfg.App.FetchTimeoutSec == 0 {
		cfg.App.FetchTimeoutSec = 10
	}
	if cfg.Telegram.PollTimeoutSec == 0 {
		cfg.Telegram.PollTimeoutSec = 30
	}
	// No [venues] table at all means "run with the built-in venues".
	if len(cfg.Venues) == 0 {
		cfg.Venues = map[string]VenueConfig{
			"extended": {Enabled: true},
			"nado":     {Enabled: true},
		}
	}
	if cfg.Storage.SQLite.Enabled && cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "data/alerts.db"
	}
	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
}

func validate(cfg *Config) error {
	cfg.Instruments.List = normalizeInstruments(cfg.Instruments.List)
	if len(cfg.Instruments.List) == 0 {
		return errors.New("instruments.list is empty")
	}

	if cfg.App.Notional <= 0 {
		return fmt.Errorf("app.notional must be positive, got %v", cfg.App.Notional)
	}
	if cfg.App.Leverage <= 0 {
		return fmt.Errorf("app.leverage must be positive, got %d", cfg.App.Leverage)
	}
	if cfg.App.DefaultMinProfit <= 0 {
		return fmt.Errorf("app.default_min_profit must be positive, got %v", cfg.App.DefaultMinProfit)
	}
	if cfg.App.FetchTimeoutSec <= 0 {
		return fmt.Errorf("app.fetch_timeout_sec must be positive, got %d", cfg.App.FetchTimeoutSec)
	}
	if cfg.Telegram.PollTimeoutSec <= 0 {
		return fmt.Errorf("telegram.poll_timeout_sec must be positive, got %d", cfg.Telegram.PollTimeoutSec)
	}

	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return errors.New("telegram.token is empty (set BOT_TOKEN or telegram.token)")
	}

	venues := make(map[string]VenueConfig, len(cfg.Venues))
	for name, vc := range cfg.Venues {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return errors.New("venues: empty venue name")
		}
		if vc.Fee < 0 {
			return fmt.Errorf("venues.%s.fee must not be negative", name)
		}
		venues[name] = vc
	}
	cfg.Venues = venues

	if cfg.Storage.Postgres.Enabled && strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
		return errors.New("storage.postgres.dsn is empty (set DEXSPREAD_PG_DSN or storage.postgres.dsn)")
	}

	return nil
}

// EnabledVenues returns the names of all enabled venues in sorted order.
func (c *Config) EnabledVenues() []string {
	names := make([]string, 0, len(c.Venues))
	for name, vc := range c.Venues {
		if vc.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// normalizeInstruments trims, uppercases and dedupes while keeping order.
func normalizeInstruments(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
