package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adhruv/bms-events/internal/browser"
)

const (
	configPathEnv = "BMS_CONFIG"
	dataFileEnv   = "BMS_DATA_FILE"
	databaseEnv   = "DATABASE_DSN"
	addrEnv       = "BMS_ADDR"
	headlessEnv   = "HEADLESS"
)

// Config holds all settings for the tracker. Values come from defaults,
// then an optional YAML file, then environment overrides, in that order.
type Config struct {
	Cities  []string      `yaml:"cities"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Refresh RefreshConfig `yaml:"refresh"`
	Notify  NotifyConfig  `yaml:"notify"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScrapeConfig tunes page loading and the scroll/stabilize loop.
// Durations are millisecond counts, matching how the listing site's
// loading behavior was originally measured.
type ScrapeConfig struct {
	BaseURL           string `yaml:"baseUrl"`
	Headless          bool   `yaml:"headless"`
	UserAgent         string `yaml:"userAgent"`
	PageLoadTimeoutMS int    `yaml:"pageLoadTimeoutMs"`
	InitialWaitMS     int    `yaml:"initialWaitMs"`
	ScrollStepPx      int    `yaml:"scrollStepPx"`
	ScrollDelayMS     int    `yaml:"scrollDelayMs"`
	SettleIntervalMS  int    `yaml:"settleIntervalMs"`
	ConfirmWaitMS     int    `yaml:"confirmWaitMs"`
	FinalWaitMS       int    `yaml:"finalWaitMs"`
	StableRounds      int    `yaml:"stableRounds"`
	MaxScrollTimeMS   int    `yaml:"maxScrollTimeMs"`
}

// PageLoadTimeout returns the navigation deadline.
func (c ScrapeConfig) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadTimeoutMS) * time.Millisecond
}

// InitialWait returns the settle time after navigation.
func (c ScrapeConfig) InitialWait() time.Duration {
	return time.Duration(c.InitialWaitMS) * time.Millisecond
}

// Stabilize maps the scroll tunables onto the controller config.
func (c ScrapeConfig) Stabilize() browser.Config {
	return browser.Config{
		StepPx:        c.ScrollStepPx,
		StepDelay:     time.Duration(c.ScrollDelayMS) * time.Millisecond,
		SettleWait:    time.Duration(c.SettleIntervalMS) * time.Millisecond,
		ConfirmWait:   time.Duration(c.ConfirmWaitMS) * time.Millisecond,
		FinalWait:     time.Duration(c.FinalWaitMS) * time.Millisecond,
		StableRounds:  c.StableRounds,
		MaxScrollTime: time.Duration(c.MaxScrollTimeMS) * time.Millisecond,
	}
}

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "postgres"
	Path    string `yaml:"path"`    // snapshot path for the file backend
	DSN     string `yaml:"dsn"`     // connection string for the postgres backend
}

// ServerConfig describes the HTTP API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RefreshConfig drives the periodic all-cities refresh.
type RefreshConfig struct {
	IntervalMinutes int `yaml:"intervalMinutes"`
}

// Interval returns the refresh period.
func (c RefreshConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// NotifyConfig selects how newly discovered events are announced.
type NotifyConfig struct {
	Mode string `yaml:"mode"` // "off", "dryrun", or "twitter"
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from the given path (or $BMS_CONFIG when the
// path is empty) and applies environment overrides. A missing file is
// not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Cities) == 0 {
		cfg.Cities = defaults().Cities
	}
	for i, city := range cfg.Cities {
		cfg.Cities[i] = strings.ToLower(strings.TrimSpace(city))
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dataFileEnv); v != "" {
		c.Storage.Path = v
	}
	// Presence of a database DSN selects the postgres backend.
	if v := os.Getenv(databaseEnv); v != "" {
		c.Storage.DSN = v
		c.Storage.Backend = "postgres"
	}
	if v := os.Getenv(addrEnv); v != "" {
		c.Server.Addr = v
	}
	// HEADLESS=false opens a visible browser for debugging.
	if v := os.Getenv(headlessEnv); v != "" {
		c.Scrape.Headless = !strings.EqualFold(v, "false")
	}
}

func defaults() Config {
	return Config{
		Cities: []string{"jaipur", "mumbai", "delhi", "chandigarh", "lucknow"},
		Scrape: ScrapeConfig{
			BaseURL:           "https://in.bookmyshow.com",
			Headless:          true,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			PageLoadTimeoutMS: 120000,
			InitialWaitMS:     3000,
			ScrollStepPx:      120,
			ScrollDelayMS:     80,
			SettleIntervalMS:  2000,
			ConfirmWaitMS:     10000,
			FinalWaitMS:       2000,
			StableRounds:      2,
			MaxScrollTimeMS:   90000,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "./data/events.json",
		},
		Server:  ServerConfig{Addr: ":4000"},
		Refresh: RefreshConfig{IntervalMinutes: 360},
		Notify:  NotifyConfig{Mode: "off"},
		Logging: LoggingConfig{Level: "info"},
	}
}
