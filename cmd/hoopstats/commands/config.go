package commands

import (
	"errors"
	"fmt"
	"hoopstats/internal/pipeline"
	"hoopstats/internal/scrapers/espn"
	"hoopstats/lib/configutil"
	configlibsql "hoopstats/lib/configutil/libsql"
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Endpoints espn.Endpoints `json:"endpoints"`
	// Interval is the delay between the start of two requests, ex. "500ms".
	Interval         string              `json:"interval"`
	Timeout          string              `json:"timeout"`
	UserAgent        string              `json:"user_agent"`
	CloudflareBypass bool                `json:"cloudflare_bypass"`
	Database         configlibsql.Struct `json:"database"`
	// CollisionPolicy is one of "last-write-wins", "error" or "disambiguate".
	CollisionPolicy string `json:"collision_policy"`
	TopN            int    `json:"top_n"`
	TimeZone        string `json:"time_zone"`
}

var defaultConfig = Config{
	Endpoints: espn.DefaultEndpoints,
	Interval:  "500ms",
	Timeout:   "30s",
	UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	Database: configlibsql.Struct{
		File: "hoopstats.db",
	},
	CollisionPolicy: string(pipeline.CollisionLastWriteWins),
	TopN:            10,
	TimeZone:        "UTC",
}

// LoadConfig reads the config file, searching up from the cwd, and fills
// everything it leaves out with defaults. A missing file is not an error.
func LoadConfig(name string) (Config, error) {
	config, err := configutil.ReadRecursively[Config](name)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "name", name)
		err = nil
	}
	if err != nil {
		return Config{}, err
	}
	config, err = configutil.WithDefaults(config, defaultConfig)
	if err != nil {
		return Config{}, err
	}
	return config, config.validate()
}

func (c Config) validate() error {
	if _, err := time.ParseDuration(c.Interval); err != nil {
		return fmt.Errorf("interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	if _, err := pipeline.ParseCollisionPolicy(c.CollisionPolicy); err != nil {
		return err
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	return nil
}

func (c Config) ClientOptions() espn.ClientOptions {
	interval, _ := time.ParseDuration(c.Interval)
	timeout, _ := time.ParseDuration(c.Timeout)
	return espn.ClientOptions{
		Interval:         interval,
		Timeout:          timeout,
		UserAgent:        c.UserAgent,
		CloudflareBypass: c.CloudflareBypass,
	}
}
