package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/media"
	"github.com/dmitrijs2005/wellsta/internal/client/usage"
)

// Config holds runtime settings for the WellSta CLI.
type Config struct {
	APIBaseURL   string
	ImageBaseURL string
	DBPath       string

	RequestTimeout time.Duration
	TimeLimit      time.Duration
	IdleThreshold  time.Duration
	TickInterval   time.Duration

	// ScopeWellnessPerUser keeps mood and journal entries per user instead
	// of one list for the whole device.
	ScopeWellnessPerUser bool

	S3 media.S3Config

	Verbose bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://mindfeed-backend.onrender.com"
	c.ImageBaseURL = "http://localhost:4000/images/"
	c.DBPath = "wellsta.db"
	c.RequestTimeout = 10 * time.Second
	c.TimeLimit = usage.DefaultTimeLimit
	c.IdleThreshold = usage.DefaultIdleThreshold
	c.TickInterval = usage.DefaultTickInterval
	c.ScopeWellnessPerUser = true
	c.S3 = media.S3Config{}
	c.Verbose = false
}

// LoadConfig constructs a Config from defaults, then the config file, the
// environment and command-line flags. Later sources take precedence.
// Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, os.Args[1:])
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg, os.Args[1:])
	return cfg
}
