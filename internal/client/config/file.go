package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/wellsta/internal/client/media"
	"github.com/dmitrijs2005/wellsta/internal/flagx"
	"github.com/dmitrijs2005/wellsta/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Durations use timex.Duration,
// so files may hold "30m" or integer nanoseconds. Absent keys leave the
// current value untouched.
type FileConfig struct {
	APIBaseURL           string          `json:"api_base_url" yaml:"api_base_url"`
	ImageBaseURL         string          `json:"image_base_url" yaml:"image_base_url"`
	DBPath               string          `json:"db_path" yaml:"db_path"`
	RequestTimeout       *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	TimeLimit            *timex.Duration `json:"time_limit" yaml:"time_limit"`
	IdleThreshold        *timex.Duration `json:"idle_threshold" yaml:"idle_threshold"`
	TickInterval         *timex.Duration `json:"tick_interval" yaml:"tick_interval"`
	ScopeWellnessPerUser *bool           `json:"scope_wellness_per_user" yaml:"scope_wellness_per_user"`
	S3                   media.S3Config  `json:"s3" yaml:"s3"`
}

// decodeFile picks the decoder by extension: .yaml and .yml are YAML,
// anything else is JSON.
func decodeFile(path string, data []byte) (FileConfig, error) {
	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return fc, yaml.Unmarshal(data, &fc)
	default:
		return fc, json.Unmarshal(data, &fc)
	}
}

// parseFile overlays cfg with the file named by -c or -config, if any.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	fc, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.ImageBaseURL, fc.ImageBaseURL)
	setString(&cfg.DBPath, fc.DBPath)

	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.TimeLimit != nil {
		cfg.TimeLimit = fc.TimeLimit.Duration
	}
	if fc.IdleThreshold != nil {
		cfg.IdleThreshold = fc.IdleThreshold.Duration
	}
	if fc.TickInterval != nil {
		cfg.TickInterval = fc.TickInterval.Duration
	}
	if fc.ScopeWellnessPerUser != nil {
		cfg.ScopeWellnessPerUser = *fc.ScopeWellnessPerUser
	}

	setString(&cfg.S3.Bucket, fc.S3.Bucket)
	setString(&cfg.S3.Region, fc.S3.Region)
	setString(&cfg.S3.Endpoint, fc.S3.Endpoint)
	setString(&cfg.S3.AccessKey, fc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, fc.S3.SecretKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
