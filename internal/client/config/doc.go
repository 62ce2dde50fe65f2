// Package config loads runtime configuration for the WellSta CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are YAML, anything else is JSON.
//  3. WELLSTA_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the remote API
//	-d string   path of the local database
//	-t int      request timeout (seconds)
//	-l int      daily time limit (minutes)
//	-v          debug logging
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "30m" or
// integer nanoseconds:
//
//	api_base_url: https://api.example.com
//	image_base_url: https://img.example.com/images/
//	db_path: data/wellsta.db
//	request_timeout: 10s
//	time_limit: 35m
//	idle_threshold: 30m
//	scope_wellness_per_user: true
//	s3:
//	  bucket: wellsta-media
//	  region: eu-central-1
//
// Leaving s3.bucket empty keeps uploads inline as data URLs.
package config
