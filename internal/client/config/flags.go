package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the remote API
//	-d string   path of the local database
//	-t int      request timeout in seconds
//	-l int      daily time limit in minutes
//	-v          debug logging
//
// Only these flags are taken from args, via flagx.FilterArgs, so other
// components may define their own.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the remote API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	limit := fs.Int("l", int(cfg.TimeLimit.Minutes()), "daily time limit (in minutes)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "l":
			cfg.TimeLimit = time.Duration(*limit) * time.Minute
		}
	})
}
