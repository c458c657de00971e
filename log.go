package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/versebook/versebook/utils"
)

// logConfig is read from the environment so logging can be redirected
// without touching flags or the config file.
type logConfig struct {
	Debug   bool   `env:"VERSEBOOK_DEBUG"`
	LogFile string `env:"VERSEBOOK_LOGFILE"`
}

// setupLog configures the global logger and returns a closer for any log
// file it opened.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logConfig]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log config: %w", err)
	}

	if cfg.Debug || viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(utils.ExpandPath(cfg.LogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("unable to open log file: %w", err)
		}
		log.SetOutput(f)
		log.SetFormatter(log.TextFormatter)
		return f.Close, nil
	}

	log.SetOutput(os.Stderr)
	return func() error { return nil }, nil
}
