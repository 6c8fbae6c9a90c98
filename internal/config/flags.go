package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Overrides holds command-line values that take priority over the config file.
// Zero values leave the loaded setting untouched.
type Overrides struct {
	ConfigPath string
	Debug      bool
	Timeout    time.Duration
	LogFile    string
	TempDir    string
}

// BindFlags registers the shared converter flags on a flag set.
func (o *Overrides) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&o.Debug, "debug", false, "Enable debug logging")
	fs.DurationVar(&o.Timeout, "timeout", 0, "Time budget per backend invocation (default 2m)")
	fs.StringVar(&o.LogFile, "log-file", "", "Also write logs to this file")
	fs.StringVar(&o.TempDir, "temp-dir", "", "Directory for intermediate files")
}

// applyOverrides applies CLI flag overrides to the config.
func applyOverrides(cfg *Config, o Overrides) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.Timeout > 0 {
		cfg.Converter.SubprocessTimeout = o.Timeout
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	if o.TempDir != "" {
		cfg.Converter.TempDir = o.TempDir
	}
}
