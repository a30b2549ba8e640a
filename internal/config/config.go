// Package config resolves the harness's one real configuration surface,
// the report output path, plus the debug toggle. Sources merge in
// ascending precedence: built-in defaults, a .tuisnap.yaml in the
// working directory, environment variables, then programmatic options.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultReportPath is where the HTML report lands when nothing
// overrides it, resolved against the working directory at session end.
const DefaultReportPath = "snapshot_report.html"

// FileName is the optional per-project configuration file.
const FileName = ".tuisnap.yaml"

// Config is the resolved harness configuration.
type Config struct {
	ReportPath string `yaml:"report_path"`
	Debug      bool   `yaml:"debug"`
}

// Load resolves configuration from defaults, the config file, and the
// environment. A malformed or unreadable config file degrades to a
// warning on stderr; the harness must not fail a test session over its
// own configuration file.
func Load() *Config {
	cfg := &Config{ReportPath: DefaultReportPath}

	if raw, err := os.ReadFile(FileName); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			fmt.Fprintf(os.Stderr, "tuisnap: warning: malformed %s: %v, using defaults\n", FileName, err)
		} else {
			if fileCfg.ReportPath != "" {
				cfg.ReportPath = fileCfg.ReportPath
			}
			cfg.Debug = fileCfg.Debug
		}
	} else if !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "tuisnap: warning: reading %s: %v, using defaults\n", FileName, err)
	}

	if v := os.Getenv("TUISNAP_REPORT"); v != "" {
		cfg.ReportPath = v
	}
	if v := os.Getenv("TUISNAP_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		} else {
			cfg.Debug = true
		}
	}
	return cfg
}
