// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typedesk/internal/clock"
)

// Defaults used when neither flags, environment nor file set a value.
const (
	DefaultSubject       = "english_30"
	DefaultDuration      = clock.DefaultDuration
	DefaultServerAddr    = "127.0.0.1:3000"
	DefaultServerRate    = 5.0
	DefaultServerBurst   = 10
	DefaultSubmitTimeout = 10
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Submit   SubmitConfig   `toml:"submit"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Subject     *string `toml:"subject"`
	Language    *string `toml:"language"`
	TargetWPM   *int    `toml:"target-wpm"`
	Duration    *int    `toml:"duration"`
	WordListDir *string `toml:"wordlist-dir"`
}

// SubmitConfig maps the practice API client settings.
type SubmitConfig struct {
	URL     *string `toml:"url"`
	Token   *string `toml:"token"`
	Timeout *int    `toml:"timeout"`
}

// ServerConfig maps the results server settings.
type ServerConfig struct {
	Addr  *string  `toml:"addr"`
	Token *string  `toml:"token"`
	Rate  *float64 `toml:"rate"`
	Burst *int     `toml:"burst"`
	DB    *string  `toml:"db"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Load reads the config file and applies environment overrides on top.
func Load(path string) (FileConfig, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// Template returns the commented config written by `typedesk config`.
func Template() string {
	return fmt.Sprintf(`# typedesk configuration
# Uncomment a value to enable it. Environment variables override this file
# and CLI flags override both.

[practice]
# subject = %q      # Subject id, see `+"`typedesk subjects`"+`
# language = "english"        # english, marathi or hindi (used with target-wpm)
# target-wpm = 30             # 30, 40 or 50
# duration = %d              # Session length in seconds
# wordlist-dir = ""           # Directory with <language>.txt word list overrides

[submit]
# url = ""                    # Practice API base URL; empty keeps results local only
# token = ""                  # Bearer token
# timeout = %d                # Request timeout in seconds

[server]
# addr = %q
# token = ""                  # Required bearer token; empty disables auth
# rate = %.1f                 # Submissions per second
# burst = %d
# db = ""                     # Defaults to the practice database

[log]
# level = %q
# format = %q
`,
		DefaultSubject,
		DefaultDuration,
		DefaultSubmitTimeout,
		DefaultServerAddr,
		DefaultServerRate,
		DefaultServerBurst,
		DefaultLogLevel,
		DefaultLogFormat,
	)
}
