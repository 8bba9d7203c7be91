package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvAPIURL      = "TYPEDESK_API_URL"
	EnvAPIToken    = "TYPEDESK_API_TOKEN"
	EnvServerAddr  = "TYPEDESK_SERVER_ADDR"
	EnvServerToken = "TYPEDESK_SERVER_TOKEN"
	EnvLogLevel    = "TYPEDESK_LOG_LEVEL"
)

// LoadDotEnv loads variables from .env files without overriding the ones
// already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ApplyEnv overrides file values with non-empty environment variables.
func (c *FileConfig) ApplyEnv(lookup func(string) (string, bool)) {
	override := func(key string, target **string) {
		v, ok := lookup(key)
		if !ok {
			return
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		*target = &v
	}
	override(EnvAPIURL, &c.Submit.URL)
	override(EnvAPIToken, &c.Submit.Token)
	override(EnvServerAddr, &c.Server.Addr)
	override(EnvServerToken, &c.Server.Token)
	override(EnvLogLevel, &c.Log.Level)
}
