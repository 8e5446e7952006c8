package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/vinm0/sheets-token/pkg/auth"
	"github.com/vinm0/sheets-token/pkg/constants"
)

// Config is the process configuration, read from the environment.
type Config struct {
	ServiceAccountFile string
	TokenURL           string
	Scope              string
	Audience           string
	Subject            string
	Timeout            time.Duration
	Strict             bool
	SpreadsheetID      string
	SheetName          string
	Port               string
}

// LoadDotEnv loads .env files if they exist to simplify local development.
// Variables already set in the environment win.
func LoadDotEnv(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// Load builds a Config from the environment, applying defaults.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		ServiceAccountFile: get(constants.EnvServiceAccountFile, constants.DefaultServiceAccountFile),
		TokenURL:           get(constants.EnvTokenURL, constants.OAuth2TokenURL),
		Scope:              get(constants.EnvTokenScope, constants.SpreadsheetsScope),
		Subject:            get(constants.EnvTokenSubject, ""),
		SpreadsheetID:      get(constants.EnvSpreadsheetID, ""),
		SheetName:          get(constants.EnvSheetName, ""),
		Port:               get(constants.EnvPort, constants.DefaultPort),
	}
	// aud follows the token endpoint unless set explicitly
	cfg.Audience = get(constants.EnvTokenAudience, cfg.TokenURL)

	if raw := get(constants.EnvTokenTimeout, ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", constants.EnvTokenTimeout, raw, err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must not be negative", constants.EnvTokenTimeout, raw)
		}
		cfg.Timeout = d
	}
	if raw := get(constants.EnvTokenStrict, ""); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", constants.EnvTokenStrict, raw, err)
		}
		cfg.Strict = b
	}
	return cfg, nil
}

// Builder returns an assertion builder for this configuration.
func (c Config) Builder() *auth.Builder {
	b := auth.NewBuilder()
	b.Scope = c.Scope
	b.Audience = c.Audience
	b.Subject = c.Subject
	return b
}

// Exchanger returns a token exchanger for this configuration.
func (c Config) Exchanger() *auth.Exchanger {
	return &auth.Exchanger{
		TokenURL: c.TokenURL,
		Timeout:  c.Timeout,
		Strict:   c.Strict,
	}
}
