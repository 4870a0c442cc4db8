// Package config loads the CLI client's settings from UNSEEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// AppDirName is the directory created under the user's config dir.
const AppDirName = "unseen"

// Config holds the client settings.
type Config struct {
	// APIURL is the base URL of the Auth API.
	APIURL string `env:"UNSEEN_API_URL" envDefault:"http://localhost:3000"`

	// HTTPTimeout bounds each request to the Auth API.
	HTTPTimeout time.Duration `env:"UNSEEN_HTTP_TIMEOUT" envDefault:"15s"`

	// CredentialsDir holds the encrypted session token. Defaults to
	// os.UserConfigDir()/unseen.
	CredentialsDir string `env:"UNSEEN_CREDENTIALS_DIR"`

	// KeyringPassphrase, when set, derives the token encryption key instead of
	// using a generated key file.
	KeyringPassphrase string `env:"UNSEEN_KEYRING_PASSPHRASE"`

	// Verbose enables debug logging on stderr.
	Verbose bool `env:"UNSEEN_VERBOSE" envDefault:"false"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom builds a Config from an explicit variable map.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CredentialsDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.CredentialsDir = filepath.Join(base, AppDirName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the API URL and timeout.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("UNSEEN_API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("UNSEEN_HTTP_TIMEOUT must be positive")
	}
	return nil
}
