package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadFrom_Defaults は既定値を検証します。
func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.KeyringPassphrase)
	assert.False(t, cfg.Verbose)

	if base, err := os.UserConfigDir(); err == nil {
		assert.Equal(t, filepath.Join(base, AppDirName), cfg.CredentialsDir)
	}
}

// TestLoadFrom_Overrides は環境変数による上書きを検証します。
func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"UNSEEN_API_URL":            "https://api.unseen.app",
		"UNSEEN_HTTP_TIMEOUT":       "3s",
		"UNSEEN_CREDENTIALS_DIR":    "/tmp/unseen-creds",
		"UNSEEN_KEYRING_PASSPHRASE": "hunter2",
		"UNSEEN_VERBOSE":            "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://api.unseen.app", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "/tmp/unseen-creds", cfg.CredentialsDir)
	assert.Equal(t, "hunter2", cfg.KeyringPassphrase)
	assert.True(t, cfg.Verbose)
}

// TestLoadFrom_Invalid は不正な値がエラーになることを検証します。
func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"relative url": {"UNSEEN_API_URL": "localhost:3000", "UNSEEN_CREDENTIALS_DIR": "/x"},
		"ftp url":      {"UNSEEN_API_URL": "ftp://example.com", "UNSEEN_CREDENTIALS_DIR": "/x"},
		"zero timeout": {"UNSEEN_HTTP_TIMEOUT": "0s", "UNSEEN_CREDENTIALS_DIR": "/x"},
		"bad duration": {"UNSEEN_HTTP_TIMEOUT": "soon", "UNSEEN_CREDENTIALS_DIR": "/x"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(vars)
			assert.Error(t, err)
		})
	}
}
