package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJSON = `{
	"base_url": "http://json-config.com",
	"storage_path": "json_session.json",
	"database_dsn": "json-dsn",
	"log_level": "warn",
	"db_connection_timeout": "3s",
	"token_lifetime": "1h"
}`

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	file, err := os.CreateTemp(t.TempDir(), "config*.json")
	require.NoError(t, err)
	_, err = file.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	return file.Name()
}

func TestDefaults(t *testing.T) {
	values := Config{}

	applyDefaults(&values, defaultConfig)

	require.NoError(t, values.validate())
	assert.Equal(t, []string{"/login", "/register"}, values.PublicPaths())

	key, err := values.SigningKey()
	require.NoError(t, err)
	assert.NotEmpty(t, key)
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	values := Config{}
	applyDefaults(&values, defaultConfig)

	values.LogLevel = "chatty"

	assert.Error(t, values.validate())
}

func TestValidateRejectsRelativeLoginPath(t *testing.T) {
	values := Config{}
	applyDefaults(&values, defaultConfig)

	values.LoginPath = "login"

	assert.Error(t, values.validate())
}

func TestConfigPriorityJSONOnly(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "http://json-config.com", cfg.BaseURL)
	assert.Equal(t, "json_session.json", cfg.StorageFile)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.DBConnectionTimeout)
	assert.Equal(t, time.Hour, cfg.TokenLifetime)
}

func TestConfigPriorityJSONPlusEnv(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)
	t.Setenv("SUITE_BASE_URL", "http://env.com/")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "http://env.com", cfg.BaseURL) // env overrides json, trailing slash trimmed
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN) // from JSON
}

func TestConfigPriorityAllSources(t *testing.T) {
	jsonPath := writeTempJSON(t, testJSON)
	t.Setenv("CONFIG", jsonPath)
	t.Setenv("SUITE_BASE_URL", "http://env.com")

	cfg, err := New(WithArgs([]string{
		"-b", "http://cli.com",
		"-f", "",
		"login", "a@b.co", "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://cli.com", cfg.BaseURL) // CLI > ENV > JSON
	assert.Equal(t, "", cfg.StorageFile)           // explicitly cleared by the flag
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN)   // from JSON
	assert.Equal(t, []string{"login", "a@b.co", "secret"}, cfg.Args)
}

func TestConfigFileFlag(t *testing.T) {
	jsonPath := writeTempJSON(t, `{"storage_namespace": "from-flag-file"}`)

	cfg, err := New(WithArgs([]string{"-c", jsonPath, "whoami"}))
	require.NoError(t, err)

	assert.Equal(t, "from-flag-file", cfg.StorageNamespace)
	assert.Equal(t, []string{"whoami"}, cfg.Args)
}

func TestConfigEnvOnly(t *testing.T) {
	t.Setenv("SUITE_BASE_URL", "http://envonly.com")
	t.Setenv("SERVER_ADDRESS", "localhost:7000")
	t.Setenv("TOKEN_LIFETIME", "15m")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "http://envonly.com", cfg.BaseURL)
	assert.Equal(t, "localhost:7000", cfg.RunAddr)
	assert.Equal(t, 15*time.Minute, cfg.TokenLifetime)
}

func TestConfigBrokenFile(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	_, err := New(WithDisableFlagsParsing(true))
	assert.Error(t, err)
}
