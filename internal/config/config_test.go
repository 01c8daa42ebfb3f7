package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileThenEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  env: production
database:
  driver: sqlite
  url: "file::memory:?cache=shared"
auth:
  jwt_secret: "file-secret-0123456789"
survey:
  token: file-token
  survey_id: "123"
  poll_interval: 30m
webhook:
  url: "https://hooks.example.com/flow"
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "9090")
	t.Setenv("SURVEY_ID", "456")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port, "env wins over file")
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "456", cfg.Survey.SurveyID)
	assert.Equal(t, "file-token", cfg.Survey.Token)
	assert.Equal(t, 30*time.Minute, cfg.Survey.PollInterval)
	assert.Equal(t, "https://hooks.example.com/flow", cfg.Webhook.URL)
	assert.Equal(t, "America/New_York", cfg.Region.TimeZone, "default kept")
	assert.True(t, cfg.Survey.Enabled())
	assert.Same(t, cfg, AppConfig)
}

func TestLoadConfig_ExplicitMissingFileFails(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Auth.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Auth.JWTSecret = "a-long-enough-secret-value"
	assert.NoError(t, cfg.Validate())

	cfg.Region.TimeZone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Auth.JWTSecret = "a-long-enough-secret-value"
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Auth.JWTSecret = "a-long-enough-secret-value"
	cfg.Email.Enabled = true
	assert.Error(t, cfg.Validate(), "smtp host and sender required when mail is enabled")
}
