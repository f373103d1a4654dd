package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskstream.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Timeout.Std())
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval.Std())
	assert.Equal(t, 3, cfg.Sync.RetryAttempts)
	assert.False(t, cfg.Slack.Enabled)
	assert.False(t, cfg.Jira.Enabled)
	assert.False(t, cfg.Email.Enabled)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, 0.6, cfg.LLM.ConfidenceThreshold)
	assert.Equal(t, 30, cfg.Analytics.DefaultWindowDays)
	assert.Equal(t, 8, cfg.Analytics.WorkdayHours)
}

func TestLoad_LLMAndAnalyticsSections(t *testing.T) {
	path := writeConfig(t, `
version: "1.0.0"
llm:
  enabled: true
  model: mistral
  endpoint: http://ollama:11434
  confidenceThreshold: 0.8
analytics:
  defaultWindowDays: 14
  rollingWindowDays: 5
  workdayHours: 6
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, "http://ollama:11434", cfg.LLM.Endpoint)
	assert.Equal(t, 0.8, cfg.LLM.ConfidenceThreshold)
	assert.Equal(t, 14, cfg.Analytics.DefaultWindowDays)
	assert.Equal(t, 5, cfg.Analytics.RollingWindowDays)
	assert.Equal(t, 6, cfg.Analytics.WorkdayHours)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
version: "1.0.0"
timeout: 45s
server:
  addr: ":9090"
sync:
  interval: 10m
slack:
  enabled: true
  token: xoxb-test
  defaultChannel: "#ops"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 45*time.Second, cfg.Timeout.Std())
	assert.Equal(t, 10*time.Minute, cfg.Sync.Interval.Std())
	assert.True(t, cfg.Slack.Enabled)
	assert.Equal(t, "xoxb-test", cfg.Slack.Token)
	assert.Equal(t, "#ops", cfg.Slack.DefaultChannel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
version: "1.0.0"
server:
  addr: ":9090"
`)
	t.Setenv("TASKSTREAM_ADDR", ":7070")
	t.Setenv("TASKSTREAM_SLACK_TOKEN", "xoxb-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.True(t, cfg.Slack.Enabled, "setting the token via env should enable slack")
	assert.Equal(t, "xoxb-env", cfg.Slack.Token)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "config read", cfgErr.Context)
}

func TestValidate_VersionMismatch(t *testing.T) {
	path := writeConfig(t, `version: "2.0.0"`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestValidate_TimeoutBounds(t *testing.T) {
	cases := []struct {
		name    string
		timeout string
		ok      bool
	}{
		{"too small", "500ms", false},
		{"lower bound", "1s", true},
		{"upper bound", "5m", true},
		{"too large", "10m", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "version: \"1.0.0\"\ntimeout: "+tc.timeout+"\n")
			_, err := Load(path)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EnabledIntegrationsNeedCredentials(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"slack without token", "slack:\n  enabled: true\n"},
		{"jira without url", "jira:\n  enabled: true\n"},
		{"jira without auth", "jira:\n  enabled: true\n  url: https://jira.example.com\n"},
		{"email without host", "email:\n  enabled: true\n"},
		{"email auth incomplete", "email:\n  enabled: true\n  host: smtp.example.com\n  requireAuth: true\n"},
		{"email tls odd port", "email:\n  enabled: true\n  host: smtp.example.com\n  port: 2525\n  useTLS: true\n  requireAuth: false\n"},
		{"llm without endpoint", "llm:\n  enabled: true\n  endpoint: \"\"\n"},
		{"llm confidence out of range", "llm:\n  confidenceThreshold: 1.5\n"},
		{"analytics zero window", "analytics:\n  defaultWindowDays: 0\n"},
		{"analytics impossible workday", "analytics:\n  workdayHours: 30\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "version: \"1.0.0\"\n"+tc.yaml)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestError_SerializesToJSON(t *testing.T) {
	err := &Error{Context: "slack token", Message: "missing"}
	assert.JSONEq(t, `{"context":"slack token","message":"missing"}`, err.Error())
}
