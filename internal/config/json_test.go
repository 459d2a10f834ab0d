package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_AllFields(t *testing.T) {
	path := writeTempJSON(t, `{
		"app": {"auth_token": "secret", "version": "1.0.0"},
		"server": {
			"address": "localhost:8080",
			"request_timeout": "30s",
			"delivery_buffer_depth": 512,
			"writer_queue_depth": 16
		},
		"storage": {"db": {"dsn": "postgres://localhost/chatthy"}},
		"backends": {
			"default": "gemini",
			"gemini": {"api_key": "gm", "model": "gemini-2.5-flash"},
			"openai": {"base_url": "https://api.openai.com", "api_key": "oa", "model": "gpt-4o-mini"}
		},
		"client": {"server_address": "localhost:8080", "db_path": "/tmp/c.db", "request_timeout": "10s"},
		"workers": {"evict_interval": "90s", "session_ttl": "45m"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.App.AuthToken)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 512, cfg.Server.DeliveryBufferDepth)
	assert.Equal(t, 16, cfg.Server.WriterQueueDepth)
	assert.Equal(t, "postgres://localhost/chatthy", cfg.Storage.DB.DSN)
	assert.Equal(t, "gemini", cfg.Backends.Default)
	assert.Equal(t, "gm", cfg.Backends.Gemini.APIKey)
	assert.Equal(t, "https://api.openai.com", cfg.Backends.OpenAI.BaseURL)
	assert.Equal(t, "/tmp/c.db", cfg.Client.DBPath)
	assert.Equal(t, 10*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, 90*time.Second, cfg.Workers.EvictInterval)
	assert.Equal(t, 45*time.Minute, cfg.Workers.SessionTTL)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	path := writeTempJSON(t, `{"server": {"request_timeout": 1000000000}}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Server.RequestTimeout)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON("/definitely/not/here.json")
	require.Error(t, err)
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	path := writeTempJSON(t, `{not json`)

	_, err := parseJSON(path)
	require.Error(t, err)
}

func TestDuration_UnmarshalJSON_InvalidString(t *testing.T) {
	var d Duration
	err := d.UnmarshalJSON([]byte(`"nope"`))
	require.Error(t, err)
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration(90 * time.Second)
	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))
}
