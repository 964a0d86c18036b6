package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "RADAR_DB_PATH", "RADAR_HTTP_ADDR", "RADAR_CORS_ORIGINS", "RADAR_WORKERS", "RADAR_LOG_LEVEL")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":5000", s.HTTPAddr)
	assert.Equal(t, []string{"*"}, s.CorsOrigins)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, 0, s.Workers)
	assert.Equal(t, "radar.db", s.DBPath)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RADAR_DB_PATH", "/tmp/topics.db")
	t.Setenv("RADAR_HTTP_ADDR", ":8080")
	t.Setenv("RADAR_WORKERS", "4")
	t.Setenv("RADAR_CORS_ORIGINS", "http://a.local,http://b.local")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/topics.db", s.DBPath)
	assert.Equal(t, ":8080", s.HTTPAddr)
	assert.Equal(t, 4, s.Workers)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, s.CorsOrigins)
}

func TestLoadRejectsBadWorkers(t *testing.T) {
	t.Setenv("RADAR_WORKERS", "many")

	_, err := Load()
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	s := &Settings{LogLevel: "debug"}
	log, err := s.Logger()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	s.LogLevel = "loud"
	_, err = s.Logger()
	assert.Error(t, err)
}
