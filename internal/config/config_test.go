package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/heartmonitor/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":3001", cfg.HTTPAddress)
	require.Equal(t, BackendFile, cfg.StoreBackend)
	require.Equal(t, "data/data.json", cfg.DataFile)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	require.Equal(t, domain.DefaultThresholds(), cfg.Thresholds)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("HR_LOW_THRESHOLD", "50")
	t.Setenv("HR_HIGH_THRESHOLD", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.StoreBackend)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, domain.Thresholds{Low: 50, High: 140}, cfg.Thresholds)
}

func TestLoadThresholdsFromYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	clearEnv(t)
	path := filepath.Join(dir, "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("low: 55\nhigh: 130\n"), 0o644))
	t.Setenv("THRESHOLDS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, domain.Thresholds{Low: 55, High: 130}, cfg.Thresholds)

	t.Setenv("HR_HIGH_THRESHOLD", "125")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, domain.Thresholds{Low: 55, High: 125}, cfg.Thresholds)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	clearEnv(t)
	// godotenv never overrides variables that are already set, even to "".
	require.NoError(t, os.Unsetenv("HTTP_ADDRESS"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_ADDRESS=:4000\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":4000", cfg.HTTPAddress)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	chdir(t, t.TempDir())
	clearEnv(t)

	t.Setenv("HR_LOW_THRESHOLD", "150")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("HR_LOW_THRESHOLD", "")
	t.Setenv("STORE_BACKEND", "mongo")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("STORE_BACKEND", "")
	t.Setenv("THRESHOLDS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	require.Error(t, err)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDRESS", "STORE_BACKEND", "DATA_FILE", "KAFKA_BROKERS", "CORS_ALLOWED_ORIGINS",
		"HR_LOW_THRESHOLD", "HR_HIGH_THRESHOLD", "THRESHOLDS_FILE", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
