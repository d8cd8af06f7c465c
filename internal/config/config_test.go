package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJSONAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"port":8080,"jwt_secret":"s","database":{"driver":"sqlite","dsn":"file:test.db"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 72, cfg.JWTTTLHours)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, 50, cfg.History.MaxKeep)
	require.Equal(t, "*/30 * * * *", cfg.History.PruneSpec)
	require.Equal(t, 1000, cfg.CreateRateLimitMS)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", "port: 9090\njwt_secret: s\ndatabase:\n  driver: postgres\n  host: db\nhistory:\n  max_keep: 7\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, 7, cfg.History.MaxKeep)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.json", `{"port":8080,"jwt_secret":"file","database":{"driver":"sqlite","dsn":"file:test.db"}}`)
	t.Setenv("UXPAGES_PORT", "6060")
	t.Setenv("UXPAGES_JWT_SECRET", "env")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 6060, cfg.Port)
	require.Equal(t, "env", cfg.JWTSecret)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	path := writeConfig(t, "config.json", `{"port":8080,"database":{"driver":"sqlite","dsn":"x"}}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "config.json", `{"port":8080,"jwt_secret":"s","database":{"driver":"mysql"}}`)
	_, err := Load(path)
	require.Error(t, err)
}
