package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kmeans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":8080"
environment: production
demo_points: 50
max_points: 500
shutdown_timeout: 3s
allowed_origins: ["http://localhost:3000"]
`), 0o600))

	t.Setenv("KMEANS_MAX_POINTS", "600")
	t.Setenv("KMEANS_ALLOWED_ORIGINS", "http://a.example, http://b.example")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, Production, cfg.Environment)
	assert.Equal(t, 50, cfg.DemoPoints)
	assert.Equal(t, 600, cfg.MaxPoints)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	// untouched values keep their defaults
	assert.Equal(t, 100, cfg.MaxIterations)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("no_such_field: 1\n"), 0o600))
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("demo_points: 0\n"), 0o600))

	test := []struct {
		name string
		path string
		env  map[string]string
	}{
		{"missing_file", filepath.Join(dir, "missing.yaml"), nil},
		{"unknown_field", unknown, nil},
		{"validation", invalid, nil},
		{"bad_number", "", map[string]string{"KMEANS_MAX_POINTS": "many"}},
		{"bad_environment", "", map[string]string{"KMEANS_ENV": "staging"}},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigPath, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)

	cfg.LogLevel = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
