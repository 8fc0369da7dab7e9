package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/delaneyj/editorstate/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
host:
  batching: false
  debounce: 5ms
logging:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.False(t, cfg.Host.Batching)
	assert.True(t, cfg.Host.RenderTree, "missing keys keep their default")
	assert.Equal(t, 5*time.Millisecond, cfg.Host.Debounce)
	assert.Equal(t, 16*time.Millisecond, cfg.Host.TickInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "auto", cfg.Logging.Output)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative debounce", "host: {debounce: -1ms}", "host.debounce"},
		{"zero tick interval", "host: {tick_interval: 0s}", "host.tick_interval"},
		{"unknown format", "logging: {format: xml}", "logging.format"},
		{"unknown output", "logging: {output: syslog}", "logging.output"},
		{"malformed", "host: [", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editorstate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host:\n  render_tree: false\n  tick_interval: 50ms\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Host.RenderTree)
	assert.Equal(t, 50*time.Millisecond, cfg.Host.TickInterval)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
