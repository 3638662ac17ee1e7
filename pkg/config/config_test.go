package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	_, err := Load("/nonexistent/path/fakenode.yaml")
	require.Error(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":60020", cfg.Server.TCPAddr)
	assert.Equal(t, ":60030", cfg.Server.HTTPAddr)
	assert.Equal(t, "localhost", cfg.Node.Host)
	assert.Equal(t, 60020, cfg.Node.Port)
	assert.Equal(t, "memory", cfg.Coord.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	content := `
server:
  tcp_addr: "127.0.0.1:16020"
  http_addr: ""
node:
  host: "rs-7.test"
  port: 16020
  start_code: 42
fixtures:
  sqlite_path: "fixtures.db"
coord:
  kind: sqlite
  path: "members.db"
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:16020", cfg.Server.TCPAddr)
	assert.Empty(t, cfg.Server.HTTPAddr)
	assert.Equal(t, "rs-7.test", cfg.Node.Host)
	assert.Equal(t, 16020, cfg.Node.Port)
	assert.Equal(t, int64(42), cfg.Node.StartCode)
	assert.Equal(t, "fixtures.db", cfg.Fixtures.SQLitePath)
	assert.Equal(t, "sqlite", cfg.Coord.Kind)
	assert.Equal(t, "members.db", cfg.Coord.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("node:\n  port: -1\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60020, cfg.Node.Port)
	assert.Equal(t, ":60020", cfg.Server.TCPAddr)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyTCPAddrRestoresDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty-addr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  tcp_addr: \"\"\n  http_addr: \"\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":60020", cfg.Server.TCPAddr)
	// An empty http_addr disables the HTTP surface and is kept.
	assert.Equal(t, "", cfg.Server.HTTPAddr)
}
