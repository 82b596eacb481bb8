package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeHomeConfig writes content to $HOME/.yoinker/config.yaml under a
// temporary HOME.
func writeHomeConfig(t *testing.T, content string) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	yoinkerDir := filepath.Join(tmpDir, ".yoinker")
	require.NoError(t, os.MkdirAll(yoinkerDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(yoinkerDir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadConfigFile_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	assert.Nil(t, cfg, "Should return nil when config file doesn't exist")
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	writeHomeConfig(t, `site:
  base_url: "https://mirror.example.com"
  search_path: "/bible/"
passage:
  content_class_prefix: "scripture"
fetch:
  timeout: "3s"
  user_agent: "custom/2.0"
storage:
  history:
    dsn: "/var/lib/yoinker/history.db"
  dumps:
    dir: "/var/lib/yoinker/dumps"
server:
  addr: ":9090"
logging:
  level: "debug"
  format: "json"
llm:
  provider: "gemini"
  gemini_model: "gemini-1.5-pro"
votd:
  url: "https://votd.example.com/?v=%s"
`)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://mirror.example.com", cfg.Site.BaseURL)
	assert.Equal(t, "/bible/", cfg.Site.SearchPath)
	assert.Equal(t, "scripture", cfg.Passage.ContentClassPrefix)
	assert.Empty(t, cfg.Passage.VerseNumSelector)
	assert.Equal(t, "3s", cfg.Fetch.Timeout)
	assert.Equal(t, "custom/2.0", cfg.Fetch.UserAgent)
	assert.Equal(t, "/var/lib/yoinker/history.db", cfg.Storage.History.DSN)
	assert.Equal(t, "/var/lib/yoinker/dumps", cfg.Storage.Dumps.Dir)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.GeminiModel)
	assert.Equal(t, "https://votd.example.com/?v=%s", cfg.VOTD.URL)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	writeHomeConfig(t, `site:
  - this is invalid yaml because site should be an object not a list
`)

	cfg, err := LoadConfigFile()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigFileFrom_PartialConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  addr: \":8181\"\n"), 0o600))

	cfg, err := LoadConfigFileFrom(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, ":8181", cfg.Server.Addr)
	assert.Equal(t, "", cfg.Site.BaseURL, "Unspecified base URL should be empty string")
	assert.Equal(t, "", cfg.Fetch.Timeout, "Unspecified timeout should be empty string")
}
