package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pevans/yoinker/scraper"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of ~/.yoinker/config.yaml. Secrets
// (API keys) are only read from the environment.
type FileConfig struct {
	Site    scraper.SiteConfig    `yaml:"site"`
	Passage scraper.PassageConfig `yaml:"passage"`
	Fetch   struct {
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"fetch"`
	Storage struct {
		History struct {
			DSN string `yaml:"dsn"`
		} `yaml:"history"`
		Dumps struct {
			Dir string `yaml:"dir"`
		} `yaml:"dumps"`
	} `yaml:"storage"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	LLM struct {
		Provider    string `yaml:"provider"`
		URL         string `yaml:"url"`
		Model       string `yaml:"model"`
		GeminiModel string `yaml:"gemini_model"`
	} `yaml:"llm"`
	VOTD struct {
		URL string `yaml:"url"`
	} `yaml:"votd"`
}

// DefaultConfigPath returns ~/.yoinker/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".yoinker", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.yoinker/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFileFrom(configPath)
}

// LoadConfigFileFrom loads configuration from configPath with the same
// semantics as LoadConfigFile.
func LoadConfigFileFrom(configPath string) (*FileConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
