package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pevans/yoinker/gateway"
	"github.com/pevans/yoinker/llm"
	"github.com/pevans/yoinker/scraper"
	"github.com/pevans/yoinker/votd"
)

const (
	DefaultHistoryDSN = "history.db"
	DefaultDumpDir    = "dumps"
	DefaultAddr       = "localhost:8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Config is the effective configuration of the CLI and the API server.
type Config struct {
	Site         scraper.SiteConfig
	Passage      scraper.PassageConfig
	FetchTimeout time.Duration
	UserAgent    string
	HistoryDSN   string
	DumpDir      string
	Addr         string
	LogLevel     string
	LogFormat    string
	VOTDURL      string
	LLM          llm.Config
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Site:         scraper.DefaultSiteConfig(),
		Passage:      scraper.DefaultPassageConfig(),
		FetchTimeout: gateway.DefaultTimeout,
		UserAgent:    gateway.DefaultUserAgent,
		HistoryDSN:   DefaultHistoryDSN,
		DumpDir:      DefaultDumpDir,
		Addr:         DefaultAddr,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		VOTDURL:      votd.DefaultFeedURL,
		LLM: llm.Config{
			Provider:    llm.ProviderOpenAI,
			URL:         llm.DefaultOpenAIURL,
			Model:       llm.DefaultOpenAIModel,
			GeminiModel: llm.DefaultGeminiModel,
			Timeout:     llm.DefaultTimeout,
		},
	}
}

// Load builds the configuration from defaults, then ~/.yoinker/config.yaml,
// then the environment (including a .env file in the working directory).
func Load() (*Config, error) {
	_ = godotenv.Load()

	file, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	return FromSources(file)
}

// FromSources applies an optional file configuration and the environment
// over the defaults.
func FromSources(file *FileConfig) (*Config, error) {
	cfg := Default()

	if file != nil {
		if err := cfg.applyFile(file); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFile(file *FileConfig) error {
	setString(&c.Site.BaseURL, file.Site.BaseURL)
	setString(&c.Site.SearchPath, file.Site.SearchPath)
	c.Passage = file.Passage.Merge(c.Passage)

	if file.Fetch.Timeout != "" {
		timeout, err := time.ParseDuration(file.Fetch.Timeout)
		if err != nil {
			return fmt.Errorf("failed to parse fetch timeout: %w", err)
		}
		c.FetchTimeout = timeout
	}
	setString(&c.UserAgent, file.Fetch.UserAgent)

	setString(&c.HistoryDSN, file.Storage.History.DSN)
	setString(&c.DumpDir, file.Storage.Dumps.Dir)
	setString(&c.Addr, file.Server.Addr)
	setString(&c.LogLevel, file.Logging.Level)
	setString(&c.LogFormat, file.Logging.Format)
	setString(&c.VOTDURL, file.VOTD.URL)

	setString(&c.LLM.Provider, file.LLM.Provider)
	setString(&c.LLM.URL, file.LLM.URL)
	setString(&c.LLM.Model, file.LLM.Model)
	setString(&c.LLM.GeminiModel, file.LLM.GeminiModel)

	return nil
}

func (c *Config) applyEnv() error {
	var err error

	c.Site.BaseURL = getEnv("YOINKER_BASE_URL", c.Site.BaseURL)
	if c.FetchTimeout, err = getEnvDuration("YOINKER_FETCH_TIMEOUT", c.FetchTimeout); err != nil {
		return err
	}
	c.UserAgent = getEnv("YOINKER_USER_AGENT", c.UserAgent)
	c.HistoryDSN = getEnv("YOINKER_HISTORY_DSN", c.HistoryDSN)
	c.DumpDir = getEnv("YOINKER_DUMP_DIR", c.DumpDir)
	c.Addr = getEnv("YOINKER_ADDR", c.Addr)
	c.LogLevel = getEnv("YOINKER_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("YOINKER_LOG_FORMAT", c.LogFormat)
	c.VOTDURL = getEnv("YOINKER_VOTD_URL", c.VOTDURL)

	c.LLM.Provider = getEnv("YOINKER_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.URL = getEnv("OPENAI_URL", c.LLM.URL)
	c.LLM.Token = getEnv("OPENAI_API_KEY", c.LLM.Token)
	c.LLM.Model = getEnv("OPENAI_MODEL", c.LLM.Model)
	c.LLM.GeminiKey = getEnv("GEMINI_API_KEY", c.LLM.GeminiKey)
	c.LLM.GeminiModel = getEnv("GEMINI_MODEL", c.LLM.GeminiModel)
	if c.LLM.Temperature, err = getEnvFloat("YOINKER_LLM_TEMPERATURE", c.LLM.Temperature); err != nil {
		return err
	}

	return nil
}

// Validate checks the settings every lookup needs.
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("YOINKER_BASE_URL is required")
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.Site.BaseURL)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	return nil
}

// ValidateLLM checks the settings the GPT method needs.
func (c *Config) ValidateLLM() error {
	return c.LLM.Validate()
}

// FetcherConfig returns the gateway fetcher settings.
func (c *Config) FetcherConfig() gateway.FetcherConfig {
	return gateway.FetcherConfig{
		Site:      c.Site,
		Timeout:   c.FetchTimeout,
		UserAgent: c.UserAgent,
	}
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses a duration from environment variable or returns
// default. A set but malformed value is an error.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return duration, nil
}

// getEnvFloat parses a float from environment variable or returns default.
// A set but malformed value is an error.
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}
