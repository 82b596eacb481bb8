package config

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pevans/yoinker/llm"
	"github.com/pevans/yoinker/scraper"
)

// PublicConfig is the configuration as served over HTTP. Keys are replaced
// by whether they are set.
type PublicConfig struct {
	Site          scraper.SiteConfig    `json:"site"`
	Passage       scraper.PassageConfig `json:"passage"`
	FetchTimeout  string                `json:"fetch_timeout"`
	UserAgent     string                `json:"user_agent"`
	LLMProvider   string                `json:"llm_provider"`
	LLMModel      string                `json:"llm_model"`
	LLMConfigured bool                  `json:"llm_configured"`
	VOTDURL       string                `json:"votd_url"`
}

// Public returns the non-secret view of c.
func (c *Config) Public() PublicConfig {
	model := c.LLM.Model
	if strings.EqualFold(c.LLM.Provider, llm.ProviderGemini) {
		model = c.LLM.GeminiModel
	}

	return PublicConfig{
		Site:          c.Site,
		Passage:       c.Passage,
		FetchTimeout:  c.FetchTimeout.String(),
		UserAgent:     c.UserAgent,
		LLMProvider:   c.LLM.Provider,
		LLMModel:      model,
		LLMConfigured: c.ValidateLLM() == nil,
		VOTDURL:       c.VOTDURL,
	}
}

// HandleGetConfig handles GET /config.
func (c *Config) HandleGetConfig(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.Public())
}
