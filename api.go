package yoinker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pevans/yoinker/config"
	"github.com/pevans/yoinker/gateway"
	"github.com/pevans/yoinker/history"
	"github.com/pevans/yoinker/logging"
	"github.com/pevans/yoinker/passage"
	"github.com/pevans/yoinker/votd"
)

// RequestIDHeader carries the request ID assigned to every API request.
const RequestIDHeader = "X-Request-ID"

// HistoryLister lists recent lookups.
type HistoryLister interface {
	List(limit int) ([]history.Record, error)
}

// VerseSource fetches the verse of the day.
type VerseSource interface {
	Fetch(ctx context.Context, version string) (*votd.Verse, error)
}

// APIServer represents the HTTP API server.
type APIServer struct {
	service *Service
	history HistoryLister
	verses  VerseSource
	config  *config.Config
}

// NewAPIServer creates a new API server. history, verses and cfg may be nil,
// in which case their routes answer 503.
func NewAPIServer(service *Service, history HistoryLister, verses VerseSource, cfg *config.Config) *APIServer {
	return &APIServer{
		service: service,
		history: history,
		verses:  verses,
		config:  cfg,
	}
}

// SetupRouter configures the Gin router with all API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.POST("/yoinkBG", s.handleYoink(MethodBG))
	router.POST("/yoinkGPT", s.handleYoink(MethodGPT))
	router.GET("/history", s.HandleHistory)
	router.GET("/votd", s.HandleVOTD)
	router.GET("/config", s.HandleConfig)

	return router
}

// requestLogger assigns a request ID and logs each request through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		logging.FromContext(c.Request.Context()).Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// errorResponse creates a standardized error response.
func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}

// Chapter accepts a chapter given as a JSON string or number.
type Chapter string

// UnmarshalJSON stores a JSON number or string as the chapter text.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Chapter(n.String())
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("chapter must be a string or number")
	}
	*c = Chapter(s)
	return nil
}

// YoinkRequest is the body of POST /yoinkBG and POST /yoinkGPT.
type YoinkRequest struct {
	Version string           `json:"version"`
	Book    string           `json:"book"`
	Chapter Chapter          `json:"chapter"`
	Verses  passage.Selector `json:"verses"`
}

func (r YoinkRequest) empty() bool {
	return r.Version == "" && r.Book == "" && r.Chapter == "" && len(r.Verses) == 0
}

// YoinkResponse is the success body of the yoink routes.
type YoinkResponse struct {
	Message   string `json:"message"`
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// handleYoink handles POST /yoinkBG and POST /yoinkGPT.
func (s *APIServer) handleYoink(method Method) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req YoinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			if errors.Is(err, io.EOF) {
				c.JSON(http.StatusBadRequest, errorResponse("No data provided"))
				return
			}
			c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
			return
		}
		if req.empty() {
			c.JSON(http.StatusBadRequest, errorResponse("No data provided"))
			return
		}

		ref, err := passage.NewReference(req.Version, req.Book, string(req.Chapter))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}

		text, err := s.service.Yoink(c.Request.Context(), method, ref, req.Verses)
		if err != nil {
			logging.FromContext(c.Request.Context()).Error("yoink failed",
				"method", method, "reference", ref.String(), "error", err)
			c.JSON(statusForError(err), errorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, YoinkResponse{
			Message:   fmt.Sprintf("Data received at yoink%s!", method),
			Reference: ref.String(),
			Text:      text,
		})
	}
}

// statusForError maps lookup failures to HTTP status codes.
func statusForError(err error) int {
	var notFound *passage.ContentNotFoundError
	switch {
	case errors.As(err, &notFound):
		return http.StatusBadGateway
	case errors.Is(err, gateway.ErrFetchTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, gateway.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrLLMNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnknownMethod):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrLLMFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HistoryResponse represents the response for GET /history.
type HistoryResponse struct {
	Lookups []history.Record `json:"lookups"`
	Total   int              `json:"total"`
}

// HandleHistory handles GET /history.
func (s *APIServer) HandleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("History is not enabled"))
		return
	}

	limit := history.DefaultLimit
	if limitParam := c.Query("limit"); limitParam != "" {
		n, err := strconv.Atoi(limitParam)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, errorResponse("limit must be a positive integer"))
			return
		}
		limit = n
	}

	records, err := s.history.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list history"))
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{Lookups: records, Total: len(records)})
}

// HandleVOTD handles GET /votd.
func (s *APIServer) HandleVOTD(c *gin.Context) {
	if s.verses == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Verse of the day is not enabled"))
		return
	}

	verse, err := s.verses.Fetch(c.Request.Context(), c.Query("version"))
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("verse of the day failed", "error", err)
		c.JSON(http.StatusBadGateway, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, verse)
}

// HandleConfig handles GET /config.
func (s *APIServer) HandleConfig(c *gin.Context) {
	if s.config == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Configuration is not available"))
		return
	}
	s.config.HandleGetConfig(c)
}
