// Package devstub serves the analysis service's HTTP contract locally
// from the deterministic mock, so the client can be exercised end-to-end
// without the remote engine. It owns no analysis semantics of its own;
// everything delegates to the analysis.Service it wraps.
package devstub

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gustavoln/financeiro-client/internal/analysis"
	"github.com/gustavoln/financeiro-client/internal/domain/chat"
	"github.com/gustavoln/financeiro-client/internal/domain/ingest"
	"github.com/gustavoln/financeiro-client/internal/fault"
)

// Server exposes the wire contract over a delegated Service.
type Server struct {
	svc    analysis.Service
	router *gin.Engine
	logger *slog.Logger

	mu      sync.Mutex
	history []historyEntry
}

// historyEntry is one recorded turn of the chat conversation.
type historyEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Config holds stub server settings.
type Config struct {
	AllowedOrigins []string
}

// NewServer builds the stub with all routes registered under /api.
func NewServer(svc analysis.Service, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{svc: svc, router: router, logger: logger}

	api := router.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/analyze", s.analyze)
		api.POST("/chat", s.chat)
		api.GET("/chat/history", s.chatHistory)
		api.POST("/chat/clear", s.chatClear)
		api.GET("/chat/insights", s.insights)
		api.GET("/chat/optimize", s.optimize)
	}
	router.NoRoute(func(c *gin.Context) {
		writeErrorEnvelope(c, http.StatusNotFound, "endpoint not found", "use /api/analyze for analysis")
	})

	return s
}

// Router exposes the gin engine for tests and embedding.
func (s *Server) Router() http.Handler { return s.router }

// Run starts the stub on the given address.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting dev stub server", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "financial-analyzer-stub"})
}

func (s *Server) analyze(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		writeErrorEnvelope(c, http.StatusBadRequest, "unreadable request body", "")
		return
	}

	contentType := c.ContentType()
	if strings.Contains(contentType, "json") {
		batch, err := ingest.FromJSON(body)
		if err != nil {
			s.writeFault(c, err)
			return
		}
		result, err := s.svc.Analyze(c.Request.Context(), batch)
		if err != nil {
			s.writeFault(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	content, err := ingest.FromCSV(body)
	if err != nil {
		s.writeFault(c, err)
		return
	}
	result, err := s.svc.AnalyzeCSV(c.Request.Context(), content)
	if err != nil {
		s.writeFault(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type chatRequest struct {
	Message string        `json:"message"`
	Context *chat.Context `json:"context"`
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body",
			"message": "send a JSON body with a message field",
		})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "empty message",
			"message": "the message must not be empty",
		})
		return
	}

	reply, err := s.svc.SendChatMessage(c.Request.Context(), req.Message, req.Context)
	if err != nil {
		s.logger.Warn("chat failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
			"message": "failed to process the chat message",
		})
		return
	}
	s.recordTurn(req.Message, reply.Message)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     reply.Message,
		"suggestions": reply.Suggestions,
	})
}

// recordTurn appends the user message and the assistant reply to the
// in-memory conversation history.
func (s *Server) recordTurn(userMessage, assistantReply string) {
	now := time.Now().UTC().Format(time.RFC3339)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		historyEntry{Role: "user", Content: userMessage, Timestamp: now},
		historyEntry{Role: "assistant", Content: assistantReply, Timestamp: now},
	)
}

func (s *Server) chatHistory(c *gin.Context) {
	s.mu.Lock()
	entries := make([]historyEntry, len(s.history))
	copy(entries, s.history)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"success": true, "history": entries})
}

func (s *Server) chatClear(c *gin.Context) {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Histórico limpo com sucesso.",
	})
}

func (s *Server) insights(c *gin.Context) {
	raw, err := s.svc.QuickInsights(c.Request.Context())
	if err != nil {
		s.writeFault(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (s *Server) optimize(c *gin.Context) {
	raw, err := s.svc.BudgetOptimization(c.Request.Context())
	if err != nil {
		s.writeFault(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// writeFault translates taxonomy errors into the service's error envelope.
func (s *Server) writeFault(c *gin.Context, err error) {
	var appErr *fault.ApplicationError
	if errors.As(err, &appErr) {
		status := appErr.Code
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		writeErrorEnvelope(c, status, appErr.Message, appErr.Hint)
		return
	}

	var validationErr *fault.ValidationError
	var decodeErr *fault.DecodeError
	if errors.As(err, &validationErr) || errors.As(err, &decodeErr) {
		writeErrorEnvelope(c, http.StatusBadRequest, err.Error(), "check the input format; use a JSON array or valid CSV")
		return
	}

	s.logger.Error("stub request failed", "error", err)
	writeErrorEnvelope(c, http.StatusInternalServerError, err.Error(), "try again shortly")
}

func writeErrorEnvelope(c *gin.Context, status int, message, hint string) {
	payload := gin.H{"code": status, "message": message}
	if hint != "" {
		payload["hint"] = hint
	}
	c.JSON(status, gin.H{"error": payload})
}
