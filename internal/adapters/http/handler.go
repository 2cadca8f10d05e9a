package httpadapter

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PabloGalante/tasktalk/internal/app/chat"
	"github.com/PabloGalante/tasktalk/internal/domain"
	"github.com/PabloGalante/tasktalk/internal/observability"
)

// ChatService is the part of chat.Service the HTTP layer uses.
type ChatService interface {
	StartConversation(ctx context.Context, userID domain.UserID, initialMessage string) (domain.ConversationID, error)
	HandleMessage(ctx context.Context, conversationID domain.ConversationID, userMessage string, userID domain.UserID) (string, error)
	ConversationHistory(ctx context.Context, conversationID domain.ConversationID, limit, offset int) (iter.Seq[chat.HistoryEntry], error)
	MessageAnalysis(ctx context.Context, text string) (chat.Analysis, error)
}

type Server struct {
	svc     ChatService
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewServer builds the gin engine with middlewares and routes. metrics may
// be nil, in which case /metrics is not served.
func NewServer(svc ChatService, logger *zap.Logger, metrics *observability.Metrics) *gin.Engine {
	s := &Server{svc: svc, logger: logger, metrics: metrics}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		withRequestID(logger),
		withLogging(),
		withMetrics(metrics),
		withCORS(),
	)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	engine.POST("/conversations", s.handleCreateConversation)
	engine.GET("/conversations/:id/messages", s.handleListMessages)
	engine.POST("/conversations/:id/messages", s.handleSendMessage)
	engine.POST("/analysis", s.handleAnalysis)

	return engine
}

type createConversationRequest struct {
	UserID         string `json:"user_id" binding:"required"`
	InitialMessage string `json:"initial_message"`
}

type createConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

type sendMessageRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

type listMessagesResponse struct {
	ConversationID string              `json:"conversation_id"`
	Messages       []chat.HistoryEntry `json:"messages"`
}

type analysisRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) handleCreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id is required")
		return
	}

	id, err := s.svc.StartConversation(c.Request.Context(), domain.UserID(req.UserID), req.InitialMessage)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createConversationResponse{ConversationID: string(id)})
}

func (s *Server) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id is required")
		return
	}

	id := domain.ConversationID(c.Param("id"))
	reply, err := s.svc.HandleMessage(c.Request.Context(), id, req.Text, domain.UserID(req.UserID))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sendMessageResponse{ConversationID: string(id), Reply: reply})
}

func (s *Server) handleListMessages(c *gin.Context) {
	limit, err := queryInt(c, "limit", chat.DefaultHistoryLimit)
	if err != nil {
		badRequest(c, "limit must be an integer")
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		badRequest(c, "offset must be a non-negative integer")
		return
	}

	id := domain.ConversationID(c.Param("id"))
	seq, err := s.svc.ConversationHistory(c.Request.Context(), id, limit, offset)
	if err != nil {
		s.writeError(c, err)
		return
	}

	msgs := []chat.HistoryEntry{}
	for e := range seq {
		msgs = append(msgs, e)
	}
	c.JSON(http.StatusOK, listMessagesResponse{ConversationID: string(id), Messages: msgs})
}

func (s *Server) handleAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	a, err := s.svc.MessageAnalysis(c.Request.Context(), req.Text)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(c.Request.Context()).Error("request failed", zap.Error(err))
		msg = "internal server error"
	}
	c.JSON(status, errorResponse{Error: msg, Kind: domain.KindName(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Kind: "validation"})
}
