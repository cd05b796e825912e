package stream

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mindcare/backend/internal/model/chat"
	supportService "github.com/mindcare/backend/internal/service/support"
	"github.com/mindcare/backend/pkg/utils"
)

// Handler 通过Server-Sent Events推送支持回复
type Handler struct {
	svc    *supportService.Service
	logger *zap.Logger
}

// New 创建流式处理器
func New(svc *supportService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// StreamResponse 单个SSE事件的数据体
type StreamResponse struct {
	SessionID string        `json:"sessionId,omitempty"`
	Content   string        `json:"content,omitempty"`
	Category  string        `json:"category,omitempty"`
	Crisis    bool          `json:"crisis,omitempty"`
	Message   *chat.Message `json:"message,omitempty"`
	Finished  bool          `json:"finished,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// RegisterRoutes 注册流式接口
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/support/sessions/{sessionID}/stream", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := strings.TrimSpace(r.URL.Query().Get("message"))
	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	if _, err := h.svc.GetSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, supportService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	utils.SetupSSEHeaders(w)

	if err := h.stream(w, r, flusher, sessionID, userMessage); err != nil {
		h.logger.Warn("stream aborted", zap.String("session", sessionID), zap.Error(err))
	}
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request, flusher http.Flusher, sessionID, userMessage string) error {
	if err := utils.SendSSEEvent(w, flusher, "start", StreamResponse{SessionID: sessionID}); err != nil {
		return err
	}

	exchange, err := h.svc.Send(r.Context(), sessionID, userMessage)
	if err != nil {
		_ = utils.SendSSEEvent(w, flusher, "error", StreamResponse{SessionID: sessionID, Error: err.Error()})
		return err
	}

	assistant := exchange.Assistant
	if err := utils.SendSSEEvent(w, flusher, "message", StreamResponse{
		SessionID: sessionID,
		Content:   assistant.Content,
		Category:  assistant.Category,
		Crisis:    exchange.Reply.Crisis,
		Message:   &assistant,
	}); err != nil {
		return err
	}

	h.logger.Debug("stream completed", zap.String("session", sessionID), zap.String("category", assistant.Category))
	return utils.SendSSEEvent(w, flusher, "end", StreamResponse{SessionID: sessionID, Finished: true})
}
