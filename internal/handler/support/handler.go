package support

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	supportService "github.com/mindcare/backend/internal/service/support"
	"github.com/mindcare/backend/pkg/utils"
)

// Handler 聊天支持的HTTP处理器
type Handler struct {
	svc      *supportService.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New 创建聊天支持处理器
func New(svc *supportService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:    svc,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册聊天支持相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/support/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/messages", h.handleTranscript)
			r.Post("/messages", h.handleSend)
			r.Delete("/messages", h.handleClear)
			r.Post("/crisis", h.handleQuickHelp)
			r.Get("/ws", h.handleWebSocket)
		})
	})
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.CreateSession(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	transcript, err := h.svc.Transcript(r.Context(), session.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"session":  session,
		"messages": transcript,
	})
}

// handleTranscript 返回会话消息
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.svc.Transcript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcript)
}

// handleSend 发送用户消息并返回回复
func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content string `json:"content"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exchange, err := h.svc.Send(r.Context(), chi.URLParam(r, "sessionID"), payload.Content)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, exchange)
}

// handleQuickHelp 追加危机求助信息
func (h *Handler) handleQuickHelp(w http.ResponseWriter, r *http.Request) {
	msg, err := h.svc.QuickHelp(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, msg)
}

// handleClear 清空会话
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.svc.Clear(r.Context(), sessionID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	transcript, err := h.svc.Transcript(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcript)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, supportService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, supportService.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("support request failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
