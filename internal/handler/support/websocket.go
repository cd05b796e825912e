package support

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
)

type inboundMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// handleWebSocket 处理聊天WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.svc.GetSession(r.Context(), sessionID); err != nil {
		h.respondServiceError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("websocket connected", zap.String("session", sessionID))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go pingLoop(ctx, conn)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.String("session", sessionID), zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		h.handleMessage(ctx, conn, sessionID, msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, sessionID string, msg inboundMessage) {
	switch msg.Type {
	case "message":
		exchange, err := h.svc.Send(ctx, sessionID, msg.Content)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.send(conn, sessionID, "reply", exchange)
	case "crisis":
		reply, err := h.svc.QuickHelp(ctx, sessionID)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.send(conn, sessionID, "reply", reply)
	case "clear":
		if err := h.svc.Clear(ctx, sessionID); err != nil {
			h.sendError(conn, err.Error())
			return
		}
		transcript, err := h.svc.Transcript(ctx, sessionID)
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		h.send(conn, sessionID, "reply", transcript)
	default:
		h.sendError(conn, "unsupported message type: "+msg.Type)
	}
}

func (h *Handler) send(conn *websocket.Conn, sessionID, kind string, data interface{}) {
	msg := outgoingMessage{
		Type:      kind,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Warn("websocket write failed", zap.String("session", sessionID), zap.Error(err))
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, "", "error", map[string]string{"message": message})
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
