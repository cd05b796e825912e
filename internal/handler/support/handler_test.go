package support

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	analysis "github.com/mindcare/backend/internal/analysis/support"
	"github.com/mindcare/backend/internal/model/chat"
	supportService "github.com/mindcare/backend/internal/service/support"
)

func setupRouter() (*chi.Mux, *supportService.Service) {
	svc := supportService.NewService(analysis.NewSelector(analysis.RoundRobin))
	handler := New(svc, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/support/sessions/", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var body struct {
		Session  chat.Session   `json:"session"`
		Messages []chat.Message `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if len(body.Messages) != 1 {
		t.Fatalf("expected greeting only, got %d messages", len(body.Messages))
	}
	return body.Session.ID
}

func TestSendMessageReturnsCrisisReply(t *testing.T) {
	r, _ := setupRouter()
	id := createSession(t, r)

	payload := []byte(`{"content":"I feel hopeless and want to end it all"}`)
	req := httptest.NewRequest(http.MethodPost, "/support/sessions/"+id+"/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var exchange supportService.Exchange
	if err := json.Unmarshal(resp.Body.Bytes(), &exchange); err != nil {
		t.Fatalf("decode exchange: %v", err)
	}
	if !exchange.Reply.Crisis || exchange.Reply.Category != analysis.Crisis {
		t.Fatalf("expected crisis reply, got %+v", exchange.Reply)
	}
}

func TestSendMessageValidation(t *testing.T) {
	r, _ := setupRouter()
	id := createSession(t, r)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"blank content", "/support/sessions/" + id + "/messages", `{"content":"   "}`, http.StatusBadRequest},
		{"unknown field", "/support/sessions/" + id + "/messages", `{"text":"hi"}`, http.StatusBadRequest},
		{"unknown session", "/support/sessions/missing/messages", `{"content":"hi"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestQuickHelpAndClear(t *testing.T) {
	r, svc := setupRouter()
	id := createSession(t, r)

	req := httptest.NewRequest(http.MethodPost, "/support/sessions/"+id+"/crisis", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "988") {
		t.Fatalf("expected hotline in reply, got %s", resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/support/sessions/"+id+"/messages", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	transcript, err := svc.Transcript(req.Context(), id)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(transcript) != 1 {
		t.Fatalf("expected transcript reset to greeting, got %d", len(transcript))
	}
}

func TestWebSocketExchange(t *testing.T) {
	r, _ := setupRouter()
	srv := httptest.NewServer(r)
	defer srv.Close()

	id := createSession(t, r)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/support/sessions/" + id + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(inboundMessage{Type: "message", Content: "I am so stressed at work"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply struct {
		Type string                  `json:"type"`
		Data supportService.Exchange `json:"data"`
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Type != "reply" {
		t.Fatalf("expected reply, got %s", reply.Type)
	}
	if reply.Data.Reply.Category != analysis.Stress {
		t.Fatalf("expected stress category, got %s", reply.Data.Reply.Category)
	}

	if err := conn.WriteJSON(inboundMessage{Type: "shout"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var errMsg outgoingMessage
	if err := conn.ReadJSON(&errMsg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if errMsg.Type != "error" {
		t.Fatalf("expected error, got %s", errMsg.Type)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	r, _ := setupRouter()
	req := httptest.NewRequest(http.MethodGet, "/support/sessions/missing/ws", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
