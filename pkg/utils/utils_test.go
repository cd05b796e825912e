package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "session not found")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !strings.Contains(rec.Body.String(), `"error":"session not found"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":3,"mood":"ok"}`))
	var payload struct {
		Value int `json:"value"`
	}
	if err := DecodeJSON(req, &payload); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestSendSSEEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	SetupSSEHeaders(rec)
	if err := SendSSEEvent(rec, rec, "message", map[string]string{"content": "hi"}); err != nil {
		t.Fatalf("SendSSEEvent err: %v", err)
	}
	want := "event: message\ndata: {\"content\":\"hi\"}\n\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatal("expected event-stream content type")
	}
}
