package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSSEHandshakeAnnouncesEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testHandler(t)
	router := gin.New()
	h.RegisterRoutes(router)

	// A canceled context makes the stream loop exit right after the
	// handshake event is written.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mcp/sse", nil).WithContext(ctx)
	router.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "event: endpoint") {
		t.Errorf("missing endpoint event in %q", body)
	}
	if !strings.Contains(body, "data: /mcp/messages?session_id=") {
		t.Errorf("missing message endpoint in %q", body)
	}
	if w.Header().Get("Content-Type") != "text/event-stream" {
		t.Errorf("content type = %q", w.Header().Get("Content-Type"))
	}

	// The session is torn down with the connection.
	if h.Sessions().Count() != 0 {
		t.Errorf("sessions = %d after disconnect, want 0", h.Sessions().Count())
	}
}

func TestMessageEndpointRejectsUnknownSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testHandler(t)
	router := gin.New()
	h.RegisterRoutes(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp/messages?session_id=nope",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":"NOT_FOUND"`) {
		t.Errorf("body = %q, want structured NOT_FOUND error", w.Body.String())
	}
}

func TestMessageEndpointAcknowledgesRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testHandler(t)
	router := gin.New()
	h.RegisterRoutes(router)

	session := h.Sessions().Create()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp/messages?session_id="+session.ID,
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", w.Code)
	}
	if !strings.Contains(w.Body.String(), session.ID) {
		t.Errorf("body = %q, want ack naming the session", w.Body.String())
	}
}

func TestMessageEndpointRequiresSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testHandler(t)
	router := gin.New()
	h.RegisterRoutes(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp/messages",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":"MISSING_FIELD"`) {
		t.Errorf("body = %q, want structured MISSING_FIELD error", w.Body.String())
	}
}
