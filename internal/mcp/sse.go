package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/data2csv/internal/errors"
	"github.com/skillsenselab/data2csv/internal/server"
	"github.com/skillsenselab/data2csv/internal/sse"
)

// keepAliveInterval should stay below common proxy idle timeouts.
const keepAliveInterval = 30 * time.Second

// handleSSE serves the SSE transport. Each connection gets a session; the
// first event names the message endpoint the client must POST requests to,
// and responses flow back over this stream.
func (h *Handler) handleSSE(c *gin.Context) {
	w := c.Writer
	flusher, ok := w.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "streaming not supported")
		return
	}

	// SSE connections are long-lived; the server's WriteTimeout must not
	// apply to them.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.log.Warn("could not disable write deadline", map[string]interface{}{
			"error": err.Error(),
		})
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	session := h.sessions.Create()
	client := sse.NewClient(session.ID)
	h.hub.Register(client)
	defer func() {
		h.hub.Unregister(client)
		h.sessions.Remove(session.ID)
	}()

	fmt.Fprintf(w, "event: endpoint\n")
	fmt.Fprintf(w, "data: /mcp/messages?session_id=%s\n\n", session.ID)
	flusher.Flush()

	h.log.Debug("sse client connected", map[string]interface{}{
		"session_id":  session.ID,
		"remote_addr": c.Request.RemoteAddr,
	})

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Debug("sse client disconnected", map[string]interface{}{
				"session_id": session.ID,
			})
			return

		case event, ok := <-client.Events():
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: message\n")
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()

		case <-keepAlive.C:
			fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

// handleMessage accepts a JSON-RPC request for an SSE session. The request is
// acknowledged with 202 and the response is delivered over the event stream.
func (h *Handler) handleMessage(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		server.RespondWithError(c, apperrors.MissingField("session_id"))
		return
	}
	if _, ok := h.sessions.Get(sessionID); !ok {
		server.RespondWithError(c, apperrors.NotFound("session", sessionID))
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("request", "invalid JSON-RPC request"))
		return
	}

	server.RespondAccepted(c, gin.H{"session_id": sessionID})

	resp, respond := h.Dispatch(c.Request.Context(), req)
	if !respond {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		h.log.Error("failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if !h.hub.SendTo(sessionID, data) {
		h.log.Warn("response dropped, session gone", map[string]interface{}{
			"session_id": sessionID,
		})
	}
}
