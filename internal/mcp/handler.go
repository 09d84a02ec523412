package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/data2csv/internal/logger"
	"github.com/skillsenselab/data2csv/internal/server/middleware"
	"github.com/skillsenselab/data2csv/internal/sse"
	"github.com/skillsenselab/data2csv/internal/version"
)

// Handler dispatches JSON-RPC requests to the tool registry and manages the
// HTTP and SSE transports.
type Handler struct {
	tools    *ToolRegistry
	sessions *SessionManager
	hub      *sse.Hub
	log      *logger.Logger
}

// NewHandler creates an MCP handler around the given tool registry.
func NewHandler(tools *ToolRegistry, log *logger.Logger) *Handler {
	return &Handler{
		tools:    tools,
		sessions: NewSessionManager(),
		hub:      sse.NewHub(),
		log:      log.WithComponent("mcp"),
	}
}

// Sessions exposes the session manager, mainly for the info endpoint.
func (h *Handler) Sessions() *SessionManager { return h.sessions }

// RegisterRoutes wires the MCP transports onto the gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleRoot)
	r.POST("/mcp", h.handlePost)
	r.GET("/mcp/sse", h.handleSSE)
	r.POST("/mcp/messages", h.handleMessage)
}

// handleRoot serves server information for discovery.
func (h *Handler) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Data2CSV Remote MCP Server",
		"version":     version.GetVersionInfo().Version,
		"description": "Remote MCP server for converting 2D data to CSV and Excel formats",
		"endpoints": gin.H{
			"mcp":    "/mcp (POST for JSON-RPC requests)",
			"sse":    "/mcp/sse (GET for the SSE event stream)",
			"health": "/health",
		},
		"transport":        "HTTP",
		"protocol_version": ProtocolVersion,
		"status":           "running",
	})
}

// handlePost serves the plain HTTP transport: one JSON-RPC request per POST.
func (h *Handler) handlePost(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, NewError(nil, CodeParseError, "Parse error", err.Error()))
		return
	}

	resp, respond := h.Dispatch(c.Request.Context(), req)
	if !respond {
		c.Status(http.StatusAccepted)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dispatch routes a JSON-RPC request to its method handler. The second return
// value is false for notifications, which expect no response.
func (h *Handler) Dispatch(ctx context.Context, req Request) (Response, bool) {
	fields := map[string]interface{}{"method": req.Method}
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}
	h.log.Debug("processing request", fields)

	if req.Method == "" {
		return NewError(req.ID, CodeInvalidRequest, "Invalid Request", "method is required"), !req.IsNotification()
	}

	switch req.Method {
	case "initialize":
		return h.handleInitialize(req), true
	case "tools/list":
		return NewResult(req.ID, gin.H{"tools": h.tools.List()}), true
	case "tools/call":
		return h.handleToolCall(ctx, req), true
	case "ping":
		return NewResult(req.ID, gin.H{}), true
	default:
		if req.IsNotification() {
			// Notifications like notifications/initialized are accepted silently.
			return Response{}, false
		}
		return NewError(req.ID, CodeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), nil), true
	}
}

func (h *Handler) handleInitialize(req Request) Response {
	return NewResult(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: version.GetVersionInfo().Version,
		},
		Capabilities: Capabilities{
			Tools: ToolCapabilities{ListChanged: false},
		},
	})
}

// toolCallParams is the params shape of a tools/call request.
type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (h *Handler) handleToolCall(ctx context.Context, req Request) Response {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return NewError(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}
	if params.Name == "" {
		return NewError(req.ID, CodeInvalidParams, "Invalid params", "tool name is required")
	}

	tool, ok := h.tools.Get(params.Name)
	if !ok {
		// Unknown tools are reported in-band so the client model sees them.
		return NewResult(req.ID, ErrorResult("Unknown tool: %s", params.Name))
	}

	result, err := tool.Handler(ctx, params.Arguments)
	if err != nil {
		h.log.Error("tool execution failed", map[string]interface{}{
			"tool":  params.Name,
			"error": err.Error(),
		})
		return NewResult(req.ID, ErrorResult("Error: %s", err.Error()))
	}
	return NewResult(req.ID, result)
}
