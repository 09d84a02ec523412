package server

import (
	"context"
	"fmt"

	"github.com/skillsenselab/data2csv/internal/component"
)

// serverComponent adapts the server to the component lifecycle so it can be
// managed by the registry alongside other components.
type serverComponent struct {
	srv *Server
}

// AsComponent returns the server wrapped as a lifecycle component.
func (s *Server) AsComponent() component.Component {
	return &serverComponent{srv: s}
}

func (c *serverComponent) Name() string { return "http-server" }

func (c *serverComponent) Start(ctx context.Context) error { return c.srv.Start(ctx) }

func (c *serverComponent) Stop(ctx context.Context) error { return c.srv.Stop(ctx) }

func (c *serverComponent) Health(ctx context.Context) component.Health {
	c.srv.mu.Lock()
	started := c.srv.started
	c.srv.mu.Unlock()

	h := component.Health{Name: c.Name()}
	if !started {
		h.Status = component.StatusUnhealthy
		h.Message = "server not started"
		return h
	}
	h.Status = component.StatusHealthy
	h.Message = fmt.Sprintf("listening on %s", c.srv.Addr())
	return h
}

func (c *serverComponent) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s:%d", c.srv.cfg.Host, c.srv.cfg.Port),
		Port:    c.srv.cfg.Port,
	}
}
