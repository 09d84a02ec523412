package nextcloud

import (
	"context"

	"github.com/skillsenselab/data2csv/internal/component"
)

// clientComponent exposes the Nextcloud client through the component
// lifecycle. The client holds no connections, so Start and Stop are cheap;
// health only reflects configuration.
type clientComponent struct {
	client *Client
}

// AsComponent returns the client wrapped as a lifecycle component.
func (c *Client) AsComponent() component.Component {
	return &clientComponent{client: c}
}

func (c *clientComponent) Name() string { return "nextcloud" }

func (c *clientComponent) Start(ctx context.Context) error {
	return c.client.cfg.Validate()
}

func (c *clientComponent) Stop(ctx context.Context) error { return nil }

func (c *clientComponent) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.client.cfg.Enabled {
		h.Status = component.StatusDegraded
		h.Message = "integration disabled"
	}
	return h
}

func (c *clientComponent) Describe() component.Description {
	return component.Description{
		Name:    "Nextcloud",
		Type:    "storage",
		Details: c.client.cfg.URL,
	}
}
