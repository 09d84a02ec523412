package component

import (
	"context"
	"errors"
	"testing"
)

// fakeComponent records lifecycle calls for assertions.
type fakeComponent struct {
	name     string
	startErr error
	events   *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(ctx context.Context) error {
	*f.events = append(*f.events, "start:"+f.name)
	return f.startErr
}

func (f *fakeComponent) Stop(ctx context.Context) error {
	*f.events = append(*f.events, "stop:"+f.name)
	return nil
}

func (f *fakeComponent) Health(ctx context.Context) Health {
	return Health{Name: f.name, Status: StatusHealthy}
}

func TestRegistryStartStopOrder(t *testing.T) {
	var events []string
	r := NewRegistry()
	if err := r.Register(&fakeComponent{name: "a", events: &events}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&fakeComponent{name: "b", events: &events}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.StopAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"start:a", "start:b", "stop:b", "stop:a"}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], events[i])
		}
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	var events []string
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "a", events: &events})
	if err := r.Register(&fakeComponent{name: "a", events: &events}); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
}

func TestRegistryStartFailureAborts(t *testing.T) {
	var events []string
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "a", events: &events, startErr: errors.New("bind failed")})
	_ = r.Register(&fakeComponent{name: "b", events: &events})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	for _, e := range events {
		if e == "start:b" {
			t.Error("component b should not start after a failed")
		}
	}
}

func TestRegistryHealthAll(t *testing.T) {
	var events []string
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "a", events: &events})

	healths := r.HealthAll(context.Background())
	if len(healths) != 1 {
		t.Fatalf("expected 1 health entry, got %d", len(healths))
	}
	if healths[0].Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", healths[0].Status)
	}
}
