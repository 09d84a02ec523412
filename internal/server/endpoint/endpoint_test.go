package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/data2csv/internal/component"
)

func perform(t *testing.T, handler gin.HandlerFunc, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET(path, handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return w, body
}

func TestLivenessAlwaysOK(t *testing.T) {
	w, body := perform(t, Liveness("data2csv"), "/alive")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if body["status"] != "alive" {
		t.Errorf("status field = %v, want alive", body["status"])
	}
	if body["service"] != "data2csv" {
		t.Errorf("service field = %v, want data2csv", body["service"])
	}
}

func TestReadinessReflectsComponents(t *testing.T) {
	tests := []struct {
		name       string
		health     []component.Health
		wantStatus string
		wantCode   int
	}{
		{"all healthy", []component.Health{
			{Name: "a", Status: component.StatusHealthy},
		}, "ready", http.StatusOK},
		{"one unhealthy", []component.Health{
			{Name: "a", Status: component.StatusHealthy},
			{Name: "b", Status: component.StatusUnhealthy},
		}, "not_ready", http.StatusServiceUnavailable},
		{"degraded still ready", []component.Health{
			{Name: "a", Status: component.StatusDegraded},
		}, "ready", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := func(ctx context.Context) []component.Health { return tt.health }
			w, body := perform(t, Readiness("data2csv", checker), "/ready")

			if w.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", w.Code, tt.wantCode)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %v", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestReadinessWithoutChecker(t *testing.T) {
	w, _ := perform(t, Readiness("data2csv", nil), "/ready")
	if w.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", w.Code)
	}
}

func TestHealthAggregates(t *testing.T) {
	checker := func(ctx context.Context) []component.Health {
		return []component.Health{
			{Name: "a", Status: component.StatusHealthy},
			{Name: "b", Status: component.StatusDegraded},
		}
	}
	w, body := perform(t, Health("data2csv", checker, func() int { return 2 }), "/health")

	if w.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", w.Code)
	}
	if body["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", body["status"])
	}
	if body["sessions"] != float64(2) {
		t.Errorf("sessions = %v, want 2", body["sessions"])
	}
}

func TestHealthUnhealthyReturns503(t *testing.T) {
	checker := func(ctx context.Context) []component.Health {
		return []component.Health{{Name: "a", Status: component.StatusUnhealthy}}
	}
	w, body := perform(t, Health("data2csv", checker, nil), "/health")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", w.Code)
	}
	if body["status"] != "unhealthy" {
		t.Errorf("status = %v, want unhealthy", body["status"])
	}
}

func TestInfoReportsSessions(t *testing.T) {
	w, body := perform(t, Info("data2csv", func() int { return 3 }), "/info")

	if w.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", w.Code)
	}
	if body["active_sessions"] != float64(3) {
		t.Errorf("active_sessions = %v, want 3", body["active_sessions"])
	}
	if body["version"] == "" {
		t.Error("version should not be empty")
	}
}
