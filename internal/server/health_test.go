package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/trellist/trellist/internal/trello"
)

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Errorf("liveness status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != healthStatusOK {
		t.Errorf("status = %q, want %q", resp.Status, healthStatusOK)
	}
}

func TestHealthChecker_Readiness(t *testing.T) {
	sc, err := NewServerContextWithProvider(context.Background(), configuredProvider())
	if err != nil {
		t.Fatalf("NewServerContextWithProvider() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	h := NewHealthChecker(sc)

	req := httptest.NewRequest("GET", "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Errorf("readiness status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Checks["credentials"] != healthStatusOK {
		t.Errorf("credentials check = %q, want %q", resp.Checks["credentials"], healthStatusOK)
	}
}

func TestHealthChecker_Readiness_NotReady(t *testing.T) {
	h := NewHealthChecker(nil)
	h.SetReady(false)

	req := httptest.NewRequest("GET", "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, req)

	if rec.Code != 503 {
		t.Errorf("readiness status = %d, want 503", rec.Code)
	}
}

func TestHealthChecker_Readiness_MissingCredentialsStillReady(t *testing.T) {
	sc, err := NewServerContextWithProvider(context.Background(), trello.StaticProvider{})
	if err != nil {
		t.Fatalf("NewServerContextWithProvider() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	h := NewHealthChecker(sc)

	req := httptest.NewRequest("GET", "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Errorf("readiness status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Checks["credentials"] != healthStatusNotConfigured {
		t.Errorf("credentials check = %q, want %q", resp.Checks["credentials"], healthStatusNotConfigured)
	}
}

func TestHealthChecker_Readiness_ShuttingDown(t *testing.T) {
	sc, err := NewServerContextWithProvider(context.Background(), configuredProvider())
	if err != nil {
		t.Fatalf("NewServerContextWithProvider() error = %v", err)
	}
	_ = sc.Shutdown()

	h := NewHealthChecker(sc)

	req := httptest.NewRequest("GET", "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, req)

	if rec.Code != 503 {
		t.Errorf("readiness status = %d, want 503", rec.Code)
	}
}

func TestHealthChecker_DetailedHealth(t *testing.T) {
	h := NewHealthChecker(nil)

	req := httptest.NewRequest("GET", "/healthz/detailed", nil)
	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Errorf("detailed health status = %d, want 200", rec.Code)
	}

	var resp DetailedHealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Uptime == "" {
		t.Error("expected uptime to be set")
	}
}
