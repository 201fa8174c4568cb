package internalapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/webmixgamer/trinity-timeline/internal/config"
	"github.com/webmixgamer/trinity-timeline/internal/engine"
	"github.com/webmixgamer/trinity-timeline/internal/repository"
	"github.com/webmixgamer/trinity-timeline/internal/service"
	"github.com/webmixgamer/trinity-timeline/internal/transport/ws"
	"github.com/webmixgamer/trinity-timeline/policy"
	"github.com/webmixgamer/trinity-timeline/tests/helpers"
)

func newTestHandler(t *testing.T) (*Handler, store.Store) {
	cfg := &config.Config{
		EventPageSize:     500,
		BaseGridWidth:     1200,
		LiveRefresh:       time.Second,
		RecomputeDebounce: 10 * time.Millisecond,
	}
	db := helpers.NewTestSQLiteStore(t)
	hub := ws.NewHub()
	eng := engine.New(engine.Options{
		RefreshInterval:  cfg.LiveRefresh,
		DebounceInterval: cfg.RecomputeDebounce,
		BaseGridWidth:    cfg.BaseGridWidth,
	})
	t.Cleanup(eng.Close)
	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	svc := service.New(db, hub, eng, policyEngine, cfg)
	return NewHandler(svc), db
}

func TestIngestEventValidation(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/internal/events", bytes.NewBufferString(`{"activity_type":"execution"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.IngestEvent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIngestEventSuccess(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t)

	body := `{"source_agent":"coder","target_agent":"tester","activity_type":"chat_request","status":"started"}`
	req := httptest.NewRequest(http.MethodPost, "/internal/events", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.IngestEvent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	count, err := db.CountEvents(context.Background())
	if err != nil {
		t.Fatalf("CountEvents failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stored event, got %d", count)
	}
}

func TestUpsertAgentValidation(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/internal/agents", bytes.NewBufferString(`{"status":"running"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.UpsertAgent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpsertAgentSuccess(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t)

	body := `{"name":"coder","status":"running","is_system":false}`
	req := httptest.NewRequest(http.MethodPost, "/internal/agents", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.UpsertAgent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	got, err := db.GetAgent(context.Background(), "coder")
	if err != nil {
		t.Fatalf("GetAgent failed: %v", err)
	}
	if got == nil || got.Status != "running" {
		t.Fatalf("unexpected agent: %+v", got)
	}
}
