package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/gradpath/config"
	agentcore "github.com/mohammad-safakhou/gradpath/internal/agent/core"
	agenttele "github.com/mohammad-safakhou/gradpath/internal/agent/telemetry"
	"github.com/mohammad-safakhou/gradpath/profile/inmemory"
)

// turnRunner is the slice of the orchestrator the HTTP layer needs.
type turnRunner interface {
	RunTurn(ctx context.Context, sessionID, userText string) (string, error)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Run starts the HTTP API: POST /chat for conversation turns, /healthz and
// /metrics for operations. One orchestrator instance serves all sessions;
// per-session state lives in the in-memory profile store.
func Run(addr string, cfg *config.Config) error {
	registry := prometheus.NewRegistry()
	tele := agenttele.NewTelemetry(cfg.Telemetry, registry)

	store := inmemory.NewInMemoryProfileStore()
	orch, err := agentcore.NewOrchestrator(cfg, store, tele)
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}

	e := newServer(orch, registry)
	return e.Start(addr)
}

// newServer assembles the echo instance around a turn runner.
func newServer(runner turnRunner, registry *prometheus.Registry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	e.POST("/chat", func(c echo.Context) error {
		var req chatRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if strings.TrimSpace(req.Message) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "message is required")
		}
		if req.SessionID == "" {
			req.SessionID = uuid.NewString()
		}

		reply, err := runner.RunTurn(c.Request().Context(), req.SessionID, req.Message)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("turn failed: %v", err))
		}
		return c.JSON(http.StatusOK, chatResponse{SessionID: req.SessionID, Reply: reply})
	})

	return e
}
