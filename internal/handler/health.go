// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/middleware"
)

// readyTimeout bounds the store ping in Readiness.
const readyTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	store     Pinger
	version   string
	startTime time.Time
	now       func() time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		version:   version,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version,omitempty"`
	Uptime    string `json:"uptime"`
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	middleware.WriteJSON(w, http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: now.UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    now.Sub(h.startTime).Round(time.Second).String(),
	})
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks that the document store answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
