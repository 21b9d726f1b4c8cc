// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/auth"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/handler"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/middleware"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/rpc"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/util"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/version"
)

const uploadsCacheMaxAge = 365 * 24 * time.Hour

func (a *app) routes(gw *auth.Gateway, storage service.MediaStorage, proxies *middleware.ProxyResolver, info version.Info) http.Handler {
	cfg := a.cfg

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	limiter := middleware.NewRateLimiter(cfg.PublicRateLimit, cfg.PublicRateBurst, proxies.ClientIP)

	rpcRouter := rpc.NewRouter(rpc.Procedures(a.svc, gw), rpc.Options{
		Logger:   a.logger,
		Limiter:  limiter,
		ClientIP: proxies.ClientIP,
		Metrics:  rpc.NewMetrics(reg),
		Events:   a.svc.Events,
	})
	healthHandler := handler.NewHealthHandler(a.store, info.Version)
	uploadHandler := handler.NewUploadHandler(storage, a.svc.Events, a.logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.NewHTTPMetrics(reg).Middleware)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.LoadIdentity(gw))
		r.Use(middleware.SkipCSRFForBearer)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))

		r.Get("/health", healthHandler.Health)
		r.Mount("/trpc", rpcRouter.Routes())
		r.With(middleware.RequireAdmin, limiter.Middleware()).Post("/upload", uploadHandler.Upload)
	})

	if _, ok := storage.(*service.DiskStorage); ok {
		uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.With(middleware.StaticCache(uploadsCacheMaxAge, true)).Handle("/uploads/*", uploads)
	}

	if st, err := os.Stat(cfg.PublicDir); err == nil && st.IsDir() {
		r.Handle("/*", spaHandler(cfg.PublicDir))
	} else {
		a.logger.Info("public directory not found, client app not served", "dir", cfg.PublicDir)
	}

	return r
}

// spaHandler serves the built client. Unknown paths without an extension get
// index.html so client-side routes load.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if target, err := util.JoinWithin(dir, path.Clean(r.URL.Path)); err == nil {
			if st, err := os.Stat(target); err == nil && !st.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}
		if path.Ext(r.URL.Path) != "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	})
}
