// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rpc serves typed procedures over the tRPC HTTP wire format.
package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/auth"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
)

// DefaultMaxBodyBytes bounds mutation request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Limiter decides whether a client may make another rate-limited call.
type Limiter interface {
	Allow(key string) bool
}

// Options configures a Router.
type Options struct {
	Logger *slog.Logger
	// Limiter is applied to procedures marked Limited. Nil disables limiting.
	Limiter  Limiter
	ClientIP func(*http.Request) string
	Metrics  *Metrics
	// Events records successful admin mutations. Nil disables auditing.
	Events       *service.EventService
	MaxBodyBytes int64
}

// Router dispatches tRPC requests to registered procedures.
type Router struct {
	procs        map[string]*Procedure
	logger       *slog.Logger
	limiter      Limiter
	clientIP     func(*http.Request) string
	metrics      *Metrics
	events       *service.EventService
	maxBodyBytes int64
}

// NewRouter creates a Router serving procs.
func NewRouter(procs []*Procedure, opts Options) *Router {
	rt := &Router{
		procs:        make(map[string]*Procedure, len(procs)),
		logger:       opts.Logger,
		limiter:      opts.Limiter,
		clientIP:     opts.ClientIP,
		metrics:      opts.Metrics,
		events:       opts.Events,
		maxBodyBytes: opts.MaxBodyBytes,
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	if rt.clientIP == nil {
		rt.clientIP = func(r *http.Request) string { return r.RemoteAddr }
	}
	if rt.maxBodyBytes <= 0 {
		rt.maxBodyBytes = DefaultMaxBodyBytes
	}
	for _, p := range procs {
		if _, dup := rt.procs[p.Path]; dup {
			panic(fmt.Sprintf("rpc: duplicate procedure %q", p.Path))
		}
		rt.procs[p.Path] = p
	}
	return rt
}

// Routes returns the handler to mount at the tRPC base path.
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()
	r.HandleFunc("/{path}", rt.serve)
	return r
}

type result struct {
	path string
	data any
	err  *Error
}

func (rt *Router) serve(w http.ResponseWriter, r *http.Request) {
	batch := r.URL.Query().Get("batch") == "1"
	paths := []string{chi.URLParam(r, "path")}
	if batch {
		paths = strings.Split(paths[0], ",")
	}

	inputs, inErr := rt.readInputs(w, r, batch, len(paths))

	results := make([]result, len(paths))
	for i, path := range paths {
		if inErr != nil {
			results[i] = result{path: path, err: inErr}
			continue
		}
		results[i] = rt.call(w, r, path, inputs[i])
	}

	if batch {
		rt.writeBatch(w, results)
		return
	}
	rt.writeSingle(w, results[0])
}

// readInputs extracts one raw input per call. GET requests carry the input
// in the query string and POST requests in the body. Batched inputs are
// objects keyed by call index.
func (rt *Router) readInputs(w http.ResponseWriter, r *http.Request, batch bool, n int) ([]json.RawMessage, *Error) {
	var raw []byte
	switch r.Method {
	case http.MethodGet:
		raw = []byte(r.URL.Query().Get("input"))
	case http.MethodPost:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, rt.maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, Errorf(CodePayloadTooLarge, "Request body exceeds %d bytes", rt.maxBodyBytes)
			}
			return nil, &Error{Code: CodeBadRequest, Message: "Could not read request body", cause: err}
		}
		raw = body
	}

	inputs := make([]json.RawMessage, n)
	if !batch {
		inputs[0] = raw
		return inputs, nil
	}
	if len(raw) == 0 {
		return inputs, nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, &Error{Code: CodeParseError, Message: "Malformed batch input", cause: err}
	}
	for i := range inputs {
		inputs[i] = keyed[strconv.Itoa(i)]
	}
	return inputs, nil
}

// call runs one procedure. The order of checks is lookup, method, rate
// limit, role, then input decoding inside the handler.
func (rt *Router) call(w http.ResponseWriter, r *http.Request, path string, raw json.RawMessage) result {
	start := time.Now()
	res := rt.dispatch(w, r, path, raw)
	if rt.metrics != nil {
		label := path
		if rt.procs[path] == nil {
			label = "unknown"
		}
		code := "OK"
		if res.err != nil {
			code = string(res.err.Code)
		}
		rt.metrics.observe(label, code, time.Since(start))
	}
	return res
}

func (rt *Router) dispatch(w http.ResponseWriter, r *http.Request, path string, raw json.RawMessage) result {
	res := result{path: path}

	proc := rt.procs[path]
	if proc == nil {
		res.err = Errorf(CodeNotFound, "No procedure found on path %q", path)
		return res
	}
	if r.Method != proc.Kind.method() {
		res.err = Errorf(CodeMethodNotSupported, "Unsupported %s-request to %s procedure at path %q", r.Method, proc.Kind, path)
		return res
	}
	if proc.RateLimited && rt.limiter != nil {
		if ip := rt.clientIP(r); !rt.limiter.Allow(ip) {
			rt.logger.Info("rpc rate limit exceeded", "ip", ip, "path", path)
			res.err = Errorf(CodeTooManyRequests, "Too many requests. Please wait a moment and try again.")
			return res
		}
	}

	user := auth.UserFromContext(r.Context())
	if proc.Admin {
		if err := auth.RequireAdmin(user); err != nil {
			level := slog.LevelWarn
			if user == nil {
				level = slog.LevelInfo
			}
			rt.logger.Log(r.Context(), level, "access denied", "path", path, "user", userLabel(user))
			res.err = toError(err)
			return res
		}
	}

	data, err := proc.handle(&Call{Path: path, User: user, Writer: w, Request: r}, raw)
	if err != nil {
		res.err = toError(err)
		if res.err.Code == CodeInternal {
			rt.logger.Error("procedure failed", "path", path, "error", err)
		}
		return res
	}

	if proc.Admin && proc.Kind == Mutation {
		rt.audit(r, path, user)
	}
	res.data = data
	return res
}

func (rt *Router) audit(r *http.Request, path string, user *model.User) {
	if rt.events == nil {
		return
	}
	err := rt.events.LogInfo(r.Context(), model.EventCategoryContent, path, map[string]string{
		"user": userLabel(user),
		"ip":   rt.clientIP(r),
	})
	if err != nil {
		rt.logger.Warn("failed to record audit event", "path", path, "error", err)
	}
}

func userLabel(u *model.User) string {
	switch {
	case u == nil:
		return "anonymous"
	case u.Email != "":
		return u.Email
	default:
		return u.OpenID
	}
}
