// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the application logger and provides a slog handler
// that also records WARN and ERROR logs in the event log collection.
package logging

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

// eventWriteTimeout bounds a single event log write.
const eventWriteTimeout = 2 * time.Second

// EventRecorder stores event log entries. *service.EventService implements it.
type EventRecorder interface {
	LogEvent(ctx context.Context, level, category, message string, metadata map[string]string) error
}

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level to the event log.
type EventLogHandler struct {
	inner  slog.Handler
	events EventRecorder
	level  slog.Level // Minimum level to forward to the event log (default: WARN)
	attrs  []slog.Attr
	group  string
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the event log.
func NewEventLogHandler(inner slog.Handler, events EventRecorder) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, events, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, events EventRecorder, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:  inner,
		events: events,
		level:  level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), h.qualify(attrs)...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	clone.group = h.prefixed(name)
	return &clone
}

func (h *EventLogHandler) prefixed(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *EventLogHandler) qualify(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefixed(a.Key), Value: a.Value}
	}
	return out
}

// writeToEventLog stores a record. A detached context is used so the event
// is kept even when the request that logged it has been cancelled.
func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	all := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		all = append(all, slog.Attr{Key: h.prefixed(a.Key), Value: a.Value})
		return true
	})

	ctx, cancel := context.WithTimeout(context.Background(), eventWriteTimeout)
	defer cancel()
	_ = h.events.LogEvent(ctx, slogLevelToEventLevel(r.Level), extractCategory(r.Message, all), r.Message, extractMetadata(all))
}

// slogLevelToEventLevel converts a slog.Level to an event log level.
func slogLevelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// extractCategory uses an explicit "category" attribute or infers one from
// the message.
func extractCategory(msg string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "category" {
			return a.Value.String()
		}
	}

	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") ||
		strings.Contains(msg, "logout") || strings.Contains(msg, "access denied"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "upload"):
		return model.EventCategoryUpload
	case strings.Contains(msg, "rpc") || strings.Contains(msg, "procedure") || strings.Contains(msg, "rate limit"):
		return model.EventCategoryRPC
	case strings.Contains(msg, "cache"):
		return model.EventCategoryCache
	default:
		return model.EventCategorySystem
	}
}

// extractMetadata flattens attributes into string metadata.
func extractMetadata(attrs []slog.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	meta := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Key == "category" {
			continue
		}
		if a.Value.Kind() == slog.KindGroup {
			for _, ga := range a.Value.Group() {
				meta[a.Key+"."+ga.Key] = ga.Value.Resolve().String()
			}
			continue
		}
		meta[a.Key] = a.Value.Resolve().String()
	}
	return meta
}
