// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rpc

import (
	"encoding/json"
	"net/http"
)

type successEnvelope struct {
	Result successResult `json:"result"`
}

type successResult struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorShape `json:"error"`
}

type errorShape struct {
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Data    errorData `json:"data"`
}

type errorData struct {
	Code        Code                `json:"code"`
	HTTPStatus  int                 `json:"httpStatus"`
	Path        string              `json:"path,omitempty"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

// envelope encodes one result. A result that cannot be encoded is reported
// as an internal error.
func envelope(res result) (json.RawMessage, int) {
	if res.err == nil {
		body, err := json.Marshal(successEnvelope{Result: successResult{Data: res.data}})
		if err == nil {
			return body, http.StatusOK
		}
		res.err = &Error{Code: CodeInternal, Message: "Internal server error", cause: err}
	}

	body, _ := json.Marshal(errorEnvelope{Error: errorShape{
		Message: res.err.Message,
		Code:    res.err.JSONRPCCode(),
		Data: errorData{
			Code:        res.err.Code,
			HTTPStatus:  res.err.HTTPStatus(),
			Path:        res.path,
			FieldErrors: res.err.FieldErrors,
		},
	}})
	return body, res.err.HTTPStatus()
}

func (rt *Router) writeSingle(w http.ResponseWriter, res result) {
	body, status := envelope(res)
	writeJSON(w, status, body)
}

// writeBatch responds 200 when every call succeeded, the shared status when
// every call failed the same way, and 207 otherwise.
func (rt *Router) writeBatch(w http.ResponseWriter, results []result) {
	bodies := make([]json.RawMessage, len(results))
	statuses := make([]int, len(results))
	for i, res := range results {
		bodies[i], statuses[i] = envelope(res)
	}

	body, _ := json.Marshal(bodies)
	writeJSON(w, batchStatus(statuses), body)
}

func batchStatus(statuses []int) int {
	if len(statuses) == 0 {
		return http.StatusOK
	}
	first := statuses[0]
	for _, s := range statuses[1:] {
		if s != first {
			return http.StatusMultiStatus
		}
	}
	return first
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
