// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rpc

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/auth"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/store"
)

// Code is a tRPC error code.
type Code string

// Error codes understood by tRPC clients.
const (
	CodeParseError         Code = "PARSE_ERROR"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodePayloadTooLarge    Code = "PAYLOAD_TOO_LARGE"
	CodeTooManyRequests    Code = "TOO_MANY_REQUESTS"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
	CodeNotImplemented     Code = "NOT_IMPLEMENTED"
)

type codeInfo struct {
	jsonrpc int
	status  int
}

var codes = map[Code]codeInfo{
	CodeParseError:         {-32700, http.StatusBadRequest},
	CodeBadRequest:         {-32600, http.StatusBadRequest},
	CodeUnauthorized:       {-32001, http.StatusUnauthorized},
	CodeForbidden:          {-32003, http.StatusForbidden},
	CodeNotFound:           {-32004, http.StatusNotFound},
	CodeMethodNotSupported: {-32005, http.StatusMethodNotAllowed},
	CodePayloadTooLarge:    {-32013, http.StatusRequestEntityTooLarge},
	CodeTooManyRequests:    {-32029, http.StatusTooManyRequests},
	CodeInternal:           {-32603, http.StatusInternalServerError},
	CodeNotImplemented:     {-32603, http.StatusNotImplemented},
}

// Error is a procedure failure reported to the client.
type Error struct {
	Code        Code
	Message     string
	FieldErrors map[string][]string
	cause       error
}

// Errorf creates an Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the status code used when this error is the only result.
func (e *Error) HTTPStatus() int {
	if info, ok := codes[e.Code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// JSONRPCCode returns the numeric code placed in the error envelope.
func (e *Error) JSONRPCCode() int {
	if info, ok := codes[e.Code]; ok {
		return info.jsonrpc
	}
	return codes[CodeInternal].jsonrpc
}

// toError classifies err for the client. Unclassified errors become
// INTERNAL_SERVER_ERROR and keep the original as the cause.
func toError(err error) *Error {
	var rpcErr *Error
	switch {
	case errors.As(err, &rpcErr):
		return rpcErr
	case errors.Is(err, auth.ErrForbidden):
		return &Error{Code: CodeForbidden, Message: "Admin access required", cause: err}
	case errors.Is(err, auth.ErrInvalidToken):
		return &Error{Code: CodeUnauthorized, Message: "Invalid or expired token", cause: err}
	case errors.Is(err, auth.ErrNoVerifier):
		return &Error{Code: CodeNotImplemented, Message: "Authentication is not configured", cause: err}
	case errors.Is(err, store.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: "Record not found", cause: err}
	case errors.Is(err, store.ErrInvalidField):
		return &Error{Code: CodeBadRequest, Message: err.Error(), cause: err}
	default:
		return &Error{Code: CodeInternal, Message: "Internal server error", cause: err}
	}
}
