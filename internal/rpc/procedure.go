// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package rpc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
)

// Kind is the procedure type.
type Kind int

// Procedure kinds. Queries are served over GET and mutations over POST.
const (
	Query Kind = iota
	Mutation
)

func (k Kind) String() string {
	if k == Mutation {
		return "mutation"
	}
	return "query"
}

func (k Kind) method() string {
	if k == Mutation {
		return http.MethodPost
	}
	return http.MethodGet
}

// NoInput is the input type of procedures that take no arguments.
type NoInput struct{}

// Call carries the request state a procedure may use.
type Call struct {
	Path    string
	User    *model.User
	Writer  http.ResponseWriter
	Request *http.Request
}

// Context returns the request context.
func (c *Call) Context() context.Context {
	return c.Request.Context()
}

type handlerFunc func(c *Call, raw json.RawMessage) (any, error)

// Procedure is one callable path.
type Procedure struct {
	Path        string
	Kind        Kind
	Admin       bool
	RateLimited bool
	handle      handlerFunc
}

// NewQuery declares a query whose input decodes into In.
func NewQuery[In any](path string, fn func(c *Call, in *In) (any, error)) *Procedure {
	return newProcedure(path, Query, fn)
}

// NewMutation declares a mutation whose input decodes into In.
func NewMutation[In any](path string, fn func(c *Call, in *In) (any, error)) *Procedure {
	return newProcedure(path, Mutation, fn)
}

func newProcedure[In any](path string, kind Kind, fn func(c *Call, in *In) (any, error)) *Procedure {
	return &Procedure{
		Path: path,
		Kind: kind,
		handle: func(c *Call, raw json.RawMessage) (any, error) {
			in, err := decodeInput[In](raw)
			if err != nil {
				return nil, err
			}
			return fn(c, in)
		},
	}
}

// AdminOnly restricts the procedure to callers with the admin role.
func (p *Procedure) AdminOnly() *Procedure {
	p.Admin = true
	return p
}

// Limited applies the per-client rate limit to the procedure.
func (p *Procedure) Limited() *Procedure {
	p.RateLimited = true
	return p
}
