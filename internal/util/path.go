// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds small filesystem helpers shared by upload storage and
// static file serving.
package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathEscape is returned when a name resolves outside its base directory.
var ErrPathEscape = errors.New("path escapes base directory")

// JoinWithin joins name onto base and rejects results that leave base.
// Names may contain slashes; they are interpreted relative to base.
func JoinWithin(base, name string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", err
	}
	full := filepath.Join(absBase, filepath.FromSlash(name))
	if full != absBase && !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return full, nil
}

// PlainName reports whether name is a single path element with no
// directory components.
func PlainName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
