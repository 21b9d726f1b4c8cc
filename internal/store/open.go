// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
)

// Backend names accepted by Open.
const (
	BackendSQLite    = "sqlite"
	BackendMySQL     = "mysql"
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
)

// Options selects and configures a backend.
type Options struct {
	Driver        string
	SQLitePath    string
	MySQLDSN      string
	MongoURI      string
	MongoDatabase string
	// Firebase is required by the firestore backend.
	Firebase *firebase.App
}

// Open builds the configured backend. The returned store is shared by the
// whole process and must be closed on shutdown.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case BackendSQLite, "":
		return OpenSQLite(opts.SQLitePath)
	case BackendMySQL:
		return OpenMySQL(ctx, opts.MySQLDSN)
	case BackendMongo:
		return OpenMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	case BackendFirestore:
		if opts.Firebase == nil {
			return nil, errors.New("firestore backend requires a firebase app")
		}
		return OpenFirestore(ctx, opts.Firebase)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
