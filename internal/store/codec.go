// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Encode converts a struct into a Document using its json field names.
// Nil pointer fields and zero-valued omitempty fields are skipped, which lets
// patch structs with pointer fields express partial updates. The id field is
// never encoded. time.Time values are kept as-is so backends can store them
// natively.
func Encode(v any) (Document, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("store: cannot encode nil %T", v)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("store: cannot encode %T", v)
	}

	doc := Document{}
	encodeStruct(rv, doc)
	return doc, nil
}

func encodeStruct(rv reflect.Value, doc Document) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("json")

		if f.Anonymous && f.IsExported() && tag == "" && f.Type.Kind() == reflect.Struct && f.Type != timeType {
			encodeStruct(rv.Field(i), doc)
			continue
		}
		if !f.IsExported() || tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		if name == IDField {
			continue
		}

		fv := rv.Field(i)
		if fv.Kind() == reflect.Pointer {
			// A set pointer is an explicit value, even when it points at a zero value.
			if fv.IsNil() {
				continue
			}
			doc[name] = fv.Elem().Interface()
			continue
		}
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}
		doc[name] = fv.Interface()
	}
}

// Decode fills v from a document read back from a backend.
func Decode(doc Document, v any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encoding document: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("store: decoding document: %w", err)
	}
	return nil
}

// Merge returns a new document holding base overlaid with each patch in order.
func Merge(base Document, patches ...Document) Document {
	out := make(Document, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, p := range patches {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}
