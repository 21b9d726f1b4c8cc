// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/util"
)

// Upload limits
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./public/uploads"

	// tempPattern names partially written uploads so stale ones can be swept.
	tempPattern = "upload-*.tmp"
)

// AllowedMimeTypes defines the MIME types that can be uploaded.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// UploadError is an upload rejection whose message is safe to show to the client.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// Upload rejections.
var (
	ErrNoFile          = &UploadError{Message: "No file uploaded"}
	ErrUnsupportedType = &UploadError{Message: "Invalid file type. Only image files are allowed."}
	ErrFileTooLarge    = &UploadError{Message: "File too large. Maximum size is 20MB."}
	ErrUnexpectedField = &UploadError{Message: "Unexpected field"}
)

// StoredFile describes an accepted upload.
type StoredFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
}

// MediaStorage persists an uploaded image and returns where it can be fetched.
type MediaStorage interface {
	Save(ctx context.Context, r io.Reader, originalName, mimeType string) (*StoredFile, error)
	// Remove discards a file returned by Save.
	Remove(ctx context.Context, f *StoredFile) error
}

// ValidateMimeType rejects anything outside the image whitelist.
func ValidateMimeType(mimeType string) error {
	if !AllowedMimeTypes[strings.ToLower(mimeType)] {
		return ErrUnsupportedType
	}
	return nil
}

// DiskStorage writes uploads into a directory served under URLPrefix.
type DiskStorage struct {
	Dir       string
	URLPrefix string
	Now       Clock
}

// NewDiskStorage creates the upload directory if needed.
func NewDiskStorage(dir, urlPrefix string) (*DiskStorage, error) {
	if dir == "" {
		dir = DefaultUploadDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &DiskStorage{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/"), Now: time.Now}, nil
}

// Save implements MediaStorage.
func (s *DiskStorage) Save(_ context.Context, r io.Reader, originalName, mimeType string) (*StoredFile, error) {
	if err := ValidateMimeType(mimeType); err != nil {
		return nil, err
	}

	tmpPath, size, err := spool(r, s.Dir)
	if err != nil {
		return nil, err
	}

	name := uniqueFilename(s.Now(), originalName)
	if err := os.Rename(tmpPath, filepath.Join(s.Dir, name)); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("moving upload into place: %w", err)
	}

	return &StoredFile{
		URL:      s.URLPrefix + "/" + name,
		Filename: name,
		Size:     size,
		MimeType: mimeType,
	}, nil
}

// Remove implements MediaStorage.
func (s *DiskStorage) Remove(_ context.Context, f *StoredFile) error {
	if f == nil || !util.PlainName(f.Filename) {
		return nil
	}
	path, err := util.JoinWithin(s.Dir, f.Filename)
	if err != nil {
		return nil
	}
	err = os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}

// InlineStorage returns uploads as base64 data URLs. Nothing is kept after
// the request, which suits read-only serverless filesystems.
type InlineStorage struct {
	TempDir string
	Now     Clock
}

// NewInlineStorage creates an InlineStorage spooling into the system temp dir.
func NewInlineStorage() *InlineStorage {
	return &InlineStorage{TempDir: os.TempDir(), Now: time.Now}
}

// Save implements MediaStorage.
func (s *InlineStorage) Save(_ context.Context, r io.Reader, originalName, mimeType string) (*StoredFile, error) {
	if err := ValidateMimeType(mimeType); err != nil {
		return nil, err
	}

	tmpPath, size, err := spool(r, s.TempDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(tmpPath) }()

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	return &StoredFile{
		URL:      "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
		Filename: uniqueFilename(s.Now(), originalName),
		Size:     size,
		MimeType: mimeType,
	}, nil
}

// Remove implements MediaStorage. Inline uploads are never stored.
func (s *InlineStorage) Remove(context.Context, *StoredFile) error {
	return nil
}

// spool copies at most MaxUploadSize bytes from r into a temp file in dir.
// Oversized or failed uploads are removed before returning.
func spool(r io.Reader, dir string) (string, int64, error) {
	f, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", 0, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()

	n, copyErr := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("writing upload: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("writing upload: %w", closeErr)
	case n > MaxUploadSize:
		_ = os.Remove(path)
		return "", 0, ErrFileTooLarge
	}
	return path, n, nil
}

var extPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)

// uniqueFilename builds "<unix millis>-<random><ext>" keeping only a plain
// extension from the client's filename.
func uniqueFilename(now time.Time, originalName string) string {
	ext := filepath.Ext(filepath.Base(originalName))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("%d-%d%s", now.UnixMilli(), rand.Int64N(1_000_000_001), ext)
}

// SweepTempFiles removes partially written uploads in dir older than maxAge.
func SweepTempFiles(dir string, maxAge time.Duration, now time.Time) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, tempPattern))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed, nil
}
