// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the plain HTTP endpoints served next to the RPC
// surface: image uploads and health checks.
package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/middleware"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
)

// uploadFieldName is the multipart field carrying the file.
const uploadFieldName = "file"

// maxMultipartOverhead is allowed on top of the file size for part headers
// and other form fields.
const maxMultipartOverhead = 1 << 20

// UploadHandler handles image uploads.
type UploadHandler struct {
	storage service.MediaStorage
	events  *service.EventService
	logger  *slog.Logger
}

// NewUploadHandler creates a new UploadHandler. events may be nil.
func NewUploadHandler(storage service.MediaStorage, events *service.EventService, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{storage: storage, events: events, logger: logger}
}

// Upload handles POST /api/upload. The body is streamed part by part so the
// file is never held in memory.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+maxMultipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		h.reject(w, service.ErrNoFile)
		return
	}

	var stored *service.StoredFile
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.discard(r, stored)
			h.fail(w, err)
			return
		}

		// Plain form fields are ignored.
		if part.FileName() == "" {
			_ = part.Close()
			continue
		}
		if part.FormName() != uploadFieldName || stored != nil {
			_ = part.Close()
			h.discard(r, stored)
			h.reject(w, service.ErrUnexpectedField)
			return
		}

		stored, err = h.storage.Save(r.Context(), part, part.FileName(), part.Header.Get("Content-Type"))
		_ = part.Close()
		if err != nil {
			h.fail(w, err)
			return
		}
	}

	if stored == nil {
		h.reject(w, service.ErrNoFile)
		return
	}

	user := middleware.GetUser(r)
	h.logger.Info("file uploaded", "filename", stored.Filename, "size", stored.Size, "mimetype", stored.MimeType)
	if h.events != nil && user != nil {
		_ = h.events.LogInfo(r.Context(), model.EventCategoryUpload, "File uploaded", map[string]string{
			"filename": stored.Filename,
			"user":     user.Email,
			"ip":       middleware.ClientIP(r),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, stored)
}

// fail classifies an error raised while reading or storing the upload.
func (h *UploadHandler) fail(w http.ResponseWriter, err error) {
	var uploadErr *service.UploadError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &uploadErr):
		h.reject(w, uploadErr)
	case errors.As(err, &tooLarge):
		h.reject(w, service.ErrFileTooLarge)
	default:
		h.logger.Error("upload failed", "error", err)
		middleware.WriteJSONError(w, http.StatusInternalServerError, "Upload failed")
	}
}

func (h *UploadHandler) reject(w http.ResponseWriter, err *service.UploadError) {
	h.logger.Warn("upload rejected", "reason", err.Message)
	middleware.WriteJSONError(w, http.StatusBadRequest, err.Message)
}

// discard removes a file saved earlier in a request that is being rejected.
func (h *UploadHandler) discard(r *http.Request, f *service.StoredFile) {
	if f == nil {
		return
	}
	if err := h.storage.Remove(r.Context(), f); err != nil {
		h.logger.Warn("failed to remove rejected upload", "filename", f.Filename, "error", err)
	}
}
