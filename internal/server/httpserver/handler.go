package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
)

// DefaultMaxUploadBytes caps the multipart body of POST /upload.
const DefaultMaxUploadBytes int64 = 10 << 20

// multipartMemory is how much of a form is kept in memory before spilling
// file parts to disk.
const multipartMemory = 8 << 20

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleGallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := s.gallery.BuildGallery(ctx)
	if err != nil {
		s.logger.Error(ctx, "gallery request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeData(w, http.StatusOK, items)
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, common.ErrNoFileProvided.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, common.ErrNoFileProvided.Error())
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u := &models.Upload{
		FileName:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Payload:     payload,
	}
	if c := r.FormValue("caption"); c != "" {
		u.Caption = &c
	}

	res, err := s.uploads.AcceptUpload(ctx, u)
	if err != nil {
		status := uploadErrorStatus(err)
		s.logger.Warn(ctx, "upload rejected", "file", hdr.Filename, "status", status, "error", err)
		writeError(w, status, err.Error())
		return
	}

	writeData(w, http.StatusCreated, res)
}

func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrNoFileProvided):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUploadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
