package api

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleServeImage serves a stored image by filename. Registered directly on
// the chi router: binary responses bypass huma and the envelope.
func (s *Server) handleServeImage(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")

	id, ok := strings.CutSuffix(file, ".jpg")
	if !ok || id == "" || strings.ContainsAny(id, "/\\.") {
		http.NotFound(w, r)
		return
	}

	data, err := s.storage.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Stored images never change under an ID, so the ETag is stable.
	etag := fmt.Sprintf(`"%x"`, sha256.Sum256(data))
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("ETag", etag)
	if _, err := w.Write(data); err != nil && s.logger != nil {
		s.logger.Warn("Failed to write image response", "error", err)
	}
}
