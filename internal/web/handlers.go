package web

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/onboard/internal/core"
)

// uploadAccepted is the 200 response for a committed batch.
type uploadAccepted struct {
	Status         string            `json:"status"`
	Message        string            `json:"message"`
	OnboardedUsers []core.UserRecord `json:"onboardedUsers"`
	LogFile        string            `json:"logFile"`
}

// uploadRejected is the 409 response for a batch with duplicate emails.
type uploadRejected struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	Duplicates []string `json:"duplicates"`
}

// handleUpload ingests one CSV file: the batch is accepted or rejected as a
// unit, and nothing is persisted on rejection.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, fmt.Errorf("parsing multipart form: %w", err), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	outcome, err := s.service.Upload(r.Context(), file)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if outcome.Result.Rejected() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		writeJSON(w, uploadRejected{
			Status:     "error",
			Message:    "Duplicate emails found. Upload failed.",
			Duplicates: outcome.Result.Conflicts,
		})
		return
	}

	summary := outcome.Summary
	writeJSON(w, uploadAccepted{
		Status:         "success",
		Message:        fmt.Sprintf("Successfully onboarded %d user(s).", summary.RowsCommitted),
		OnboardedUsers: summary.Rows,
		LogFile:        filepath.Base(s.cfg.Store.LogsDir) + "/" + summary.ArtifactID,
	})
}

// handleListUsers returns the current collection in insertion order.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.Users(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string][]core.UserRecord{"users": users})
}

// handleReset clears the users collection. Idempotent.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reset(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{
		"status":  "success",
		"message": "Database reset complete.",
	})
}

// handleAuditList returns audit artifact identifiers, newest first.
func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.service.AuditIDs(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string][]string{"artifacts": ids})
}

// handleAuditEntry returns one audit artifact.
func (s *Server) handleAuditEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "artifactID")

	rec, err := s.service.AuditEntry(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrArtifactNotFound) {
			status = http.StatusNotFound
		}
		s.respondError(w, r, err, status)
		return
	}
	writeJSON(w, rec)
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
