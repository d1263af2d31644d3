package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"postforge/internal/catalog"
	"postforge/internal/core"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if err := s.store.Ping(r.Context()); err != nil {
		checks["database"] = "error"
		s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Checks: checks,
	})
}

// handleListModels handles GET /api/models.
func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"models":  catalog.Models(),
		"default": catalog.DefaultModelID,
	})
}

// handleListSchemas handles GET /api/schemas.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"schemas": catalog.Schemas(),
	})
}

// handleGetProfile handles GET /api/profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfile(r.Context(), userID(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, profile)
}

// handleSaveProfile handles POST /api/profile.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var profile core.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	profile.UserID = userID(r)

	if err := s.store.SaveProfile(r.Context(), profile); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

type saveKeyRequest struct {
	Provider string `json:"provider"`
	Key      string `json:"key"`
}

// handleListKeys handles GET /api/keys. Only provider names are returned;
// key values never leave the store.
func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	providers, err := s.store.ListAPIKeyProviders(r.Context(), userID(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"providers": providers})
}

// handleSaveKey handles POST /api/keys.
func (s *Server) handleSaveKey(w http.ResponseWriter, r *http.Request) {
	var req saveKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !catalog.ValidProvider(req.Provider) {
		s.respondError(w, http.StatusBadRequest, "unknown provider: "+req.Provider)
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		s.respondError(w, http.StatusBadRequest, "key must not be empty")
		return
	}

	if err := s.store.SaveAPIKey(r.Context(), userID(r), req.Provider, req.Key); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

type saveLinksRequest struct {
	URLs []string `json:"urls"`
}

// handleListLinks handles GET /api/links.
func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	urls, err := s.store.ListReferenceLinks(r.Context(), userID(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if urls == nil {
		urls = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"urls": urls})
}

// handleSaveLinks handles POST /api/links. The posted set replaces the
// stored set wholesale.
func (s *Server) handleSaveLinks(w http.ResponseWriter, r *http.Request) {
	var req saveLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.store.ReplaceReferenceLinks(r.Context(), userID(r), req.URLs); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a JSON error body.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}

// respondStoreError maps a storage error to a status code.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrProfileNotFound),
		errors.Is(err, core.ErrTopicNotFound),
		errors.Is(err, core.ErrPostNotFound),
		errors.Is(err, core.ErrShareNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("storage error", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}
