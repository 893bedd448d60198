package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/paularlott/neollm/internal/storage"
)

const maxBodyBytes = 10 << 20

type saveConfigRequest struct {
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}

// HandleSaveConfig writes the posted content to {name}.json in the config directory.
func (s *Server) HandleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req saveConfigRequest
	if err := readJSON(w, r, &req); err != nil {
		s.logger.WithError(err).Warn("failed to parse save request")
		writeError(w, http.StatusBadRequest, "Missing name or content")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || emptyContent(req.Content) {
		writeError(w, http.StatusBadRequest, "Missing name or content")
		return
	}
	if _, err := storage.CleanName(name); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid config name")
		return
	}

	path, err := s.configs.Save(r.Context(), name, req.Content)
	if err != nil {
		s.logger.WithError(err).Error("failed to save config", "name", name)
		writeError(w, http.StatusInternalServerError, "Failed to save config")
		return
	}

	if err := s.history.Record(r.Context(), storage.NewRevision(name, req.Content)); err != nil {
		// The config itself is saved; a missing history entry is not fatal
		s.logger.WithError(err).Warn("failed to record revision", "name", name)
	}

	s.logger.Info("config saved", "name", name, "path", path)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Saved to " + path,
	})
}

func (s *Server) HandleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.configs.List(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to list configs")
		writeError(w, http.StatusInternalServerError, "Failed to list configs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"configs": configs})
}

func (s *Server) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	name, ok := pathName(w, r)
	if !ok {
		return
	}

	data, err := s.configs.Load(r.Context(), name)
	if errors.Is(err, storage.ErrConfigNotFound) {
		writeError(w, http.StatusNotFound, "Config not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to load config", "name", name)
		writeError(w, http.StatusInternalServerError, "Failed to load config")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	name, ok := pathName(w, r)
	if !ok {
		return
	}

	limit := s.historyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	revisions, err := s.history.List(r.Context(), name, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to list revisions", "name", name)
		writeError(w, http.StatusInternalServerError, "Failed to list revisions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"revisions": revisions})
}

func (s *Server) HandleRevision(w http.ResponseWriter, r *http.Request) {
	name, ok := pathName(w, r)
	if !ok {
		return
	}

	rev, err := s.history.Get(r.Context(), name, r.PathValue("id"))
	if errors.Is(err, storage.ErrRevisionNotFound) {
		writeError(w, http.StatusNotFound, "Revision not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to load revision", "name", name)
		writeError(w, http.StatusInternalServerError, "Failed to load revision")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(rev.Content)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	configs, err := s.configs.List(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"configs": len(configs),
	})
}

func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "neollm",
		"version": s.version,
	})
}

// emptyContent matches the JSON values a client would send for "no content".
func emptyContent(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}

func pathName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := storage.CleanName(r.PathValue("name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid config name")
		return "", false
	}
	return name, true
}

// Helper functions for JSON handling
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
