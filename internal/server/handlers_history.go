package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/claude/ironledger/internal/models"
	"github.com/go-chi/chi/v5"
)

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	var filter *models.WorkoutType
	if v := r.URL.Query().Get("type"); v != "" {
		t, err := models.ParseWorkoutType(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		filter = &t
	}

	sessions := s.store.History(filter)
	if limit := queryInt(r, "limit", 0); limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleHistorySession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	session, err := s.store.Session(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":     session,
		"new_records": s.store.NewRecords(id),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	text, err := s.store.Summary(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, text)
}

func (s *Server) handleExerciseNames(w http.ResponseWriter, r *http.Request) {
	names := s.store.ExerciseNames()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	entries := s.store.ExerciseHistory(name)
	if limit := queryInt(r, "limit", 0); limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"exercise": name,
		"entries":  entries,
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if top := queryInt(r, "top", 0); top > 0 {
		writeJSON(w, http.StatusOK, s.store.TopRecords(top))
		return
	}
	writeJSON(w, http.StatusOK, s.store.Records())
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Templates())
}
