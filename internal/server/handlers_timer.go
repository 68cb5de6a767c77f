package server

import (
	"net/http"
)

type extendRequest struct {
	Seconds *int `json:"seconds"`
}

// handleGetTimer re-reads the wall clock; a client resuming from the
// background gets the true remaining time.
func (s *Server) handleGetTimer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rest.Snapshot())
}

func (s *Server) handleExtendTimer(w http.ResponseWriter, r *http.Request) {
	var req extendRequest
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}
	delta := seconds(req.Seconds, s.extendBy)
	if delta <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seconds must be positive"})
		return
	}
	if !s.rest.Extend(delta) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no rest timer running"})
		return
	}
	writeJSON(w, http.StatusOK, s.rest.Snapshot())
}

func (s *Server) handleDismissTimer(w http.ResponseWriter, r *http.Request) {
	s.rest.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
