package api

import (
	"net/http"
)

func (s *Server) handleListStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.store.ListStates(r.Context())
	if err != nil {
		s.serverError(w, "list states failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"states": states})
}

func (s *Server) handleListCounties(w http.ResponseWriter, r *http.Request) {
	var codes []string
	if v := r.URL.Query().Get("state_code"); v != "" {
		codes = splitList(v)
	}
	counties, err := s.store.ListCountiesByState(r.Context(), codes)
	if err != nil {
		s.serverError(w, "list counties failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"counties": counties})
}

func (s *Server) handleListSystemTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.store.ListSystemTypes(r.Context())
	if err != nil {
		s.serverError(w, "list system types failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"system_types": types})
}

func (s *Server) handleListPortals(w http.ResponseWriter, r *http.Request) {
	portals, err := s.store.ListPortals(r.Context())
	if err != nil {
		s.serverError(w, "list portals failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"portals": portals})
}
