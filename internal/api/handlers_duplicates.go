package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/dedup"
	"github.com/sells-group/permit-registry/internal/model"
)

func (s *Server) handleListDuplicates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := model.DuplicateStatusPending
	if v := q.Get("status"); v != "" {
		switch model.DuplicateStatus(v) {
		case model.DuplicateStatusPending, model.DuplicateStatusMerged,
			model.DuplicateStatusRejected, model.DuplicateStatusReviewed:
			status = model.DuplicateStatus(v)
		default:
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	pairs, err := s.store.ListDuplicatePairs(r.Context(), status, limit)
	if err != nil {
		s.serverError(w, "list duplicates failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"count":      len(pairs),
		"duplicates": pairs,
	})
}

func (s *Server) handleResolveDuplicate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid pair id")
		return
	}

	var res dedup.Resolution
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := dedup.Resolve(r.Context(), s.pool, id, res)
	if err != nil {
		switch {
		case eris.Is(err, dedup.ErrPairNotFound):
			writeError(w, http.StatusNotFound, "duplicate pair not found")
		case eris.Is(err, dedup.ErrAlreadyResolved):
			writeError(w, http.StatusConflict, err.Error())
		case eris.Is(err, dedup.ErrCanonicalNotInPair), eris.Is(err, dedup.ErrUnknownAction):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.serverError(w, "resolve duplicate failed", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
