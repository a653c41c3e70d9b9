package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/permit-registry/internal/ingest"
	"github.com/sells-group/permit-registry/internal/model"
	"github.com/sells-group/permit-registry/internal/search"
)

func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	params, err := searchParamsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.runSearch(w, r, params)
}

func (s *Server) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	var params search.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.runSearch(w, r, &params)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, params *search.Params) {
	if err := params.Normalize(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := search.Execute(r.Context(), s.pool, params)
	if err != nil {
		s.serverError(w, "search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	permitNumber := strings.TrimSpace(r.URL.Query().Get("permit_number"))
	stateCode := strings.TrimSpace(r.URL.Query().Get("state_code"))
	if permitNumber == "" || stateCode == "" {
		writeError(w, http.StatusBadRequest, "permit_number and state_code are required")
		return
	}

	permit, err := s.store.LookupPermit(r.Context(), permitNumber, stateCode)
	if err != nil {
		s.serverError(w, "lookup failed", err)
		return
	}
	if permit == nil {
		writeError(w, http.StatusNotFound, "permit not found")
		return
	}
	writeJSON(w, http.StatusOK, permit)
}

func (s *Server) handleGetPermit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid permit id")
		return
	}

	detail, err := s.store.GetPermitDetail(r.Context(), id)
	if err != nil {
		s.serverError(w, "get permit failed", err)
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, "permit not found")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid permit id")
		return
	}

	permit, err := s.store.GetPermit(r.Context(), id)
	if err != nil {
		s.serverError(w, "get permit failed", err)
		return
	}
	if permit == nil {
		writeError(w, http.StatusNotFound, "permit not found")
		return
	}

	versions, err := s.store.ListVersions(r.Context(), id)
	if err != nil {
		s.serverError(w, "list versions failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"permit_id":       permit.ID,
		"current_version": permit.Version,
		"versions":        versions,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := search.GetStats(r.Context(), s.pool)
	if err != nil {
		s.serverError(w, "stats failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type batchRequest struct {
	SourcePortalCode string               `json:"source_portal_code"`
	Permits          []model.PermitRecord `json:"permits"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.SourcePortalCode) == "" {
		writeError(w, http.StatusBadRequest, "source_portal_code is required")
		return
	}
	if len(req.Permits) == 0 {
		writeError(w, http.StatusBadRequest, "permits must not be empty")
		return
	}

	stats, err := s.engine.IngestBatch(r.Context(), req.SourcePortalCode, req.Permits)
	if err != nil {
		if eris.Is(err, ingest.ErrBatchTooLarge) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.serverError(w, "batch ingest failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// searchParamsFromQuery maps GET query parameters onto the same shape the
// POST body takes. List parameters are comma separated.
func searchParamsFromQuery(r *http.Request) (*search.Params, error) {
	q := r.URL.Query()
	p := &search.Params{
		Query:     q.Get("query"),
		City:      q.Get("city"),
		ZipCode:   q.Get("zip_code"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if v := q.Get("state_codes"); v != "" {
		p.StateCodes = splitList(v)
	}
	var err error
	if p.CountyIDs, err = intList(q.Get("county_ids")); err != nil {
		return nil, eris.New("county_ids must be integers")
	}
	if p.SystemTypeIDs, err = intList(q.Get("system_type_ids")); err != nil {
		return nil, eris.New("system_type_ids must be integers")
	}

	dates := map[string]**time.Time{
		"permit_date_from":  &p.PermitDateFrom,
		"permit_date_to":    &p.PermitDateTo,
		"install_date_from": &p.InstallDateFrom,
		"install_date_to":   &p.InstallDateTo,
	}
	for name, dest := range dates {
		v := q.Get(name)
		if v == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, eris.Errorf("%s must be YYYY-MM-DD", name)
		}
		*dest = &t
	}

	floats := map[string]**float64{
		"latitude":     &p.Latitude,
		"longitude":    &p.Longitude,
		"radius_miles": &p.RadiusMiles,
	}
	for name, dest := range floats {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, eris.Errorf("%s must be a number", name)
		}
		*dest = &f
	}

	ints := map[string]*int{
		"page":      &p.Page,
		"page_size": &p.PageSize,
	}
	for name, dest := range ints {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, eris.Errorf("%s must be an integer", name)
		}
		*dest = n
	}

	if v := q.Get("include_inactive"); v != "" {
		p.IncludeInactive = v == "true" || v == "1"
	}

	return p, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intList(v string) ([]int, error) {
	if v == "" {
		return nil, nil
	}
	var out []int
	for _, p := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
