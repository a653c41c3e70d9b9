// Package refdata resolves free-text state, county, system-type, and
// source-portal values to stable reference IDs, creating counties and
// portals on first sight.
package refdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/permit-registry/internal/model"
	"github.com/sells-group/permit-registry/internal/normalize"
	"github.com/sells-group/permit-registry/internal/store"
)

// ErrUnknownState marks a state code or name that is not in the seeded
// set. States are never auto-created.
var ErrUnknownState = eris.New("refdata: unknown state")

// Cache holds resolved reference IDs for one ingestion run. It is passed
// explicitly per batch and never shared across runs; the rows it caches
// are immutable once created, so there is nothing to invalidate.
type Cache struct {
	states      map[string]int
	counties    map[string]int
	systemTypes map[string]int
	portals     map[string]int
	typeList    []model.SystemType
	typesLoaded bool
}

// NewCache creates an empty per-batch cache.
func NewCache() *Cache {
	return &Cache{
		states:      make(map[string]int),
		counties:    make(map[string]int),
		systemTypes: make(map[string]int),
		portals:     make(map[string]int),
	}
}

// Resolver translates raw reference values into IDs through a store,
// memoizing results in its cache.
type Resolver struct {
	store *store.Store
	cache *Cache
}

// NewResolver binds a resolver to a store and a per-batch cache.
func NewResolver(s *store.Store, c *Cache) *Resolver {
	if c == nil {
		c = NewCache()
	}
	return &Resolver{store: s, cache: c}
}

// WithStore returns a resolver on a different query surface (e.g. a
// record-level savepoint) sharing the same cache.
func (r *Resolver) WithStore(s *store.Store) *Resolver {
	return &Resolver{store: s, cache: r.cache}
}

// State resolves a state code or name to its ID. Unknown states return
// ErrUnknownState.
func (r *Resolver) State(ctx context.Context, raw string) (int, error) {
	code := normalize.State(raw)
	if code == "" {
		return 0, eris.Wrapf(ErrUnknownState, "%q", raw)
	}

	if id, ok := r.cache.states[code]; ok {
		return id, nil
	}

	st, err := r.store.GetStateByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if st == nil {
		return 0, eris.Wrapf(ErrUnknownState, "%q", raw)
	}

	r.cache.states[code] = st.ID
	return st.ID, nil
}

// County resolves a county name within a state, creating the county on
// first sight with the raw name preserved. Blank input resolves to nil.
func (r *Resolver) County(ctx context.Context, stateID int, raw string) (*int, error) {
	name := normalize.County(raw)
	if name == "" {
		return nil, nil
	}

	key := fmt.Sprintf("%d:%s", stateID, name)
	if id, ok := r.cache.counties[key]; ok {
		return &id, nil
	}

	c, err := r.store.GetCountyByKey(ctx, stateID, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &model.County{
			StateID:        stateID,
			Name:           strings.TrimSpace(raw),
			NormalizedName: name,
		}
		if err := r.store.CreateCounty(ctx, c); err != nil {
			return nil, err
		}
	}

	r.cache.counties[key] = c.ID
	return &c.ID, nil
}

// SystemType resolves a raw system-type string: exact code match first,
// then substring match against type names, then the UNKNOWN sentinel.
// Blank input resolves to nil.
func (r *Resolver) SystemType(ctx context.Context, raw string) (*int, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return nil, nil
	}

	if id, ok := r.cache.systemTypes[s]; ok {
		return &id, nil
	}

	if !r.cache.typesLoaded {
		types, err := r.store.ListSystemTypes(ctx)
		if err != nil {
			return nil, err
		}
		r.cache.typeList = types
		r.cache.typesLoaded = true
	}

	var unknownID *int
	for i := range r.cache.typeList {
		t := &r.cache.typeList[i]
		if t.Code == s {
			r.cache.systemTypes[s] = t.ID
			return &t.ID, nil
		}
		if t.Code == model.SystemTypeUnknownCode {
			unknownID = &t.ID
		}
	}

	for i := range r.cache.typeList {
		t := &r.cache.typeList[i]
		name := strings.ToUpper(t.Name)
		if strings.Contains(name, s) || strings.Contains(s, name) {
			r.cache.systemTypes[s] = t.ID
			return &t.ID, nil
		}
	}

	if unknownID == nil {
		return nil, eris.New("refdata: UNKNOWN system type not seeded")
	}
	r.cache.systemTypes[s] = *unknownID
	return unknownID, nil
}

var titleCaser = cases.Title(language.AmericanEnglish)

// PortalName derives a display name from a portal code: underscores to
// spaces, title-cased.
func PortalName(code string) string {
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(code), "_", " "))
}

// Portal resolves a source portal by code, creating it on first sight.
func (r *Resolver) Portal(ctx context.Context, code string) (int, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, eris.New("refdata: empty portal code")
	}

	if id, ok := r.cache.portals[code]; ok {
		return id, nil
	}

	p, err := r.store.GetPortalByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if p == nil {
		p = &model.SourcePortal{Code: code, Name: PortalName(code)}
		if err := r.store.CreatePortal(ctx, p); err != nil {
			return 0, err
		}
	}

	r.cache.portals[code] = p.ID
	return p.ID, nil
}
