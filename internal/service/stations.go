package service

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/iradio/internal/domain"
)

// StationRegistry owns the immutable station catalog and the mutable set of
// stations searches are restricted to. Display indices are 1-based catalog
// positions; the active set keeps insertion order.
type StationRegistry struct {
	catalog []domain.Station
	byName  map[string]int // name -> catalog position
	names   []string
	active  []int // catalog positions, insertion order
	logger  *slog.Logger
}

// NewStationRegistry builds the catalog and seeds the active set with the
// named defaults. Default names that match no station are logged and skipped.
func NewStationRegistry(catalog []domain.Station, defaults []string, logger *slog.Logger) (*StationRegistry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := &StationRegistry{
		catalog: make([]domain.Station, len(catalog)),
		byName:  make(map[string]int, len(catalog)),
		names:   make([]string, len(catalog)),
		logger:  logger,
	}
	copy(r.catalog, catalog)

	for i, s := range r.catalog {
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateStation, s.Name)
		}
		r.byName[s.Name] = i
		r.names[i] = s.Name
	}

	for _, name := range defaults {
		pos, err := r.Lookup(name)
		if err != nil {
			logger.Warn("default station skipped", "name", name, "error", err)
			continue
		}
		if !r.isActive(pos) {
			r.active = append(r.active, pos)
		}
	}

	return r, nil
}

// Len returns the catalog size
func (r *StationRegistry) Len() int { return len(r.catalog) }

// Catalog returns the stations in display order
func (r *StationRegistry) Catalog() []domain.Station {
	out := make([]domain.Station, len(r.catalog))
	copy(out, r.catalog)
	return out
}

// Lookup resolves a station name to its catalog position. Exact names win;
// otherwise the closest accent- and case-insensitive fuzzy match is used.
func (r *StationRegistry) Lookup(name string) (int, error) {
	if pos, ok := r.byName[name]; ok {
		return pos, nil
	}

	ranks := fuzzy.RankFindNormalizedFold(name, r.names)
	if len(ranks) == 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownStation, name)
	}
	sort.Stable(ranks)
	best := ranks[0]

	r.logger.Debug("station resolved by fuzzy match", "name", name, "station", best.Target, "distance", best.Distance)
	return best.OriginalIndex, nil
}

// IsActive reports whether the station at the 1-based display index is searched
func (r *StationRegistry) IsActive(displayIndex int) bool {
	pos := displayIndex - 1
	return pos >= 0 && pos < len(r.catalog) && r.isActive(pos)
}

// Toggle flips membership of the station at the 1-based display index in the
// active set and reports whether it is now active
func (r *StationRegistry) Toggle(displayIndex int) (domain.Station, bool, error) {
	pos := displayIndex - 1
	if pos < 0 || pos >= len(r.catalog) {
		return domain.Station{}, false, &domain.IndexOutOfRangeError{Index: displayIndex, Max: len(r.catalog)}
	}

	station := r.catalog[pos]
	for i, p := range r.active {
		if p == pos {
			r.active = append(r.active[:i], r.active[i+1:]...)
			r.logger.Debug("station deactivated", "station", station.Name)
			return station, false, nil
		}
	}

	r.active = append(r.active, pos)
	r.logger.Debug("station activated", "station", station.Name)
	return station, true, nil
}

// Active returns the active stations in the order they were activated
func (r *StationRegistry) Active() []domain.Station {
	out := make([]domain.Station, len(r.active))
	for i, pos := range r.active {
		out[i] = r.catalog[pos]
	}
	return out
}

func (r *StationRegistry) isActive(pos int) bool {
	for _, p := range r.active {
		if p == pos {
			return true
		}
	}
	return false
}
