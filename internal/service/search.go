package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/iradio/internal/domain"
	"github.com/sahilm/fuzzy"
)

// SearchService runs archive searches and local lookups within their results
type SearchService struct {
	client domain.SearchClient
	logger *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(client domain.SearchClient, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		client: client,
		logger: logger,
	}
}

// Search queries the archive within stations. Any failure is reported as
// domain.ErrSearchTransport.
func (s *SearchService) Search(ctx context.Context, text string, stations []domain.Station) (domain.ResultSet, error) {
	s.logger.Debug("searching", "query", text, "stations", len(stations))

	broadcasts, err := s.client.Search(ctx, text, stations)
	if err != nil {
		s.logger.Warn("search failed", "query", text, "error", err)
		if !errors.Is(err, domain.ErrSearchTransport) {
			err = fmt.Errorf("%w: %w", domain.ErrSearchTransport, err)
		}
		return domain.ResultSet{}, err
	}

	return domain.NewResultSet(broadcasts), nil
}

// Match is a broadcast of a result set matching a Find pattern
type Match struct {
	DisplayIndex   int // 1-based position in the result set
	Broadcast      domain.Broadcast
	MatchedIndexes []int
}

// titleIndex implements sahilm/fuzzy.Source over lowercased titles
type titleIndex []string

func (t titleIndex) String(i int) string { return t[i] }
func (t titleIndex) Len() int            { return len(t) }

// Find fuzzy-matches pattern against the titles of results, best match first.
// The result set itself is left untouched, so display indices stay selectable.
func (s *SearchService) Find(results domain.ResultSet, pattern string) []Match {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" || results.Empty() {
		return nil
	}

	titles := results.Titles()
	index := make(titleIndex, len(titles))
	for i, t := range titles {
		index[i] = strings.ToLower(t)
	}

	found := fuzzy.FindFrom(pattern, index)
	matches := make([]Match, len(found))
	for i, m := range found {
		b, _ := results.At(m.Index)
		matches[i] = Match{
			DisplayIndex:   m.Index + 1,
			Broadcast:      b,
			MatchedIndexes: m.MatchedIndexes,
		}
	}
	return matches
}
