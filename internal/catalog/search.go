package catalog

import (
	"context"
	"io"
	"log/slog"

	"github.com/biteroute/storefront/internal/api"
)

// Searcher runs catalog searches through the backend client.
type Searcher struct {
	backend *api.Client
	log     *slog.Logger
}

// NewSearcher creates a Searcher. A nil logger discards diagnostics.
func NewSearcher(backend *api.Client, log *slog.Logger) *Searcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Searcher{backend: backend, log: log}
}

// Search validates the query against the selected category and, if it
// passes, queries the backend.
//
// A category mismatch returns a *MismatchError with no request issued.
// Backend or decode failures degrade to an empty result set - the caller
// shows "not found", never an error.
func (s *Searcher) Search(ctx context.Context, category, food, location string) ([]api.FoodResult, error) {
	if err := CheckCategory(category, food); err != nil {
		return nil, err
	}

	results, err := s.backend.SearchFood(ctx, category, food, location)
	if err != nil {
		s.log.Warn("catalog search degraded to empty", "error", err)
		return []api.FoodResult{}, nil
	}
	if results == nil {
		results = []api.FoodResult{}
	}
	return results, nil
}
