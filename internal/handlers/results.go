package handlers

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jjenkins/nichefinder/internal/model"
	"github.com/jjenkins/nichefinder/internal/service"
)

// recentResultsLimit bounds how many searches stay downloadable
const recentResultsLimit = 64

type videoResult struct {
	query   service.VideoQuery
	records []model.VideoRecord
}

// recentResults keeps the latest rendered searches so a CSV download
// exports the rows on screen instead of querying YouTube again. The oldest
// entry is evicted first.
type recentResults struct {
	mu      sync.Mutex
	limit   int
	order   []string
	entries map[string]videoResult
}

func newRecentResults(limit int) *recentResults {
	return &recentResults{
		limit:   limit,
		entries: make(map[string]videoResult, limit),
	}
}

func (r *recentResults) put(q service.VideoQuery, records []model.VideoRecord) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) >= r.limit {
		delete(r.entries, r.order[0])
		r.order = r.order[1:]
	}
	r.order = append(r.order, id)
	r.entries[id] = videoResult{query: q, records: records}
	return id
}

func (r *recentResults) get(id string) (videoResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.entries[id]
	return res, ok
}
