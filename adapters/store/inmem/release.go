package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yaegashi/kompoxwl/domain"
	"github.com/yaegashi/kompoxwl/domain/model"
)

// ReleaseRepository is a thread-safe in-memory implementation.
// Insertion order is kept so that List returns oldest first.
type ReleaseRepository struct {
	mu       sync.RWMutex
	releases map[string]*model.Release
	order    []string
}

func NewReleaseRepository() *ReleaseRepository {
	return &ReleaseRepository{
		releases: make(map[string]*model.Release),
	}
}

func (r *ReleaseRepository) Create(_ context.Context, rel *model.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rel.ID == "" {
		rel.ID = "rel-" + uuid.NewString()
	}
	if _, dup := r.releases[rel.ID]; dup {
		return fmt.Errorf("release %q already exists", rel.ID)
	}
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = time.Now().UTC()
	}
	// Copy to avoid external mutation.
	cp := *rel
	r.releases[rel.ID] = &cp
	r.order = append(r.order, rel.ID)
	return nil
}

func (r *ReleaseRepository) Get(_ context.Context, id string) (*model.Release, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rel, ok := r.releases[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrReleaseNotFound, id)
	}
	cp := *rel
	return &cp, nil
}

func (r *ReleaseRepository) List(_ context.Context, workload string) ([]*model.Release, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Release, 0, len(r.order))
	for _, id := range r.order {
		rel := r.releases[id]
		if workload != "" && rel.Workload != workload {
			continue
		}
		cp := *rel
		out = append(out, &cp)
	}
	return out, nil
}

// Compile-time assertion.
var _ domain.ReleaseRepository = (*ReleaseRepository)(nil)
