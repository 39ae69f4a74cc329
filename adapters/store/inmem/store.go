package inmem

import "github.com/yaegashi/kompoxwl/domain"

// Store groups the in-memory repositories.
type Store struct {
	ReleaseRepo *ReleaseRepository
}

// NewStore creates a new in-memory store with all repositories.
func NewStore() *Store {
	return &Store{
		ReleaseRepo: NewReleaseRepository(),
	}
}

// Repositories exposes the store through the domain interfaces.
func (s *Store) Repositories() *domain.Repositories {
	return &domain.Repositories{Release: s.ReleaseRepo}
}
