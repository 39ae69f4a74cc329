package rdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yaegashi/kompoxwl/domain"
	"github.com/yaegashi/kompoxwl/domain/model"
)

// ReleaseRepository is a GORM-backed implementation of domain.ReleaseRepository.
type ReleaseRepository struct {
	db *gorm.DB
}

func NewReleaseRepository(db *gorm.DB) *ReleaseRepository {
	return &ReleaseRepository{db: db}
}

func toRecord(r *model.Release) *ReleaseRecord {
	return &ReleaseRecord{
		ID:        r.ID,
		Workload:  r.Workload,
		Namespace: r.Namespace,
		Hash:      r.Hash,
		Manifest:  r.Manifest,
		CreatedAt: r.CreatedAt,
	}
}

func toModel(r *ReleaseRecord) *model.Release {
	return &model.Release{
		ID:        r.ID,
		Workload:  r.Workload,
		Namespace: r.Namespace,
		Hash:      r.Hash,
		Manifest:  r.Manifest,
		CreatedAt: r.CreatedAt,
	}
}

func (r *ReleaseRepository) Create(ctx context.Context, rel *model.Release) error {
	rec := toRecord(rel)
	if rec.ID == "" {
		rec.ID = "rel-" + uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}
	// GORM fills CreatedAt when zero.
	rel.ID = rec.ID
	rel.CreatedAt = rec.CreatedAt
	return nil
}

func (r *ReleaseRepository) Get(ctx context.Context, id string) (*model.Release, error) {
	var rec ReleaseRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", model.ErrReleaseNotFound, id)
		}
		return nil, err
	}
	return toModel(&rec), nil
}

func (r *ReleaseRepository) List(ctx context.Context, workload string) ([]*model.Release, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if workload != "" {
		q = q.Where("workload = ?", workload)
	}
	var recs []ReleaseRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Release, 0, len(recs))
	for i := range recs {
		out = append(out, toModel(&recs[i]))
	}
	return out, nil
}

// Ensure interface satisfaction.
var _ domain.ReleaseRepository = (*ReleaseRepository)(nil)
