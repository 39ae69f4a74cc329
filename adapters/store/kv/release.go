package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/yaegashi/kompoxwl/domain"
	"github.com/yaegashi/kompoxwl/domain/model"
)

// releaseRecord is the JSON value stored under <prefix>:release:<id>.
type releaseRecord struct {
	ID        string    `json:"id"`
	Workload  string    `json:"workload"`
	Namespace string    `json:"namespace,omitempty"`
	Hash      string    `json:"hash"`
	Manifest  string    `json:"manifest"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReleaseRepository keeps each release as a JSON string and indexes IDs in
// sorted sets scored by creation time, one global and one per workload.
type ReleaseRepository struct {
	client *redis.Client
	prefix string
}

func NewReleaseRepository(client *redis.Client, prefix string) *ReleaseRepository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ReleaseRepository{client: client, prefix: prefix}
}

func (r *ReleaseRepository) releaseKey(id string) string { return r.prefix + ":release:" + id }

func (r *ReleaseRepository) indexKey(workload string) string {
	if workload == "" {
		return r.prefix + ":releases"
	}
	return r.prefix + ":releases:" + workload
}

func (r *ReleaseRepository) Create(ctx context.Context, rel *model.Release) error {
	if rel.ID == "" {
		rel.ID = "rel-" + uuid.NewString()
	}
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(releaseRecord{
		ID:        rel.ID,
		Workload:  rel.Workload,
		Namespace: rel.Namespace,
		Hash:      rel.Hash,
		Manifest:  rel.Manifest,
		CreatedAt: rel.CreatedAt,
	})
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, r.releaseKey(rel.ID), b, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("release %s already exists", rel.ID)
	}
	score := float64(rel.CreatedAt.UnixNano())
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, r.indexKey(""), &redis.Z{Score: score, Member: rel.ID})
		p.ZAdd(ctx, r.indexKey(rel.Workload), &redis.Z{Score: score, Member: rel.ID})
		return nil
	})
	return err
}

func (r *ReleaseRepository) Get(ctx context.Context, id string) (*model.Release, error) {
	b, err := r.client.Get(ctx, r.releaseKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", model.ErrReleaseNotFound, id)
		}
		return nil, err
	}
	return decode(b)
}

// List returns releases ordered by creation time; ties are ordered by ID.
func (r *ReleaseRepository) List(ctx context.Context, workload string) ([]*model.Release, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(workload), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Release{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.releaseKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*model.Release, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			// Index entry without a value; skip it.
			continue
		}
		rel, err := decode([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("release %s: %w", ids[i], err)
		}
		out = append(out, rel)
	}
	return out, nil
}

func decode(b []byte) (*model.Release, error) {
	var rec releaseRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return &model.Release{
		ID:        rec.ID,
		Workload:  rec.Workload,
		Namespace: rec.Namespace,
		Hash:      rec.Hash,
		Manifest:  rec.Manifest,
		CreatedAt: rec.CreatedAt,
	}, nil
}

var _ domain.ReleaseRepository = (*ReleaseRepository)(nil)
