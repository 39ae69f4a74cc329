package kv

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/yaegashi/kompoxwl/domain/model"
)

func newTestRepo(t *testing.T) *ReleaseRepository {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := OpenFromURL(context.Background(), "redis://"+srv.Addr()+"/0")
	if err != nil {
		t.Fatalf("OpenFromURL() error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewReleaseRepository(client, "")
}

func TestOpenFromURL_Invalid(t *testing.T) {
	if _, err := OpenFromURL(context.Background(), "http://localhost"); err == nil {
		t.Fatal("OpenFromURL() accepted a non-redis url")
	}
}

func TestReleaseRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rels := []*model.Release{
		{Workload: "mempool", Namespace: "sequencer", Hash: "aaaaaa", Manifest: "---\n", CreatedAt: base},
		{Workload: "gateway", Hash: "bbbbbb", CreatedAt: base.Add(time.Minute)},
		{Workload: "mempool", Hash: "cccccc", CreatedAt: base.Add(2 * time.Minute)},
		{Workload: "worker", Hash: "dddddd"},
	}
	for _, rel := range rels {
		if err := repo.Create(ctx, rel); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		if !strings.HasPrefix(rel.ID, "rel-") || rel.CreatedAt.IsZero() {
			t.Errorf("Create() left %+v", rel)
		}
	}

	got, err := repo.Get(ctx, rels[0].ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Namespace != "sequencer" || got.Manifest != "---\n" || !got.CreatedAt.Equal(base) {
		t.Errorf("Get() = %+v", got)
	}

	list, err := repo.List(ctx, "mempool")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 || list[0].Hash != "aaaaaa" || list[1].Hash != "cccccc" {
		t.Errorf("List(mempool) = %+v", list)
	}
	all, err := repo.List(ctx, "")
	if err != nil || len(all) != 4 {
		t.Errorf("List(\"\") = %d releases, %v", len(all), err)
	}
	none, err := repo.List(ctx, "missing")
	if err != nil || len(none) != 0 {
		t.Errorf("List(missing) = %v, %v", none, err)
	}
}

func TestReleaseRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if _, err := repo.Get(ctx, "rel-missing"); !errors.Is(err, model.ErrReleaseNotFound) {
		t.Errorf("Get() error = %v, want ErrReleaseNotFound", err)
	}
	if err := repo.Create(ctx, &model.Release{ID: "rel-1", Workload: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, &model.Release{ID: "rel-1", Workload: "b"}); err == nil {
		t.Error("Create() accepted a duplicate ID")
	}
}
