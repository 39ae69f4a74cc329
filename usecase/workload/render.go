package workload

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaegashi/kompoxwl/domain/model"
	"github.com/yaegashi/kompoxwl/internal/logging"
	"github.com/yaegashi/kompoxwl/internal/naming"
)

// RenderInput identifies the workload documents to render.
type RenderInput struct {
	// Path is a document file or a directory scanned for .yml/.yaml files.
	Path string `json:"path"`
	// Record stores one release per rendered workload.
	Record bool `json:"record"`
}

// RenderOutput carries the rendered manifest.
type RenderOutput struct {
	// Manifest is the multi-document YAML of all workloads.
	Manifest string
	// Releases are the recorded releases when RenderInput.Record is set.
	Releases []*model.Release
}

// Render loads, validates and renders workloads. Any document error aborts
// rendering so that a partial manifest is never produced.
//
// With Record set, every per-workload manifest is rendered before the first
// release is stored. The store has no transactions: if a Create fails, the
// releases already stored stay in place, are returned in Releases, and the
// error reports how many of them were recorded.
func (u *UseCase) Render(ctx context.Context, in *RenderInput) (*RenderOutput, error) {
	out := &RenderOutput{}
	if in == nil || in.Path == "" {
		return out, fmt.Errorf("missing path")
	}
	if u.Renderer == nil {
		return out, fmt.Errorf("renderer is not configured")
	}
	res, err := load(ctx, in.Path)
	if err != nil {
		return out, err
	}
	if len(res.errors) > 0 {
		errs := make([]error, 0, len(res.errors))
		for _, e := range res.errors {
			errs = append(errs, errors.New(e))
		}
		return out, fmt.Errorf("%d document error(s): %w", len(errs), errors.Join(errs...))
	}
	if len(res.workloads) == 0 {
		return out, fmt.Errorf("no workloads found in %s", in.Path)
	}

	b, err := u.Renderer.Render(ctx, res.workloads)
	if err != nil {
		return out, fmt.Errorf("render failed: %w", err)
	}
	out.Manifest = string(b)

	if !in.Record {
		return out, nil
	}
	if u.Repos == nil || u.Repos.Release == nil {
		return out, fmt.Errorf("release repository is not configured")
	}
	rels := make([]*model.Release, 0, len(res.workloads))
	for _, w := range res.workloads {
		wb, err := u.Renderer.Render(ctx, []*model.Workload{w})
		if err != nil {
			return out, fmt.Errorf("render workload %q: %w", w.Name(), err)
		}
		rels = append(rels, &model.Release{
			Workload:  w.Name(),
			Namespace: w.Namespace(),
			Hash:      naming.ContentHash(string(wb)),
			Manifest:  string(wb),
		})
	}
	logger := logging.FromContext(ctx)
	for i, rel := range rels {
		if err := u.Repos.Release.Create(ctx, rel); err != nil {
			return out, fmt.Errorf("record release of %q (recorded %d of %d releases): %w", rel.Workload, len(out.Releases), len(rels), err)
		}
		logger.Info(ctx, "recorded release", "workload", qualifiedName(res.workloads[i]), "id", rel.ID, "hash", rel.Hash)
		out.Releases = append(out.Releases, rel)
	}
	return out, nil
}
