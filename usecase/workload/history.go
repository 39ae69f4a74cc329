package workload

import (
	"context"
	"fmt"

	"github.com/yaegashi/kompoxwl/domain/model"
)

// HistoryInput selects releases to list.
type HistoryInput struct {
	// Workload filters by workload name; empty lists all releases.
	Workload string `json:"workload"`
}

// HistoryOutput lists releases oldest first.
type HistoryOutput struct {
	Releases []*model.Release
}

func (u *UseCase) History(ctx context.Context, in *HistoryInput) (*HistoryOutput, error) {
	if u.Repos == nil || u.Repos.Release == nil {
		return nil, fmt.Errorf("release repository is not configured")
	}
	var name string
	if in != nil {
		name = in.Workload
	}
	rels, err := u.Repos.Release.List(ctx, name)
	if err != nil {
		return nil, err
	}
	return &HistoryOutput{Releases: rels}, nil
}

// ShowInput identifies a release.
type ShowInput struct {
	ID string `json:"id"`
}

type ShowOutput struct {
	Release *model.Release
}

// Show returns one recorded release including its manifest.
func (u *UseCase) Show(ctx context.Context, in *ShowInput) (*ShowOutput, error) {
	if in == nil || in.ID == "" {
		return nil, fmt.Errorf("missing release ID")
	}
	if u.Repos == nil || u.Repos.Release == nil {
		return nil, fmt.Errorf("release repository is not configured")
	}
	rel, err := u.Repos.Release.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &ShowOutput{Release: rel}, nil
}
