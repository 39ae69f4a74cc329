package workload

import (
	"github.com/yaegashi/kompoxwl/domain"
	"github.com/yaegashi/kompoxwl/domain/model"
)

// Repos holds repositories needed for workload use cases.
type Repos struct {
	Release domain.ReleaseRepository
}

// UseCase wires repositories and the manifest renderer for workload use cases.
type UseCase struct {
	Repos    *Repos
	Renderer model.Renderer
}
