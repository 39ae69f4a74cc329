package workload

import (
	"context"
	"fmt"
)

// ValidateInput identifies the workload documents to validate.
type ValidateInput struct {
	// Path is a document file or a directory scanned for .yml/.yaml files.
	Path string `json:"path"`
}

// ValidateOutput reports validation outcomes.
type ValidateOutput struct {
	// Workloads are the namespace-qualified names of valid workloads.
	Workloads []string `json:"workloads"`
	// Errors are per-document failures.
	Errors []string `json:"errors"`
}

// Validate loads documents and builds every workload without rendering.
func (u *UseCase) Validate(ctx context.Context, in *ValidateInput) (*ValidateOutput, error) {
	out := &ValidateOutput{}
	if in == nil || in.Path == "" {
		return out, fmt.Errorf("missing path")
	}
	res, err := load(ctx, in.Path)
	if err != nil {
		return out, err
	}
	for _, w := range res.workloads {
		out.Workloads = append(out.Workloads, qualifiedName(w))
	}
	out.Errors = res.errors
	return out, nil
}
