package workload

import (
	"context"
	"fmt"

	"github.com/yaegashi/kompoxwl/config/crd/wl/v1alpha1"
	"github.com/yaegashi/kompoxwl/domain/model"
	"github.com/yaegashi/kompoxwl/internal/logging"
)

// loadResult is the outcome of reading workload documents from a path.
type loadResult struct {
	workloads []*model.Workload
	errors    []string
}

// load reads documents under path, validates them and converts each valid
// document to a domain workload. Per-document problems are collected in
// errors; only an unreadable path is returned as an error.
func load(ctx context.Context, path string) (*loadResult, error) {
	logger := logging.FromContext(ctx)

	lr, err := v1alpha1.NewLoader().Load(path)
	if err != nil {
		return nil, err
	}
	res := &loadResult{}
	for _, e := range lr.Errors {
		res.errors = append(res.errors, e.Error())
	}

	vr := v1alpha1.Validate(lr.Documents)
	for _, e := range vr.Errors {
		res.errors = append(res.errors, e.Error())
	}

	for _, doc := range vr.ValidDocuments {
		ws, err := v1alpha1.ToModels([]v1alpha1.Document{doc})
		if err != nil {
			res.errors = append(res.errors, err.Error())
			continue
		}
		logger.Debug(ctx, "loaded workload", "workload", doc.Name(), "path", doc.Path, "index", doc.Index)
		res.workloads = append(res.workloads, ws...)
	}
	logger.Debug(ctx, "load finished", "path", path, "documents", len(lr.Documents), "workloads", len(res.workloads), "errors", len(res.errors))
	return res, nil
}

func qualifiedName(w *model.Workload) string {
	if w.Namespace() == "" {
		return w.Name()
	}
	return fmt.Sprintf("%s/%s", w.Namespace(), w.Name())
}
