package kube

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/scheme"
)

// SetTypeMeta fills apiVersion and kind of obj from the client-go scheme.
// Objects built as Go structs leave TypeMeta empty.
func SetTypeMeta(obj runtime.Object) error {
	gvks, _, err := scheme.Scheme.ObjectKinds(obj)
	if err != nil {
		return fmt.Errorf("resolving kind of %T: %w", obj, err)
	}
	obj.GetObjectKind().SetGroupVersionKind(gvks[0])
	return nil
}

// EncodeManifest writes objs to w as multi-document YAML, each document
// preceded by "---". Nil objects are skipped.
func EncodeManifest(w io.Writer, objs []runtime.Object) error {
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		m, err := cleanObject(obj)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encoding %s: %w", obj.GetObjectKind().GroupVersionKind().Kind, err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}
	return nil
}

// cleanObject converts obj to an unstructured map without the fields a
// freshly built object carries as zero values.
func cleanObject(obj runtime.Object) (map[string]any, error) {
	if obj.GetObjectKind().GroupVersionKind().Empty() {
		if err := SetTypeMeta(obj); err != nil {
			return nil, err
		}
	}
	m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("to unstructured: %w", err)
	}
	unstructured.RemoveNestedField(m, "status")
	unstructured.RemoveNestedField(m, "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(m, "spec", "template", "metadata", "creationTimestamp")
	prune(m)
	return m, nil
}

// prune deletes nil values and maps left empty, in place, and reports
// whether v itself should be kept. Slices are kept even when empty.
func prune(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		for k, val := range x {
			if pv, keep := prune(val); keep {
				x[k] = pv
			} else {
				delete(x, k)
			}
		}
		return x, len(x) > 0
	case []any:
		for i, it := range x {
			x[i], _ = prune(it)
		}
		return x, true
	default:
		return x, true
	}
}
