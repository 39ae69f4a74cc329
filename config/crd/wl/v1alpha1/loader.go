package v1alpha1

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8syaml "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"
)

// Document is a parsed Workload document and where it came from.
type Document struct {
	Kind   string
	Object *Workload
	// Path is the file path from which this document was loaded.
	Path string
	// Index is the 1-based position of this document within its source file.
	Index int
}

// Name returns the workload name of the document.
func (d Document) Name() string {
	if d.Object == nil {
		return ""
	}
	return d.Object.Name
}

// LoaderResult contains the results of loading documents.
type LoaderResult struct {
	Documents []Document
	Errors    []error
}

// Loader loads Workload documents from files and directories.
type Loader struct {
	// MaxFileSize is the maximum file size in bytes to read (default: 10MB).
	MaxFileSize int64
}

// NewLoader creates a new Loader with default settings.
func NewLoader() *Loader {
	return &Loader{
		MaxFileSize: 10 * 1024 * 1024,
	}
}

// Load loads documents from path. A directory is scanned recursively for
// .yml and .yaml files in lexical order.
func (l *Loader) Load(path string) (*LoaderResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat path %q: %w", path, err)
	}
	if info.IsDir() {
		return l.loadDirectory(path)
	}
	return l.loadFile(path)
}

func (l *Loader) loadDirectory(dir string) (*LoaderResult, error) {
	result := &LoaderResult{}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("walk error at %q: %w", path, err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yml", ".yaml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %q: %w", dir, err)
	}
	sort.Strings(files)

	for _, path := range files {
		fileResult, err := l.loadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("loading %q: %w", path, err))
			continue
		}
		result.Documents = append(result.Documents, fileResult.Documents...)
		result.Errors = append(result.Errors, fileResult.Errors...)
	}
	return result, nil
}

// loadFile loads documents from a single, possibly multi-document, YAML file.
func (l *Loader) loadFile(path string) (*LoaderResult, error) {
	result := &LoaderResult{}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %q: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file %q: %w", path, err)
	}
	if l.MaxFileSize > 0 && info.Size() > l.MaxFileSize {
		return nil, fmt.Errorf("file %q exceeds max size %d bytes", path, l.MaxFileSize)
	}

	decoder := k8syaml.NewYAMLOrJSONDecoder(file, 4096)
	for docIndex := 1; ; docIndex++ {
		doc, err := l.decodeDocument(decoder, path, docIndex)
		if errors.Is(err, io.EOF) {
			break
		}
		var decodeErr *decodeError
		if errors.As(err, &decodeErr) {
			// The decoder cannot resync after malformed input.
			result.Errors = append(result.Errors, err)
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		if doc != nil {
			result.Documents = append(result.Documents, *doc)
		}
	}
	return result, nil
}

func (l *Loader) decodeDocument(decoder *k8syaml.YAMLOrJSONDecoder, path string, docIndex int) (*Document, error) {
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &decodeError{msg: fmt.Sprintf("decoding document %d in %q", docIndex, path), err: err}
	}
	if len(raw) == 0 {
		return nil, nil
	}

	apiVersion, ok := raw["apiVersion"].(string)
	if !ok {
		return nil, fmt.Errorf("document %d in %q: missing or invalid apiVersion", docIndex, path)
	}
	kind, ok := raw["kind"].(string)
	if !ok {
		return nil, fmt.Errorf("document %d in %q: missing or invalid kind", docIndex, path)
	}

	// Documents of other API groups may share the file; skip them.
	if apiVersion != Group+"/"+Version {
		return nil, nil
	}

	doc, err := parseKindDocument(raw, kind, path, docIndex)
	if err != nil {
		return nil, fmt.Errorf("document %d in %q: %w", docIndex, path, err)
	}
	return doc, nil
}

type decodeError struct {
	msg string
	err error
}

func (e *decodeError) Error() string { return e.msg + ": " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func parseKindDocument(raw map[string]any, kind, path string, docIndex int) (*Document, error) {
	switch kind {
	case KindWorkload:
		var wl Workload
		if err := mapToStruct(raw, &wl); err != nil {
			return nil, fmt.Errorf("parsing Workload: %w", err)
		}
		setDocumentAnnotations(&wl.ObjectMeta, path, docIndex)
		return &Document{Kind: kind, Object: &wl, Path: path, Index: docIndex}, nil
	default:
		return nil, fmt.Errorf("unsupported kind: %s", kind)
	}
}

func setDocumentAnnotations(meta *metav1.ObjectMeta, path string, docIndex int) {
	if meta.Annotations == nil {
		meta.Annotations = make(map[string]string)
	}
	meta.Annotations[AnnotationDocPath] = path
	meta.Annotations[AnnotationDocIndex] = strconv.Itoa(docIndex)
}

// mapToStruct converts a decoded document into target through YAML, which
// honors the JSON tags of the API types.
func mapToStruct(m map[string]any, target any) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling to YAML: %w", err)
	}
	if err := yaml.Unmarshal(b, target); err != nil {
		return fmt.Errorf("unmarshaling to struct: %w", err)
	}
	return nil
}
