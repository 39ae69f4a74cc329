package v1alpha1

import (
	"fmt"
	"strings"

	"github.com/yaegashi/kompoxwl/internal/naming"
)

// ValidationError represents a validation error for a document.
type ValidationError struct {
	// Name is the metadata.name of the document.
	Name string
	// Namespace is the metadata.namespace of the document.
	Namespace string
	// Kind of the document.
	Kind string
	// Error message.
	Message string
	// Path is the source file path where the validation error occurred.
	Path string
	// Index is the 1-based document position within the source file.
	Index int
	// Err is the underlying model error, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	location := ""
	if e.Path != "" {
		if e.Index > 0 {
			location = fmt.Sprintf(" from %s (document %d)", e.Path, e.Index)
		} else {
			location = fmt.Sprintf(" from %s", e.Path)
		}
	}
	name := e.Name
	if e.Namespace != "" {
		name = e.Namespace + "/" + e.Name
	}
	return fmt.Sprintf("%s %q validation error: %s%s", strings.ToLower(e.Kind), name, e.Message, location)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidationResult contains the results of validating documents.
type ValidationResult struct {
	// ValidDocuments are documents that passed all validation checks.
	ValidDocuments []Document
	// Errors are validation errors encountered.
	Errors []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Validate checks document-level constraints that do not need the domain
// model: metadata.name is a DNS-1123 label, names are unique per namespace,
// and every workload has at least one container.
// Documents failing a check are left out of ValidDocuments; the rest are
// returned in input order.
func Validate(documents []Document) *ValidationResult {
	result := &ValidationResult{}
	seen := make(map[string]Document)

	for _, doc := range documents {
		fail := func(format string, args ...any) {
			result.Errors = append(result.Errors, newValidationError(doc, fmt.Sprintf(format, args...)))
		}
		if doc.Object == nil {
			fail("document has no object")
			continue
		}
		wl := doc.Object
		if err := naming.ValidateWorkloadName(wl.Name); err != nil {
			fail("metadata.name %q is not a valid DNS-1123 label: %v", wl.Name, err)
			continue
		}
		key := wl.Namespace + "/" + wl.Name
		if prev, dup := seen[key]; dup {
			fail("duplicate workload, first defined in %s (document %d)", prev.Path, prev.Index)
			continue
		}
		seen[key] = doc
		if len(wl.Spec.Containers) == 0 {
			fail("spec.containers must not be empty")
			continue
		}
		result.ValidDocuments = append(result.ValidDocuments, doc)
	}

	return result
}

func newValidationError(doc Document, msg string) *ValidationError {
	e := &ValidationError{Kind: doc.Kind, Message: msg, Path: doc.Path, Index: doc.Index}
	if doc.Object != nil {
		e.Name = doc.Object.Name
		e.Namespace = doc.Object.Namespace
	}
	return e
}
