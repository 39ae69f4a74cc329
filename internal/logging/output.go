package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Output is the destination of log records.
type Output struct {
	// Path is the log file path; empty for stderr or disabled output.
	Path   string
	file   *os.File
	writer io.Writer
}

// OpenOutput resolves a --log-output value:
//   - "" or "-": stderr
//   - "none": discard
//   - anything else: file path, opened for append and created with its directory
func OpenOutput(spec string) (*Output, error) {
	switch strings.ToLower(spec) {
	case "", "-":
		return &Output{writer: os.Stderr}, nil
	case "none":
		return &Output{writer: io.Discard}, nil
	}

	if dir := filepath.Dir(spec); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory %q: %w", dir, err)
		}
	}
	f, err := os.OpenFile(spec, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", spec, err)
	}
	return &Output{Path: spec, file: f, writer: f}, nil
}

// Writer returns the io.Writer for log output.
func (o *Output) Writer() io.Writer {
	return o.writer
}

// Close closes the log file if one was opened.
func (o *Output) Close() error {
	if o.file != nil {
		return o.file.Close()
	}
	return nil
}
