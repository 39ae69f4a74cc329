// Package payload implements model.Config for JSON payloads checked against
// a JSON schema.
package payload

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"

	"github.com/yaegashi/kompoxwl/domain/model"
)

// SchemaConfig is a configuration payload paired with the JSON schema it must satisfy.
type SchemaConfig struct {
	schema    map[string]any
	payload   map[string]any
	mountPath string
}

var _ model.Config = (*SchemaConfig)(nil)

// New returns a SchemaConfig. The maps are copied shallowly; New does not validate.
func New(schema, payload map[string]any, mountPath string) *SchemaConfig {
	return &SchemaConfig{
		schema:    maps.Clone(schema),
		payload:   maps.Clone(payload),
		mountPath: mountPath,
	}
}

// Load reads the schema and payload documents from files. Both JSON and YAML are accepted.
func Load(schemaPath, payloadPath, mountPath string) (*SchemaConfig, error) {
	schema, err := ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	payload, err := ReadFile(payloadPath)
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	return &SchemaConfig{schema: schema, payload: payload, mountPath: mountPath}, nil
}

// ReadFile reads a JSON or YAML document holding a single object.
func ReadFile(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	var obj map[string]any
	if err := yaml.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%q: document is empty", path)
	}
	return obj, nil
}

func (c *SchemaConfig) Schema() map[string]any  { return maps.Clone(c.schema) }
func (c *SchemaConfig) Payload() map[string]any { return maps.Clone(c.payload) }
func (c *SchemaConfig) MountPath() string       { return c.mountPath }

// Validate checks the payload against the schema. Every violation is listed
// in the returned error, which wraps model.ErrInvalidConfig.
func (c *SchemaConfig) Validate() error {
	if len(c.schema) == 0 {
		return fmt.Errorf("%w: schema is required", model.ErrInvalidConfig)
	}
	payload := c.payload
	if payload == nil {
		payload = map[string]any{}
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(c.schema), gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("%w: schema: %v", model.ErrInvalidConfig, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", model.ErrInvalidConfig, strings.Join(msgs, "; "))
}
