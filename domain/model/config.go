package model

// Config is a configuration payload mounted into a workload.
// Implementations must check the payload in Validate; there is no default
// implementation that accepts everything.
type Config interface {
	// Schema describes the expected shape of Payload.
	Schema() map[string]any
	// Payload is the configuration content.
	Payload() map[string]any
	// MountPath is where the payload is mounted in each container.
	MountPath() string
	// Validate reports whether Payload conforms to Schema.
	Validate() error
}
