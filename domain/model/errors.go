package model

import "errors"

var (
	// ErrInvalidPortType is returned when a probe port is neither an integer nor a non-empty string.
	ErrInvalidPortType = errors.New("invalid port type")
	// ErrMissingBackendReference is returned when a volume type requires a backend name that was not given.
	ErrMissingBackendReference = errors.New("missing backend reference")
	// ErrUnsupportedVariant is returned for discriminator values outside a closed enumeration.
	ErrUnsupportedVariant = errors.New("unsupported variant")
	// ErrReferentialIntegrity is returned when a record names another record that does not exist.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrInvalidProbe is returned when a probe period, threshold or timeout is negative.
	ErrInvalidProbe = errors.New("invalid probe")
	// ErrInvalidName is returned when a resource name is not a valid DNS-1123 label or subdomain.
	ErrInvalidName = errors.New("invalid name")
	// ErrDuplicatePortName is returned when a port name is declared or selected more than once.
	ErrDuplicatePortName = errors.New("duplicate port name")
	// ErrDuplicateName is returned when two records of one kind share a name or mount path.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidBackendReference is returned when an ingress path does not name exactly one valid service port.
	ErrInvalidBackendReference = errors.New("invalid ingress backend reference")
	// ErrInvalidConfig is returned when a config payload fails its schema or lacks a mount path.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidReplicas is returned for a negative replica count.
	ErrInvalidReplicas = errors.New("invalid replicas")

	// ErrReleaseNotFound is returned when a release ID is not in the store.
	ErrReleaseNotFound = errors.New("release not found")
)
