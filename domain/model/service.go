package model

import "fmt"

// ServiceType is how a workload's Service is exposed.
type ServiceType string

const (
	ServiceTypeClusterIP    ServiceType = "ClusterIP"
	ServiceTypeLoadBalancer ServiceType = "LoadBalancer"
	ServiceTypeNodePort     ServiceType = "NodePort"
)

// ParseServiceType returns the ServiceType named by s.
func ParseServiceType(s string) (ServiceType, error) {
	t := ServiceType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate reports whether t is one of the known service types.
func (t ServiceType) Validate() error {
	switch t {
	case ServiceTypeClusterIP, ServiceTypeLoadBalancer, ServiceTypeNodePort:
		return nil
	default:
		return fmt.Errorf("%w: service type %q, must be %q, %q or %q", ErrUnsupportedVariant, string(t), ServiceTypeClusterIP, ServiceTypeLoadBalancer, ServiceTypeNodePort)
	}
}

// ServiceExposure describes the Service fronting a workload.
// PortNames select container port mappings by name; empty selects all of them.
type ServiceExposure struct {
	Type      ServiceType
	PortNames []string
}

// PortMapping is a named container port and the service port it is published on.
type PortMapping struct {
	Name          string
	Port          int
	ContainerPort int
}
