package model

import (
	"context"
	"fmt"
	"slices"

	"github.com/yaegashi/kompoxwl/internal/naming"
)

// WorkloadSpec is the constructor input for a Workload.
type WorkloadSpec struct {
	Name       string
	Namespace  string
	Deployment *Deployment
	Service    *ServiceExposure
	Ingress    *Ingress
	Config     Config
	Claims     []ClaimRequest
}

// Workload is the unit handed to a Renderer: a Deployment together with the
// Service, Ingress, config payload and claims that belong to it.
type Workload struct {
	name       string
	namespace  string
	deployment *Deployment
	service    *ServiceExposure
	ingress    *Ingress
	config     Config
	claims     []ClaimRequest
}

// NewWorkload validates the config payload and the references between the
// parts of spec, and returns the Workload.
func NewWorkload(spec WorkloadSpec) (*Workload, error) {
	if err := naming.ValidateWorkloadName(spec.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if spec.Deployment == nil {
		return nil, fmt.Errorf("workload %q: deployment is required", spec.Name)
	}

	var svc *ServiceExposure
	if spec.Service != nil {
		if err := spec.Service.Type.Validate(); err != nil {
			return nil, fmt.Errorf("workload %q service: %w", spec.Name, err)
		}
		ports, err := selectServicePorts(spec.Deployment, spec.Service.PortNames)
		if err != nil {
			return nil, fmt.Errorf("workload %q service: %w", spec.Name, err)
		}
		if len(ports) == 0 {
			return nil, fmt.Errorf("workload %q service: %w: no container declares a port", spec.Name, ErrReferentialIntegrity)
		}
		svc = &ServiceExposure{Type: spec.Service.Type, PortNames: slices.Clone(spec.Service.PortNames)}
	}

	if spec.Config != nil {
		if err := spec.Config.Validate(); err != nil {
			return nil, fmt.Errorf("workload %q config: %w", spec.Name, err)
		}
		if spec.Config.MountPath() == "" {
			return nil, fmt.Errorf("workload %q config: %w: mount path is required", spec.Name, ErrInvalidConfig)
		}
		cfgVolume := naming.ConfigMapName(spec.Name)
		for _, v := range spec.Deployment.volumes {
			if v.Name() == cfgVolume {
				return nil, fmt.Errorf("workload %q: %w: volume %q is reserved for the config payload", spec.Name, ErrDuplicateName, cfgVolume)
			}
		}
		// The config volume is mounted into every container.
		for _, c := range spec.Deployment.containers {
			for _, m := range c.volumeMounts {
				if m.MountPath == spec.Config.MountPath() {
					return nil, fmt.Errorf("workload %q container %q: %w: mount path %q is used by the config payload", spec.Name, c.Name(), ErrDuplicateName, m.MountPath)
				}
			}
		}
	}

	var ingress *Ingress
	if spec.Ingress != nil {
		in, err := NewIngress(*spec.Ingress)
		if err != nil {
			return nil, fmt.Errorf("workload %q ingress: %w", spec.Name, err)
		}
		ingress = in
	}

	claims := make(map[string]struct{}, len(spec.Claims))
	for i, c := range spec.Claims {
		if err := naming.ValidateClaimName(c.Name); err != nil {
			return nil, fmt.Errorf("workload %q claims[%d]: %w: %v", spec.Name, i, ErrInvalidName, err)
		}
		if _, dup := claims[c.Name]; dup {
			return nil, fmt.Errorf("workload %q claims[%d]: %w: claim %q", spec.Name, i, ErrDuplicateName, c.Name)
		}
		claims[c.Name] = struct{}{}
	}

	return &Workload{
		name:       spec.Name,
		namespace:  spec.Namespace,
		deployment: spec.Deployment,
		service:    svc,
		ingress:    ingress,
		config:     spec.Config,
		claims:     slices.Clone(spec.Claims),
	}, nil
}

func (w *Workload) Name() string              { return w.name }
func (w *Workload) Namespace() string         { return w.namespace }
func (w *Workload) Deployment() *Deployment   { return w.deployment }
func (w *Workload) Service() *ServiceExposure { return w.service }
func (w *Workload) Ingress() *Ingress         { return w.ingress.clone() }
func (w *Workload) Config() Config            { return w.config }
func (w *Workload) Claims() []ClaimRequest    { return slices.Clone(w.claims) }

// ServicePorts returns the port mappings published by the workload's Service,
// or nil when the workload has no Service.
func (w *Workload) ServicePorts() []PortMapping {
	if w.service == nil {
		return nil
	}
	ports, _ := selectServicePorts(w.deployment, w.service.PortNames)
	return ports
}

// selectServicePorts resolves names against the deployment's port mappings.
// Port names must be unique across containers once exposed by one Service.
func selectServicePorts(d *Deployment, names []string) ([]PortMapping, error) {
	all := d.PortMappings()
	byName := make(map[string]PortMapping, len(all))
	for _, p := range all {
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: port %q is declared by more than one container", ErrDuplicatePortName, p.Name)
		}
		byName[p.Name] = p
	}
	if len(names) == 0 {
		return all, nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]PortMapping, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: port %q selected twice", ErrDuplicatePortName, n)
		}
		seen[n] = struct{}{}
		p, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("%w: port %q does not name a container port", ErrReferentialIntegrity, n)
		}
		out = append(out, p)
	}
	return out, nil
}

// Renderer turns validated workloads into cluster manifests.
type Renderer interface {
	Render(ctx context.Context, workloads []*Workload) ([]byte, error)
}
