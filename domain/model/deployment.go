package model

import (
	"fmt"
	"maps"
	"slices"
)

// DeploymentSpec is the constructor input for a Deployment.
type DeploymentSpec struct {
	Replicas    int
	Annotations map[string]string
	Containers  []*Container
	Volumes     []*Volume
}

// Deployment is a replicated set of containers sharing pod volumes.
type Deployment struct {
	replicas    int
	annotations map[string]string
	containers  []*Container
	volumes     []*Volume
}

// NewDeployment checks that container and volume names are unique and that
// every volume mount names a declared volume.
func NewDeployment(spec DeploymentSpec) (*Deployment, error) {
	if spec.Replicas < 0 {
		return nil, fmt.Errorf("%w: replicas must not be negative (%d)", ErrInvalidReplicas, spec.Replicas)
	}

	volumes := make(map[string]struct{}, len(spec.Volumes))
	for i, v := range spec.Volumes {
		if v == nil {
			return nil, fmt.Errorf("volumes[%d] is nil", i)
		}
		if _, dup := volumes[v.Name()]; dup {
			return nil, fmt.Errorf("volumes[%d]: %w: volume %q", i, ErrDuplicateName, v.Name())
		}
		volumes[v.Name()] = struct{}{}
	}

	containers := make(map[string]struct{}, len(spec.Containers))
	for i, c := range spec.Containers {
		if c == nil {
			return nil, fmt.Errorf("containers[%d] is nil", i)
		}
		if _, dup := containers[c.Name()]; dup {
			return nil, fmt.Errorf("containers[%d]: %w: container %q", i, ErrDuplicateName, c.Name())
		}
		containers[c.Name()] = struct{}{}
		for _, m := range c.volumeMounts {
			if _, ok := volumes[m.Name]; !ok {
				return nil, fmt.Errorf("container %q: %w: volume mount %q does not name a declared volume", c.Name(), ErrReferentialIntegrity, m.Name)
			}
		}
	}

	return &Deployment{
		replicas:    spec.Replicas,
		annotations: maps.Clone(spec.Annotations),
		containers:  slices.Clone(spec.Containers),
		volumes:     slices.Clone(spec.Volumes),
	}, nil
}

func (d *Deployment) Replicas() int                  { return d.replicas }
func (d *Deployment) Annotations() map[string]string { return maps.Clone(d.annotations) }
func (d *Deployment) Containers() []*Container       { return slices.Clone(d.containers) }
func (d *Deployment) Volumes() []*Volume             { return slices.Clone(d.volumes) }

// PortMappings returns every container port mapping in container order.
func (d *Deployment) PortMappings() []PortMapping {
	var out []PortMapping
	for _, c := range d.containers {
		out = append(out, c.ports...)
	}
	return out
}
