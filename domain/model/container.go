package model

import (
	"fmt"
	"slices"

	"github.com/yaegashi/kompoxwl/internal/naming"
)

// ContainerSpec is the constructor input for a Container.
type ContainerSpec struct {
	Name         string
	Image        string
	Args         []string
	Ports        []PortMapping
	HealthCheck  HealthCheck
	VolumeMounts []VolumeMount
}

// Container is one container of a pod.
type Container struct {
	name         string
	image        string
	args         []string
	ports        []PortMapping
	healthCheck  HealthCheck
	volumeMounts []VolumeMount
}

// NewContainer checks the relationships between the container's own ports
// and probes, and returns the Container. Probes are not re-validated.
func NewContainer(spec ContainerSpec) (*Container, error) {
	if err := naming.ValidateContainerName(spec.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	portNames := make(map[string]struct{}, len(spec.Ports))
	for i, p := range spec.Ports {
		if err := naming.ValidatePortName(p.Name); err != nil {
			return nil, fmt.Errorf("container %q ports[%d]: %w: %v", spec.Name, i, ErrInvalidName, err)
		}
		if _, dup := portNames[p.Name]; dup {
			return nil, fmt.Errorf("container %q ports[%d]: %w: %q", spec.Name, i, ErrDuplicatePortName, p.Name)
		}
		portNames[p.Name] = struct{}{}
	}

	for _, pr := range spec.HealthCheck.Probes() {
		port := pr.Port()
		if port.Kind() != ProbePortString {
			continue
		}
		if _, ok := portNames[port.StrValue()]; !ok {
			return nil, fmt.Errorf("container %q: %w: probe port %q does not name a container port", spec.Name, ErrReferentialIntegrity, port.StrValue())
		}
	}

	mountPaths := make(map[string]string, len(spec.VolumeMounts))
	for i, m := range spec.VolumeMounts {
		if m.MountPath == "" {
			return nil, fmt.Errorf("container %q volumeMounts[%d]: mount path is required", spec.Name, i)
		}
		if prev, dup := mountPaths[m.MountPath]; dup {
			return nil, fmt.Errorf("container %q volumeMounts[%d]: %w: mount path %q already used by volume %q", spec.Name, i, ErrDuplicateName, m.MountPath, prev)
		}
		mountPaths[m.MountPath] = m.Name
	}

	return &Container{
		name:         spec.Name,
		image:        spec.Image,
		args:         slices.Clone(spec.Args),
		ports:        slices.Clone(spec.Ports),
		healthCheck:  spec.HealthCheck,
		volumeMounts: slices.Clone(spec.VolumeMounts),
	}, nil
}

func (c *Container) Name() string                { return c.name }
func (c *Container) Image() string               { return c.image }
func (c *Container) Args() []string              { return slices.Clone(c.args) }
func (c *Container) Ports() []PortMapping        { return slices.Clone(c.ports) }
func (c *Container) HealthCheck() HealthCheck    { return c.healthCheck }
func (c *Container) VolumeMounts() []VolumeMount { return slices.Clone(c.volumeMounts) }
