package model

import (
	"fmt"

	"github.com/yaegashi/kompoxwl/internal/naming"
)

// VolumeType selects the backend of a Volume.
type VolumeType string

const (
	VolumeTypeConfigMap             VolumeType = "ConfigMap"
	VolumeTypePersistentVolumeClaim VolumeType = "PersistentVolumeClaim"
)

// VolumeSource is the resolved backend of a Volume. The set of
// implementations is closed; consumers switch over the concrete types.
type VolumeSource interface {
	VolumeType() VolumeType
	isVolumeSource()
}

// ConfigMapVolumeSource mounts a ConfigMap by name.
type ConfigMapVolumeSource struct {
	Name string
}

func (ConfigMapVolumeSource) VolumeType() VolumeType { return VolumeTypeConfigMap }
func (ConfigMapVolumeSource) isVolumeSource()        {}

// PersistentVolumeClaimVolumeSource mounts an existing claim.
type PersistentVolumeClaimVolumeSource struct {
	ClaimName string
	ReadOnly  bool
}

func (PersistentVolumeClaimVolumeSource) VolumeType() VolumeType {
	return VolumeTypePersistentVolumeClaim
}
func (PersistentVolumeClaimVolumeSource) isVolumeSource() {}

// VolumeSpec is the constructor input for a Volume. Only the fields of the
// selected Type are read.
type VolumeSpec struct {
	Name          string
	Type          VolumeType
	ConfigMapName string
	PVCClaimName  string
	PVCReadOnly   *bool
}

// Volume is a named pod volume resolved to exactly one backend.
type Volume struct {
	name   string
	source VolumeSource
}

type volumeResolver func(spec VolumeSpec) (VolumeSource, error)

// volumeResolvers maps each VolumeType to its resolver. Resolvers are independent of each other.
var volumeResolvers = map[VolumeType]volumeResolver{
	VolumeTypeConfigMap:             resolveConfigMap,
	VolumeTypePersistentVolumeClaim: resolvePersistentVolumeClaim,
}

func resolveConfigMap(spec VolumeSpec) (VolumeSource, error) {
	if spec.ConfigMapName == "" {
		return nil, fmt.Errorf("%w: volume %q of type %s requires configMapName", ErrMissingBackendReference, spec.Name, spec.Type)
	}
	return ConfigMapVolumeSource{Name: spec.ConfigMapName}, nil
}

func resolvePersistentVolumeClaim(spec VolumeSpec) (VolumeSource, error) {
	if spec.PVCClaimName == "" {
		return nil, fmt.Errorf("%w: volume %q of type %s requires pvcClaimName", ErrMissingBackendReference, spec.Name, spec.Type)
	}
	readOnly := false
	if spec.PVCReadOnly != nil {
		readOnly = *spec.PVCReadOnly
	}
	return PersistentVolumeClaimVolumeSource{ClaimName: spec.PVCClaimName, ReadOnly: readOnly}, nil
}

// NewVolume resolves spec into a Volume.
func NewVolume(spec VolumeSpec) (*Volume, error) {
	if err := naming.ValidateVolumeName(spec.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	resolve, ok := volumeResolvers[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: volume %q has type %q, must be %q or %q", ErrUnsupportedVariant, spec.Name, string(spec.Type), VolumeTypeConfigMap, VolumeTypePersistentVolumeClaim)
	}
	src, err := resolve(spec)
	if err != nil {
		return nil, err
	}
	return &Volume{name: spec.Name, source: src}, nil
}

func (v *Volume) Name() string         { return v.name }
func (v *Volume) Type() VolumeType     { return v.source.VolumeType() }
func (v *Volume) Source() VolumeSource { return v.source }

// VolumeMount binds a Volume of the enclosing Deployment into a container.
type VolumeMount struct {
	Name      string
	MountPath string
	ReadOnly  bool
}
