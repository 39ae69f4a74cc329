package model

// PersistentVolumeClaim describes a storage request. Every field is optional
// and nil means "no opinion"; no defaults are applied here.
type PersistentVolumeClaim struct {
	StorageClassName *string
	AccessModes      []string // set semantics; nil when unset
	VolumeMode       *string  // "Filesystem" | "Block"
	Storage          *string  // quantity, e.g. "32Gi"
	ReadOnly         *bool
	MountPath        *string
}

// ClaimRequest names a PersistentVolumeClaim the workload wants created.
type ClaimRequest struct {
	Name  string
	Claim PersistentVolumeClaim
}
