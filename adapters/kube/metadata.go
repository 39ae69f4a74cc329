package kube

// Label and annotation keys set on rendered objects.
// Keep these constants stable; changes are visible in clusters.
const (
	// WLDomain prefixes every kompoxwl-specific label and annotation.
	WLDomain = "wl.kompox.dev"

	LabelAppK8sName      = "app.kubernetes.io/name"
	LabelAppK8sManagedBy = "app.kubernetes.io/managed-by"
	LabelAppSelector     = "app"

	// ManagedBy is the value of LabelAppK8sManagedBy.
	ManagedBy = "kompoxwl"

	// AnnotationConfigHash is set on the pod template and the ConfigMap so
	// that payload changes roll the pods.
	AnnotationConfigHash = WLDomain + "/config-hash"

	// ConfigMapDataKey is the ConfigMap key holding the JSON payload.
	ConfigMapDataKey = "config"
)
