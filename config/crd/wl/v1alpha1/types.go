package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// Group is the API group for workload documents.
	Group = "wl.kompox.dev"
	// Version is the API version for workload documents.
	Version = "v1alpha1"
	// KindWorkload is the only kind in this group.
	KindWorkload = "Workload"

	// AnnotationDocPath is the annotation key for the source document file path.
	// It is set by the Loader and used to resolve file-relative config references.
	AnnotationDocPath = Group + "/doc-path"
	// AnnotationDocIndex is the annotation key for the 1-based document index within the source file.
	AnnotationDocIndex = Group + "/doc-index"

	// HealthCheckPresetDefault selects model.DefaultHealthCheck.
	HealthCheckPresetDefault = "default"
)

// Workload represents a deployable workload.
// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced
type Workload struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitzero"`

	Spec WorkloadSpec `json:"spec,omitzero"`
}

// WorkloadSpec defines the desired state of Workload.
type WorkloadSpec struct {
	// Replicas is the pod count. Defaults to 1 when omitted.
	Replicas *int `json:"replicas,omitzero"`
	// Annotations are added to the Deployment.
	Annotations map[string]string `json:"annotations,omitzero"`
	Containers  []Container       `json:"containers,omitzero"`
	Volumes     []Volume          `json:"volumes,omitzero"`
	// Claims are PersistentVolumeClaims created along with the workload.
	Claims  []Claim  `json:"claims,omitzero"`
	Service *Service `json:"service,omitzero"`
	Ingress *Ingress `json:"ingress,omitzero"`
	Config  *Config  `json:"config,omitzero"`
}

// Container defines one container of the pod.
type Container struct {
	Name         string        `json:"name"`
	Image        string        `json:"image"`
	Args         []string      `json:"args,omitzero"`
	Ports        []PortMapping `json:"ports,omitzero"`
	HealthCheck  *HealthCheck  `json:"healthCheck,omitzero"`
	VolumeMounts []VolumeMount `json:"volumeMounts,omitzero"`
}

// PortMapping publishes containerPort as service port under a name.
type PortMapping struct {
	Name          string `json:"name"`
	Port          int    `json:"port"`
	ContainerPort int    `json:"containerPort"`
}

// HealthCheck defines container probes.
// Preset "default" fills every slot; explicit probes replace the preset per slot.
type HealthCheck struct {
	Preset         string `json:"preset,omitzero"`
	StartupProbe   *Probe `json:"startupProbe,omitzero"`
	ReadinessProbe *Probe `json:"readinessProbe,omitzero"`
	LivenessProbe  *Probe `json:"livenessProbe,omitzero"`
}

// Probe defines an HTTP GET probe.
type Probe struct {
	// Port is a port number or the name of a container port. It is kept
	// untyped so that malformed values reach the model constructor.
	Port             any    `json:"port"`
	Path             string `json:"path,omitzero"`
	PeriodSeconds    int    `json:"periodSeconds,omitzero"`
	FailureThreshold int    `json:"failureThreshold,omitzero"`
	TimeoutSeconds   int    `json:"timeoutSeconds,omitzero"`
}

// VolumeMount mounts a pod volume into the container.
type VolumeMount struct {
	Name      string `json:"name"`
	MountPath string `json:"mountPath"`
	ReadOnly  bool   `json:"readOnly,omitzero"`
}

// Volume declares a pod volume. Type is "ConfigMap" or "PersistentVolumeClaim".
type Volume struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	ConfigMapName string `json:"configMapName,omitzero"`
	PVCClaimName  string `json:"pvcClaimName,omitzero"`
	PVCReadOnly   *bool  `json:"pvcReadOnly,omitzero"`
}

// Claim requests a PersistentVolumeClaim.
type Claim struct {
	Name             string   `json:"name"`
	StorageClassName *string  `json:"storageClassName,omitzero"`
	AccessModes      []string `json:"accessModes,omitzero"`
	VolumeMode       *string  `json:"volumeMode,omitzero"`
	Storage          *string  `json:"storage,omitzero"`
	ReadOnly         *bool    `json:"readOnly,omitzero"`
	MountPath        *string  `json:"mountPath,omitzero"`
}

// Service exposes container ports.
type Service struct {
	// Type defaults to ClusterIP.
	Type string `json:"type,omitzero"`
	// Ports lists container port names to expose. Empty exposes all of them.
	Ports []string `json:"ports,omitzero"`
}

// Ingress routes HTTP traffic to services.
type Ingress struct {
	Annotations map[string]string `json:"annotations,omitzero"`
	ClassName   *string           `json:"className,omitzero"`
	Rules       []IngressRule     `json:"rules,omitzero"`
	TLS         []IngressTLS      `json:"tls,omitzero"`
}

// IngressRule routes the paths of one host.
type IngressRule struct {
	Host  string            `json:"host,omitzero"`
	Paths []IngressHTTPPath `json:"paths,omitzero"`
}

// IngressHTTPPath routes one path to a service port given by number or by name.
type IngressHTTPPath struct {
	Path     *string        `json:"path,omitzero"`
	PathType string         `json:"pathType,omitzero"`
	Backend  IngressBackend `json:"backend"`
}

// IngressBackend names the target service port.
type IngressBackend struct {
	Service  string `json:"service"`
	PortName string `json:"portName,omitzero"`
	Port     int    `json:"port,omitzero"`
}

// IngressTLS binds hosts to a TLS secret.
type IngressTLS struct {
	Hosts      []string `json:"hosts,omitzero"`
	SecretName *string  `json:"secretName,omitzero"`
}

// Config is the configuration payload mounted into every container.
// Schema and Payload are given inline or as files relative to the document.
type Config struct {
	MountPath   string         `json:"mountPath"`
	Schema      map[string]any `json:"schema,omitzero"`
	SchemaFile  string         `json:"schemaFile,omitzero"`
	Payload     map[string]any `json:"payload,omitzero"`
	PayloadFile string         `json:"payloadFile,omitzero"`
}
