package kube

import "github.com/yaegashi/kompoxwl/internal/naming"

// Rendered object names. Deployment, Service and Ingress share the workload name.

// ConfigMapName returns `<workload>-config`, also used as the pod volume name.
func ConfigMapName(workload string) string {
	return naming.ConfigMapName(workload)
}

// SelectorLabels returns the labels matched by the Deployment and Service selectors.
func SelectorLabels(workload string) map[string]string {
	return map[string]string{LabelAppSelector: workload}
}

// CommonLabels returns the labels set on every rendered object.
func CommonLabels(workload string) map[string]string {
	return map[string]string{
		LabelAppSelector:     workload,
		LabelAppK8sName:      workload,
		LabelAppK8sManagedBy: ManagedBy,
	}
}
