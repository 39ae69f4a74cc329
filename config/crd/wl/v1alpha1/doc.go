// Package v1alpha1 defines the wl.kompox.dev/v1alpha1 API group types.
//
// A Workload document describes one Deployment together with its volumes,
// claims, Service, Ingress and configuration payload. Documents follow
// Kubernetes API conventions with TypeMeta and ObjectMeta and are read from
// multi-document YAML files by Loader, checked by Validate and converted to
// domain models by ToModels.
//
// Group: wl.kompox.dev
// Version: v1alpha1
// Kinds: Workload
package v1alpha1
