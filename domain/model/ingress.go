package model

import (
	"fmt"
	"maps"
	"slices"

	"github.com/yaegashi/kompoxwl/internal/naming"
)

// Ingress path types accepted by IngressRuleHTTPPath.PathType.
const (
	PathTypeExact                  = "Exact"
	PathTypePrefix                 = "Prefix"
	PathTypeImplementationSpecific = "ImplementationSpecific"
)

// IngressRuleHTTPPath routes one HTTP path to a service backend.
// The backend port is given by number or by name, never both.
type IngressRuleHTTPPath struct {
	Path                     *string
	PathType                 string
	BackendServiceName       string
	BackendServicePortNumber int
	BackendServicePortName   *string
}

// IngressRule groups HTTP paths under one host.
type IngressRule struct {
	Host  string
	Paths []IngressRuleHTTPPath
}

// IngressTLS binds hosts to the TLS secret serving them.
type IngressTLS struct {
	Hosts      []string
	SecretName *string
}

// Ingress describes HTTP routing into a workload.
type Ingress struct {
	Annotations map[string]string
	ClassName   *string
	Rules       []IngressRule
	TLS         []IngressTLS
}

// NewIngress checks every path backend of in and returns a copy of it.
func NewIngress(in Ingress) (*Ingress, error) {
	for i, rule := range in.Rules {
		for j, p := range rule.Paths {
			if err := p.validate(); err != nil {
				return nil, fmt.Errorf("rules[%d].paths[%d]: %w", i, j, err)
			}
		}
	}
	return in.clone(), nil
}

// clone returns a deep copy; nil stays nil.
func (in *Ingress) clone() *Ingress {
	if in == nil {
		return nil
	}
	out := &Ingress{
		Annotations: maps.Clone(in.Annotations),
		ClassName:   clonePtr(in.ClassName),
	}
	for _, rule := range in.Rules {
		r := IngressRule{Host: rule.Host}
		for _, p := range rule.Paths {
			p.Path = clonePtr(p.Path)
			p.BackendServicePortName = clonePtr(p.BackendServicePortName)
			r.Paths = append(r.Paths, p)
		}
		out.Rules = append(out.Rules, r)
	}
	for _, t := range in.TLS {
		out.TLS = append(out.TLS, IngressTLS{Hosts: slices.Clone(t.Hosts), SecretName: clonePtr(t.SecretName)})
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (p IngressRuleHTTPPath) validate() error {
	switch p.PathType {
	case PathTypeExact, PathTypePrefix, PathTypeImplementationSpecific:
	default:
		return fmt.Errorf("%w: path type %q", ErrUnsupportedVariant, p.PathType)
	}
	if p.BackendServiceName == "" {
		return fmt.Errorf("%w: backend service name is required", ErrInvalidBackendReference)
	}
	hasNumber := p.BackendServicePortNumber != 0
	hasName := p.BackendServicePortName != nil && *p.BackendServicePortName != ""
	switch {
	case hasNumber && hasName:
		return fmt.Errorf("%w: port number %d and port name %q are mutually exclusive", ErrInvalidBackendReference, p.BackendServicePortNumber, *p.BackendServicePortName)
	case !hasNumber && !hasName:
		return fmt.Errorf("%w: one of port number or port name is required", ErrInvalidBackendReference)
	case hasNumber:
		if err := naming.ValidatePortNumber(p.BackendServicePortNumber); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBackendReference, err)
		}
	}
	return nil
}
