package v1alpha1

import (
	"fmt"
	"path/filepath"

	"github.com/yaegashi/kompoxwl/config/payload"
	"github.com/yaegashi/kompoxwl/domain/model"
)

// ToModels converts validated documents to domain workloads in input order.
// Conversion stops at the first document that fails.
func ToModels(documents []Document) ([]*model.Workload, error) {
	out := make([]*model.Workload, 0, len(documents))
	for _, doc := range documents {
		if doc.Object == nil {
			return nil, newValidationError(doc, "document has no object")
		}
		w, err := doc.Object.ToModel()
		if err != nil {
			verr := newValidationError(doc, err.Error())
			verr.Err = err
			return nil, verr
		}
		out = append(out, w)
	}
	return out, nil
}

// ToModel builds the domain workload bottom-up: probes, containers and
// volumes first, then the deployment, then the workload itself.
// Relative config file references are resolved against the directory of the
// document recorded in AnnotationDocPath.
func (wl *Workload) ToModel() (*model.Workload, error) {
	volumes := make([]*model.Volume, 0, len(wl.Spec.Volumes))
	for i, v := range wl.Spec.Volumes {
		vol, err := model.NewVolume(model.VolumeSpec{
			Name:          v.Name,
			Type:          model.VolumeType(v.Type),
			ConfigMapName: v.ConfigMapName,
			PVCClaimName:  v.PVCClaimName,
			PVCReadOnly:   v.PVCReadOnly,
		})
		if err != nil {
			return nil, fmt.Errorf("spec.volumes[%d]: %w", i, err)
		}
		volumes = append(volumes, vol)
	}

	containers := make([]*model.Container, 0, len(wl.Spec.Containers))
	for i, c := range wl.Spec.Containers {
		ctr, err := c.toModel()
		if err != nil {
			return nil, fmt.Errorf("spec.containers[%d]: %w", i, err)
		}
		containers = append(containers, ctr)
	}

	replicas := 1
	if wl.Spec.Replicas != nil {
		replicas = *wl.Spec.Replicas
	}
	deployment, err := model.NewDeployment(model.DeploymentSpec{
		Replicas:    replicas,
		Annotations: wl.Spec.Annotations,
		Containers:  containers,
		Volumes:     volumes,
	})
	if err != nil {
		return nil, fmt.Errorf("spec: %w", err)
	}

	spec := model.WorkloadSpec{
		Name:       wl.Name,
		Namespace:  wl.Namespace,
		Deployment: deployment,
	}

	if s := wl.Spec.Service; s != nil {
		typ := model.ServiceTypeClusterIP
		if s.Type != "" {
			if typ, err = model.ParseServiceType(s.Type); err != nil {
				return nil, fmt.Errorf("spec.service: %w", err)
			}
		}
		spec.Service = &model.ServiceExposure{Type: typ, PortNames: s.Ports}
	}

	if in := wl.Spec.Ingress; in != nil {
		ing, err := model.NewIngress(in.toModel())
		if err != nil {
			return nil, fmt.Errorf("spec.ingress: %w", err)
		}
		spec.Ingress = ing
	}

	if c := wl.Spec.Config; c != nil {
		cfg, err := c.toModel(wl.docDir())
		if err != nil {
			return nil, fmt.Errorf("spec.config: %w", err)
		}
		spec.Config = cfg
	}

	for _, c := range wl.Spec.Claims {
		spec.Claims = append(spec.Claims, model.ClaimRequest{
			Name: c.Name,
			Claim: model.PersistentVolumeClaim{
				StorageClassName: c.StorageClassName,
				AccessModes:      c.AccessModes,
				VolumeMode:       c.VolumeMode,
				Storage:          c.Storage,
				ReadOnly:         c.ReadOnly,
				MountPath:        c.MountPath,
			},
		})
	}

	return model.NewWorkload(spec)
}

func (wl *Workload) docDir() string {
	if p := wl.Annotations[AnnotationDocPath]; p != "" {
		return filepath.Dir(p)
	}
	return ""
}

func (c Container) toModel() (*model.Container, error) {
	hc, err := c.HealthCheck.toModel()
	if err != nil {
		return nil, fmt.Errorf("healthCheck: %w", err)
	}
	ports := make([]model.PortMapping, 0, len(c.Ports))
	for _, p := range c.Ports {
		ports = append(ports, model.PortMapping{Name: p.Name, Port: p.Port, ContainerPort: p.ContainerPort})
	}
	mounts := make([]model.VolumeMount, 0, len(c.VolumeMounts))
	for _, m := range c.VolumeMounts {
		mounts = append(mounts, model.VolumeMount{Name: m.Name, MountPath: m.MountPath, ReadOnly: m.ReadOnly})
	}
	return model.NewContainer(model.ContainerSpec{
		Name:         c.Name,
		Image:        c.Image,
		Args:         c.Args,
		Ports:        ports,
		HealthCheck:  hc,
		VolumeMounts: mounts,
	})
}

func (h *HealthCheck) toModel() (model.HealthCheck, error) {
	var hc model.HealthCheck
	if h == nil {
		return hc, nil
	}
	switch h.Preset {
	case "":
	case HealthCheckPresetDefault:
		hc = model.DefaultHealthCheck()
	default:
		return hc, fmt.Errorf("%w: preset %q", model.ErrUnsupportedVariant, h.Preset)
	}
	slots := []struct {
		name string
		in   *Probe
		out  **model.Probe
	}{
		{"startupProbe", h.StartupProbe, &hc.StartupProbe},
		{"readinessProbe", h.ReadinessProbe, &hc.ReadinessProbe},
		{"livenessProbe", h.LivenessProbe, &hc.LivenessProbe},
	}
	for _, s := range slots {
		if s.in == nil {
			continue
		}
		p, err := model.NewProbe(model.ProbeSpec{
			Port:             s.in.Port,
			Path:             s.in.Path,
			PeriodSeconds:    s.in.PeriodSeconds,
			FailureThreshold: s.in.FailureThreshold,
			TimeoutSeconds:   s.in.TimeoutSeconds,
		})
		if err != nil {
			return model.HealthCheck{}, fmt.Errorf("%s: %w", s.name, err)
		}
		*s.out = p
	}
	return hc, nil
}

func (in *Ingress) toModel() model.Ingress {
	out := model.Ingress{
		Annotations: in.Annotations,
		ClassName:   in.ClassName,
	}
	for _, r := range in.Rules {
		rule := model.IngressRule{Host: r.Host}
		for _, p := range r.Paths {
			path := model.IngressRuleHTTPPath{
				Path:                     p.Path,
				PathType:                 p.PathType,
				BackendServiceName:       p.Backend.Service,
				BackendServicePortNumber: p.Backend.Port,
			}
			if path.PathType == "" {
				path.PathType = model.PathTypePrefix
			}
			if p.Backend.PortName != "" {
				name := p.Backend.PortName
				path.BackendServicePortName = &name
			}
			rule.Paths = append(rule.Paths, path)
		}
		out.Rules = append(out.Rules, rule)
	}
	for _, t := range in.TLS {
		out.TLS = append(out.TLS, model.IngressTLS{Hosts: t.Hosts, SecretName: t.SecretName})
	}
	return out
}

func (c *Config) toModel(baseDir string) (*payload.SchemaConfig, error) {
	schema, err := inlineOrFile("schema", c.Schema, c.SchemaFile, baseDir)
	if err != nil {
		return nil, err
	}
	data, err := inlineOrFile("payload", c.Payload, c.PayloadFile, baseDir)
	if err != nil {
		return nil, err
	}
	return payload.New(schema, data, c.MountPath), nil
}

func inlineOrFile(field string, inline map[string]any, file, baseDir string) (map[string]any, error) {
	switch {
	case inline != nil && file != "":
		return nil, fmt.Errorf("%s and %sFile are mutually exclusive", field, field)
	case file != "":
		if !filepath.IsAbs(file) && baseDir != "" {
			file = filepath.Join(baseDir, file)
		}
		return payload.ReadFile(file)
	default:
		return inline, nil
	}
}
