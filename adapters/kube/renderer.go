package kube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	netv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	"github.com/yaegashi/kompoxwl/domain/model"
	"github.com/yaegashi/kompoxwl/internal/logging"
	"github.com/yaegashi/kompoxwl/internal/naming"
)

// Renderer renders workloads to Kubernetes manifests.
type Renderer struct{}

var _ model.Renderer = (*Renderer)(nil)

// NewRenderer returns a Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render returns the multi-document YAML manifest of all workloads, in order.
func (r *Renderer) Render(ctx context.Context, workloads []*model.Workload) ([]byte, error) {
	logger := logging.FromContext(ctx)
	var objs []runtime.Object
	for _, w := range workloads {
		wobjs, err := r.Objects(w)
		if err != nil {
			return nil, fmt.Errorf("workload %q: %w", w.Name(), err)
		}
		logger.Debug(ctx, "rendered workload", "workload", w.Name(), "objects", len(wobjs))
		objs = append(objs, wobjs...)
	}
	var buf bytes.Buffer
	if err := EncodeManifest(&buf, objs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Objects converts one workload into Kubernetes objects.
// Output order: ConfigMap (optional), PVCs, Deployment, Service (optional), Ingress (optional).
func (r *Renderer) Objects(w *model.Workload) ([]runtime.Object, error) {
	var objs []runtime.Object
	labels := CommonLabels(w.Name())

	var cm *corev1.ConfigMap
	var configHash string
	if cfg := w.Config(); cfg != nil {
		var err error
		cm, configHash, err = configMapObject(w, cfg, labels)
		if err != nil {
			return nil, err
		}
		objs = append(objs, cm)
	}

	for _, c := range w.Claims() {
		pvc, err := pvcObject(w, c, labels)
		if err != nil {
			return nil, fmt.Errorf("claim %q: %w", c.Name, err)
		}
		objs = append(objs, pvc)
	}

	dep, err := deploymentObject(w, labels, configHash)
	if err != nil {
		return nil, err
	}
	objs = append(objs, dep)

	if w.Service() != nil {
		svc, err := serviceObject(w, labels)
		if err != nil {
			return nil, err
		}
		objs = append(objs, svc)
	}

	if w.Ingress() != nil {
		ing, err := ingressObject(w, labels)
		if err != nil {
			return nil, err
		}
		objs = append(objs, ing)
	}

	for _, obj := range objs {
		if err := SetTypeMeta(obj); err != nil {
			return nil, err
		}
	}
	return objs, nil
}

func objectMeta(w *model.Workload, name string, labels map[string]string) metav1.ObjectMeta {
	return metav1.ObjectMeta{Name: name, Namespace: w.Namespace(), Labels: labels}
}

func configMapObject(w *model.Workload, cfg model.Config, labels map[string]string) (*corev1.ConfigMap, string, error) {
	payload := cfg.Payload()
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encoding config payload: %w", err)
	}
	hash := naming.ContentHash(string(b))
	meta := objectMeta(w, ConfigMapName(w.Name()), labels)
	meta.Annotations = map[string]string{AnnotationConfigHash: hash}
	return &corev1.ConfigMap{
		ObjectMeta: meta,
		Data:       map[string]string{ConfigMapDataKey: string(b)},
	}, hash, nil
}

var (
	accessModes = []corev1.PersistentVolumeAccessMode{
		corev1.ReadWriteOnce,
		corev1.ReadOnlyMany,
		corev1.ReadWriteMany,
		corev1.ReadWriteOncePod,
	}
	volumeModes = []corev1.PersistentVolumeMode{
		corev1.PersistentVolumeFilesystem,
		corev1.PersistentVolumeBlock,
	}
)

func pvcObject(w *model.Workload, c model.ClaimRequest, labels map[string]string) (*corev1.PersistentVolumeClaim, error) {
	var spec corev1.PersistentVolumeClaimSpec
	for _, m := range c.Claim.AccessModes {
		mode := corev1.PersistentVolumeAccessMode(m)
		if !slices.Contains(accessModes, mode) {
			return nil, fmt.Errorf("%w: access mode %q", model.ErrUnsupportedVariant, m)
		}
		if !slices.Contains(spec.AccessModes, mode) {
			spec.AccessModes = append(spec.AccessModes, mode)
		}
	}
	if vm := c.Claim.VolumeMode; vm != nil {
		mode := corev1.PersistentVolumeMode(*vm)
		if !slices.Contains(volumeModes, mode) {
			return nil, fmt.Errorf("%w: volume mode %q", model.ErrUnsupportedVariant, *vm)
		}
		spec.VolumeMode = ptr.To(mode)
	}
	if s := c.Claim.Storage; s != nil {
		qty, err := resource.ParseQuantity(*s)
		if err != nil {
			return nil, fmt.Errorf("storage %q: %w", *s, err)
		}
		spec.Resources = corev1.VolumeResourceRequirements{Requests: corev1.ResourceList{corev1.ResourceStorage: qty}}
	}
	if sc := c.Claim.StorageClassName; sc != nil {
		spec.StorageClassName = ptr.To(*sc)
	}
	return &corev1.PersistentVolumeClaim{ObjectMeta: objectMeta(w, c.Name, labels), Spec: spec}, nil
}

func deploymentObject(w *model.Workload, labels map[string]string, configHash string) (*appsv1.Deployment, error) {
	d := w.Deployment()
	replicas, err := toInt32(d.Replicas(), "replicas")
	if err != nil {
		return nil, err
	}

	var podSpec corev1.PodSpec
	for _, v := range d.Volumes() {
		vol, err := podVolume(v)
		if err != nil {
			return nil, err
		}
		podSpec.Volumes = append(podSpec.Volumes, vol)
	}

	var configMount *corev1.VolumeMount
	if cfg := w.Config(); cfg != nil {
		name := ConfigMapName(w.Name())
		podSpec.Volumes = append(podSpec.Volumes, corev1.Volume{
			Name:         name,
			VolumeSource: corev1.VolumeSource{ConfigMap: &corev1.ConfigMapVolumeSource{LocalObjectReference: corev1.LocalObjectReference{Name: name}}},
		})
		configMount = &corev1.VolumeMount{Name: name, MountPath: cfg.MountPath(), ReadOnly: true}
	}

	for _, c := range d.Containers() {
		ctr, err := containerSpec(c)
		if err != nil {
			return nil, fmt.Errorf("container %q: %w", c.Name(), err)
		}
		if configMount != nil {
			ctr.VolumeMounts = append(ctr.VolumeMounts, *configMount)
		}
		podSpec.Containers = append(podSpec.Containers, ctr)
	}

	tmplMeta := metav1.ObjectMeta{Labels: labels}
	if configHash != "" {
		tmplMeta.Annotations = map[string]string{AnnotationConfigHash: configHash}
	}

	meta := objectMeta(w, w.Name(), labels)
	if ann := d.Annotations(); len(ann) > 0 {
		meta.Annotations = ann
	}
	return &appsv1.Deployment{
		ObjectMeta: meta,
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(replicas),
			Selector: &metav1.LabelSelector{MatchLabels: SelectorLabels(w.Name())},
			Template: corev1.PodTemplateSpec{ObjectMeta: tmplMeta, Spec: podSpec},
		},
	}, nil
}

func podVolume(v *model.Volume) (corev1.Volume, error) {
	out := corev1.Volume{Name: v.Name()}
	switch src := v.Source().(type) {
	case model.ConfigMapVolumeSource:
		out.ConfigMap = &corev1.ConfigMapVolumeSource{LocalObjectReference: corev1.LocalObjectReference{Name: src.Name}}
	case model.PersistentVolumeClaimVolumeSource:
		out.PersistentVolumeClaim = &corev1.PersistentVolumeClaimVolumeSource{ClaimName: src.ClaimName, ReadOnly: src.ReadOnly}
	default:
		return corev1.Volume{}, fmt.Errorf("volume %q: %w: source %T", v.Name(), model.ErrUnsupportedVariant, src)
	}
	return out, nil
}

func containerSpec(c *model.Container) (corev1.Container, error) {
	ctr := corev1.Container{Name: c.Name(), Image: c.Image(), Args: c.Args()}
	for _, p := range c.Ports() {
		cp, err := toInt32(p.ContainerPort, "containerPort")
		if err != nil {
			return corev1.Container{}, err
		}
		ctr.Ports = append(ctr.Ports, corev1.ContainerPort{Name: p.Name, ContainerPort: cp, Protocol: corev1.ProtocolTCP})
	}
	hc := c.HealthCheck()
	var err error
	if ctr.StartupProbe, err = probeSpec(hc.StartupProbe); err != nil {
		return corev1.Container{}, fmt.Errorf("startupProbe: %w", err)
	}
	if ctr.ReadinessProbe, err = probeSpec(hc.ReadinessProbe); err != nil {
		return corev1.Container{}, fmt.Errorf("readinessProbe: %w", err)
	}
	if ctr.LivenessProbe, err = probeSpec(hc.LivenessProbe); err != nil {
		return corev1.Container{}, fmt.Errorf("livenessProbe: %w", err)
	}
	for _, m := range c.VolumeMounts() {
		ctr.VolumeMounts = append(ctr.VolumeMounts, corev1.VolumeMount{Name: m.Name, MountPath: m.MountPath, ReadOnly: m.ReadOnly})
	}
	return ctr, nil
}

func probeSpec(p *model.Probe) (*corev1.Probe, error) {
	if p == nil {
		return nil, nil
	}
	var port intstr.IntOrString
	switch p.Port().Kind() {
	case model.ProbePortInt:
		n, err := toInt32(p.Port().IntValue(), "port")
		if err != nil {
			return nil, err
		}
		port = intstr.FromInt32(n)
	case model.ProbePortString:
		port = intstr.FromString(p.Port().StrValue())
	default:
		return nil, fmt.Errorf("%w: probe port is unset", model.ErrInvalidPortType)
	}
	period, err := toInt32(p.PeriodSeconds(), "periodSeconds")
	if err != nil {
		return nil, err
	}
	failure, err := toInt32(p.FailureThreshold(), "failureThreshold")
	if err != nil {
		return nil, err
	}
	timeout, err := toInt32(p.TimeoutSeconds(), "timeoutSeconds")
	if err != nil {
		return nil, err
	}
	return &corev1.Probe{
		ProbeHandler:     corev1.ProbeHandler{HTTPGet: &corev1.HTTPGetAction{Path: p.Path(), Port: port}},
		PeriodSeconds:    period,
		FailureThreshold: failure,
		TimeoutSeconds:   timeout,
	}, nil
}

func serviceObject(w *model.Workload, labels map[string]string) (*corev1.Service, error) {
	svc := w.Service()
	var ports []corev1.ServicePort
	for _, p := range w.ServicePorts() {
		port, err := toInt32(p.Port, "port")
		if err != nil {
			return nil, fmt.Errorf("service port %q: %w", p.Name, err)
		}
		target, err := toInt32(p.ContainerPort, "containerPort")
		if err != nil {
			return nil, fmt.Errorf("service port %q: %w", p.Name, err)
		}
		ports = append(ports, corev1.ServicePort{
			Name:       p.Name,
			Protocol:   corev1.ProtocolTCP,
			Port:       port,
			TargetPort: intstr.FromInt32(target),
		})
	}
	return &corev1.Service{
		ObjectMeta: objectMeta(w, w.Name(), labels),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceType(svc.Type),
			Selector: SelectorLabels(w.Name()),
			Ports:    ports,
		},
	}, nil
}

func ingressObject(w *model.Workload, labels map[string]string) (*netv1.Ingress, error) {
	in := w.Ingress()
	meta := objectMeta(w, w.Name(), labels)
	if len(in.Annotations) > 0 {
		meta.Annotations = in.Annotations
	}
	spec := netv1.IngressSpec{IngressClassName: in.ClassName}
	for _, r := range in.Rules {
		rule := netv1.IngressRule{Host: r.Host}
		if len(r.Paths) > 0 {
			rule.HTTP = &netv1.HTTPIngressRuleValue{}
		}
		for _, p := range r.Paths {
			backend := &netv1.IngressServiceBackend{Name: p.BackendServiceName}
			if p.BackendServicePortName != nil && *p.BackendServicePortName != "" {
				backend.Port.Name = *p.BackendServicePortName
			} else {
				n, err := toInt32(p.BackendServicePortNumber, "ingress backend port")
				if err != nil {
					return nil, err
				}
				backend.Port.Number = n
			}
			path := ""
			if p.Path != nil {
				path = *p.Path
			}
			rule.HTTP.Paths = append(rule.HTTP.Paths, netv1.HTTPIngressPath{
				Path:     path,
				PathType: ptr.To(netv1.PathType(p.PathType)),
				Backend:  netv1.IngressBackend{Service: backend},
			})
		}
		spec.Rules = append(spec.Rules, rule)
	}
	for _, t := range in.TLS {
		tls := netv1.IngressTLS{Hosts: t.Hosts}
		if t.SecretName != nil {
			tls.SecretName = *t.SecretName
		}
		spec.TLS = append(spec.TLS, tls)
	}
	return &netv1.Ingress{ObjectMeta: meta, Spec: spec}, nil
}

func toInt32(n int, field string) (int32, error) {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("%s %d out of range", field, n)
	}
	return int32(n), nil
}
