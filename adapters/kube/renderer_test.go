package kube

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	netv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"

	"github.com/yaegashi/kompoxwl/config/payload"
	"github.com/yaegashi/kompoxwl/domain/model"
)

type workloadOpts struct {
	payload map[string]any
	claims  []model.ClaimRequest
	service *model.ServiceExposure
	ingress *model.Ingress
}

func buildWorkload(t *testing.T, o workloadOpts) *model.Workload {
	t.Helper()
	probe, err := model.NewProbe(model.ProbeSpec{Port: "http", Path: "/healthz", PeriodSeconds: 5, FailureThreshold: 10, TimeoutSeconds: 5})
	if err != nil {
		t.Fatal(err)
	}
	liveness, err := model.NewProbe(model.ProbeSpec{Port: 9000, Path: "/live"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := model.NewVolume(model.VolumeSpec{Name: "data", Type: model.VolumeTypePersistentVolumeClaim, PVCClaimName: "mempool-data", PVCReadOnly: ptr.To(true)})
	if err != nil {
		t.Fatal(err)
	}
	extra, err := model.NewVolume(model.VolumeSpec{Name: "extra", Type: model.VolumeTypeConfigMap, ConfigMapName: "shared-extra"})
	if err != nil {
		t.Fatal(err)
	}
	web, err := model.NewContainer(model.ContainerSpec{
		Name:         "web",
		Image:        "paulbouwer/hello-kubernetes:1.7",
		Args:         []string{"--verbose"},
		Ports:        []model.PortMapping{{Name: "http", Port: 80, ContainerPort: 8080}},
		HealthCheck:  model.HealthCheck{ReadinessProbe: probe, LivenessProbe: liveness},
		VolumeMounts: []model.VolumeMount{{Name: "data", MountPath: "/data", ReadOnly: true}, {Name: "extra", MountPath: "/extra"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	dep, err := model.NewDeployment(model.DeploymentSpec{
		Replicas:    3,
		Annotations: map[string]string{"team": "sequencer"},
		Containers:  []*model.Container{web},
		Volumes:     []*model.Volume{data, extra},
	})
	if err != nil {
		t.Fatal(err)
	}
	spec := model.WorkloadSpec{
		Name:       "mempool",
		Namespace:  "sequencer",
		Deployment: dep,
		Service:    o.service,
		Ingress:    o.ingress,
		Claims:     o.claims,
	}
	if o.payload != nil {
		spec.Config = payload.New(map[string]any{"type": "object"}, o.payload, "/config")
	}
	w, err := model.NewWorkload(spec)
	if err != nil {
		t.Fatalf("NewWorkload() error: %v", err)
	}
	return w
}

func kinds(objs []runtime.Object) []string {
	var out []string
	for _, o := range objs {
		out = append(out, o.GetObjectKind().GroupVersionKind().Kind)
	}
	return out
}

func TestRenderer_Objects_Full(t *testing.T) {
	ing, err := model.NewIngress(model.Ingress{
		ClassName:   ptr.To("nginx"),
		Annotations: map[string]string{"cert-manager.io/cluster-issuer": "letsencrypt"},
		Rules: []model.IngressRule{{Host: "mempool.example.com", Paths: []model.IngressRuleHTTPPath{
			{Path: ptr.To("/"), PathType: model.PathTypePrefix, BackendServiceName: "mempool", BackendServicePortName: ptr.To("http")},
			{Path: ptr.To("/metrics"), PathType: model.PathTypeExact, BackendServiceName: "metrics", BackendServicePortNumber: 9100},
		}}},
		TLS: []model.IngressTLS{{Hosts: []string{"mempool.example.com"}, SecretName: ptr.To("mempool-tls")}},
	})
	if err != nil {
		t.Fatal(err)
	}
	w := buildWorkload(t, workloadOpts{
		payload: map[string]any{"chain_id": "devnet", "block_time": 2},
		claims: []model.ClaimRequest{{Name: "mempool-data", Claim: model.PersistentVolumeClaim{
			StorageClassName: ptr.To("standard"),
			AccessModes:      []string{"ReadWriteOnce", "ReadWriteOnce"},
			VolumeMode:       ptr.To("Filesystem"),
			Storage:          ptr.To("32Gi"),
		}}},
		service: &model.ServiceExposure{Type: model.ServiceTypeLoadBalancer},
		ingress: ing,
	})

	objs, err := NewRenderer().Objects(w)
	if err != nil {
		t.Fatalf("Objects() error: %v", err)
	}
	if got := strings.Join(kinds(objs), ","); got != "ConfigMap,PersistentVolumeClaim,Deployment,Service,Ingress" {
		t.Fatalf("kinds = %s", got)
	}

	cm := objs[0].(*corev1.ConfigMap)
	if cm.Name != "mempool-config" || cm.Namespace != "sequencer" {
		t.Errorf("configmap = %s/%s", cm.Namespace, cm.Name)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(cm.Data[ConfigMapDataKey]), &decoded); err != nil || decoded["chain_id"] != "devnet" {
		t.Errorf("configmap data = %q (%v)", cm.Data[ConfigMapDataKey], err)
	}
	hash := cm.Annotations[AnnotationConfigHash]
	if len(hash) != 6 {
		t.Errorf("config hash = %q", hash)
	}

	pvc := objs[1].(*corev1.PersistentVolumeClaim)
	if len(pvc.Spec.AccessModes) != 1 || pvc.Spec.AccessModes[0] != corev1.ReadWriteOnce {
		t.Errorf("access modes = %v, want deduplicated [ReadWriteOnce]", pvc.Spec.AccessModes)
	}
	if q := pvc.Spec.Resources.Requests[corev1.ResourceStorage]; q.String() != "32Gi" {
		t.Errorf("storage = %s", q.String())
	}
	if *pvc.Spec.StorageClassName != "standard" || *pvc.Spec.VolumeMode != corev1.PersistentVolumeFilesystem {
		t.Errorf("pvc spec = %+v", pvc.Spec)
	}

	dep := objs[2].(*appsv1.Deployment)
	if *dep.Spec.Replicas != 3 || dep.Annotations["team"] != "sequencer" {
		t.Errorf("deployment replicas/annotations = %d/%v", *dep.Spec.Replicas, dep.Annotations)
	}
	if dep.Spec.Template.Annotations[AnnotationConfigHash] != hash {
		t.Errorf("pod template config hash = %q, want %q", dep.Spec.Template.Annotations[AnnotationConfigHash], hash)
	}
	if dep.Spec.Selector.MatchLabels[LabelAppSelector] != "mempool" {
		t.Errorf("selector = %v", dep.Spec.Selector.MatchLabels)
	}
	pod := dep.Spec.Template.Spec
	if len(pod.Volumes) != 3 {
		t.Fatalf("pod volumes = %d, want 3", len(pod.Volumes))
	}
	if v := pod.Volumes[0]; v.PersistentVolumeClaim == nil || v.PersistentVolumeClaim.ClaimName != "mempool-data" || !v.PersistentVolumeClaim.ReadOnly {
		t.Errorf("volume[0] = %+v", v)
	}
	if v := pod.Volumes[1]; v.ConfigMap == nil || v.ConfigMap.Name != "shared-extra" {
		t.Errorf("volume[1] = %+v", v)
	}
	if v := pod.Volumes[2]; v.Name != "mempool-config" || v.ConfigMap == nil || v.ConfigMap.Name != "mempool-config" {
		t.Errorf("config volume = %+v", v)
	}

	ctr := pod.Containers[0]
	if len(ctr.VolumeMounts) != 3 {
		t.Fatalf("volume mounts = %+v", ctr.VolumeMounts)
	}
	if m := ctr.VolumeMounts[2]; m.Name != "mempool-config" || m.MountPath != "/config" || !m.ReadOnly {
		t.Errorf("config mount = %+v", m)
	}
	if ctr.Ports[0].ContainerPort != 8080 || ctr.Ports[0].Name != "http" {
		t.Errorf("container ports = %+v", ctr.Ports)
	}
	rp := ctr.ReadinessProbe
	if rp == nil || rp.HTTPGet.Port.StrVal != "http" || rp.HTTPGet.Path != "/healthz" || rp.PeriodSeconds != 5 || rp.FailureThreshold != 10 || rp.TimeoutSeconds != 5 {
		t.Errorf("readiness probe = %+v", rp)
	}
	if lp := ctr.LivenessProbe; lp == nil || lp.HTTPGet.Port.IntValue() != 9000 {
		t.Errorf("liveness probe = %+v", lp)
	}
	if ctr.StartupProbe != nil {
		t.Errorf("startup probe = %+v, want nil", ctr.StartupProbe)
	}

	svc := objs[3].(*corev1.Service)
	if svc.Spec.Type != corev1.ServiceTypeLoadBalancer || len(svc.Spec.Ports) != 1 {
		t.Fatalf("service = %+v", svc.Spec)
	}
	if p := svc.Spec.Ports[0]; p.Port != 80 || p.TargetPort.IntValue() != 8080 || p.Name != "http" {
		t.Errorf("service port = %+v", p)
	}

	in := objs[4].(*netv1.Ingress)
	if *in.Spec.IngressClassName != "nginx" || in.Annotations["cert-manager.io/cluster-issuer"] != "letsencrypt" {
		t.Errorf("ingress meta = %+v", in.ObjectMeta)
	}
	paths := in.Spec.Rules[0].HTTP.Paths
	if paths[0].Backend.Service.Port.Name != "http" || paths[0].Backend.Service.Port.Number != 0 {
		t.Errorf("path[0] backend = %+v", paths[0].Backend.Service)
	}
	if paths[1].Backend.Service.Port.Number != 9100 || *paths[1].PathType != netv1.PathTypeExact {
		t.Errorf("path[1] = %+v", paths[1])
	}
	if in.Spec.TLS[0].SecretName != "mempool-tls" {
		t.Errorf("tls = %+v", in.Spec.TLS)
	}

	for _, o := range objs {
		if o.GetObjectKind().GroupVersionKind().Version == "" {
			t.Errorf("%T has no TypeMeta", o)
		}
	}
}

func TestRenderer_Objects_Minimal(t *testing.T) {
	objs, err := NewRenderer().Objects(buildWorkload(t, workloadOpts{}))
	if err != nil {
		t.Fatalf("Objects() error: %v", err)
	}
	if got := strings.Join(kinds(objs), ","); got != "Deployment" {
		t.Fatalf("kinds = %s, want Deployment only", got)
	}
	dep := objs[0].(*appsv1.Deployment)
	if _, ok := dep.Spec.Template.Annotations[AnnotationConfigHash]; ok {
		t.Error("config hash set without config")
	}
}

func TestRenderer_ConfigHashTracksPayload(t *testing.T) {
	hashOf := func(p map[string]any) string {
		objs, err := NewRenderer().Objects(buildWorkload(t, workloadOpts{payload: p}))
		if err != nil {
			t.Fatal(err)
		}
		return objs[0].(*corev1.ConfigMap).Annotations[AnnotationConfigHash]
	}
	a := hashOf(map[string]any{"a": 1, "b": map[string]any{"x": true, "y": "z"}})
	b := hashOf(map[string]any{"b": map[string]any{"y": "z", "x": true}, "a": 1})
	c := hashOf(map[string]any{"a": 2})
	if a != b {
		t.Errorf("hash depends on key order: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("different payloads share hash %s", a)
	}
}

func TestRenderer_ClaimErrors(t *testing.T) {
	tests := []struct {
		name    string
		claim   model.PersistentVolumeClaim
		wantErr error
	}{
		{name: "access mode", claim: model.PersistentVolumeClaim{AccessModes: []string{"ReadWriteSometimes"}}, wantErr: model.ErrUnsupportedVariant},
		{name: "volume mode", claim: model.PersistentVolumeClaim{VolumeMode: ptr.To("Tape")}, wantErr: model.ErrUnsupportedVariant},
		{name: "storage", claim: model.PersistentVolumeClaim{Storage: ptr.To("lots")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := buildWorkload(t, workloadOpts{claims: []model.ClaimRequest{{Name: "bad", Claim: tt.claim}}})
			_, err := NewRenderer().Objects(w)
			if err == nil {
				t.Fatal("Objects() succeeded")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Objects() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderer_ProbePortOutOfRange(t *testing.T) {
	for _, port := range []any{1 << 40, float64(1 << 40)} {
		probe, err := model.NewProbe(model.ProbeSpec{Port: port, Path: "/"})
		if err != nil {
			t.Fatalf("NewProbe(%v) error: %v", port, err)
		}
		ctr, err := model.NewContainer(model.ContainerSpec{Name: "app", Image: "nginx", HealthCheck: model.HealthCheck{ReadinessProbe: probe}})
		if err != nil {
			t.Fatal(err)
		}
		dep, err := model.NewDeployment(model.DeploymentSpec{Replicas: 1, Containers: []*model.Container{ctr}})
		if err != nil {
			t.Fatal(err)
		}
		w, err := model.NewWorkload(model.WorkloadSpec{Name: "app", Deployment: dep})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := NewRenderer().Objects(w); err == nil {
			t.Errorf("Objects() accepted probe port %v", port)
		}
	}
}

func TestRenderer_Render(t *testing.T) {
	a := buildWorkload(t, workloadOpts{service: &model.ServiceExposure{Type: model.ServiceTypeClusterIP}})
	out, err := NewRenderer().Render(context.Background(), []*model.Workload{a})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "---\n") || strings.Count(s, "---\n") != 2 {
		t.Errorf("manifest documents:\n%s", s)
	}
	for _, want := range []string{"apiVersion: apps/v1", "kind: Deployment", "kind: Service", "type: ClusterIP", "app.kubernetes.io/managed-by: kompoxwl"} {
		if !strings.Contains(s, want) {
			t.Errorf("manifest lacks %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "creationTimestamp") || strings.Contains(s, "status:") {
		t.Errorf("manifest not pruned:\n%s", s)
	}

	again, err := NewRenderer().Render(context.Background(), []*model.Workload{a})
	if err != nil || string(again) != s {
		t.Error("Render() is not deterministic")
	}
}
