package model

import (
	"errors"
	"math"
	"testing"

	"k8s.io/apimachinery/pkg/util/intstr"
)

func TestNewProbe_Port(t *testing.T) {
	tests := []struct {
		name     string
		port     any
		wantErr  error
		wantKind ProbePortKind
		wantInt  int
		wantStr  string
	}{
		{name: "bool true rejected", port: true, wantErr: ErrInvalidPortType},
		{name: "bool false rejected", port: false, wantErr: ErrInvalidPortType},
		{name: "nil rejected", port: nil, wantErr: ErrInvalidPortType},
		{name: "empty string rejected", port: "", wantErr: ErrInvalidPortType},
		{name: "slice rejected", port: []int{80}, wantErr: ErrInvalidPortType},
		{name: "fractional float rejected", port: 80.5, wantErr: ErrInvalidPortType},
		{name: "infinite float rejected", port: math.Inf(1), wantErr: ErrInvalidPortType},
		{name: "NaN rejected", port: math.NaN(), wantErr: ErrInvalidPortType},
		{name: "float beyond int rejected", port: float64(math.MaxInt64) * 2, wantErr: ErrInvalidPortType},
		{name: "uint64 beyond int rejected", port: uint64(math.MaxUint64), wantErr: ErrInvalidPortType},
		{name: "unset ProbePort rejected", port: ProbePort{}, wantErr: ErrInvalidPortType},
		{name: "int", port: 8080, wantKind: ProbePortInt, wantInt: 8080},
		{name: "zero int", port: 0, wantKind: ProbePortInt, wantInt: 0},
		{name: "int32", port: int32(9090), wantKind: ProbePortInt, wantInt: 9090},
		{name: "int64", port: int64(443), wantKind: ProbePortInt, wantInt: 443},
		{name: "uint16", port: uint16(80), wantKind: ProbePortInt, wantInt: 80},
		{name: "integral float from JSON", port: float64(8082), wantKind: ProbePortInt, wantInt: 8082},
		{name: "large int kept", port: 1 << 40, wantKind: ProbePortInt, wantInt: 1 << 40},
		{name: "large float kept like int", port: float64(1 << 40), wantKind: ProbePortInt, wantInt: 1 << 40},
		{name: "named", port: "http", wantKind: ProbePortString, wantStr: "http"},
		{name: "IntPort", port: IntPort(81), wantKind: ProbePortInt, wantInt: 81},
		{name: "NamedPort", port: NamedPort("metrics"), wantKind: ProbePortString, wantStr: "metrics"},
		{name: "intstr int", port: intstr.FromInt32(2368), wantKind: ProbePortInt, wantInt: 2368},
		{name: "intstr string", port: intstr.FromString("web"), wantKind: ProbePortString, wantStr: "web"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProbe(ProbeSpec{Port: tt.port, Path: "/healthz", PeriodSeconds: 10, FailureThreshold: 3, TimeoutSeconds: 2})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewProbe() error = %v, want %v", err, tt.wantErr)
				}
				if p != nil {
					t.Fatalf("NewProbe() returned a probe on failure: %+v", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProbe() unexpected error: %v", err)
			}
			got := p.Port()
			if got.Kind() != tt.wantKind {
				t.Errorf("Port().Kind() = %v, want %v", got.Kind(), tt.wantKind)
			}
			if got.IntValue() != tt.wantInt {
				t.Errorf("Port().IntValue() = %d, want %d", got.IntValue(), tt.wantInt)
			}
			if got.StrValue() != tt.wantStr {
				t.Errorf("Port().StrValue() = %q, want %q", got.StrValue(), tt.wantStr)
			}
		})
	}
}

func TestNewProbe_BooleanPortExample(t *testing.T) {
	_, err := NewProbe(ProbeSpec{Port: true, Path: "/healthz", PeriodSeconds: 10, FailureThreshold: 3, TimeoutSeconds: 2})
	if !errors.Is(err, ErrInvalidPortType) {
		t.Fatalf("NewProbe(port=true) error = %v, want ErrInvalidPortType", err)
	}
}

func TestNewProbe_NegativeFields(t *testing.T) {
	tests := []struct {
		name string
		spec ProbeSpec
	}{
		{name: "period", spec: ProbeSpec{Port: 80, PeriodSeconds: -1}},
		{name: "failure threshold", spec: ProbeSpec{Port: 80, FailureThreshold: -1}},
		{name: "timeout", spec: ProbeSpec{Port: 80, TimeoutSeconds: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProbe(tt.spec); !errors.Is(err, ErrInvalidProbe) {
				t.Fatalf("NewProbe() error = %v, want ErrInvalidProbe", err)
			}
		})
	}
}

func TestNewProbe_RoundTripAndIdempotence(t *testing.T) {
	spec := ProbeSpec{Port: "http", Path: "/", PeriodSeconds: 5, FailureThreshold: 10, TimeoutSeconds: 5}
	a, err := NewProbe(spec)
	if err != nil {
		t.Fatalf("NewProbe() error: %v", err)
	}
	b, err := NewProbe(spec)
	if err != nil {
		t.Fatalf("NewProbe() error: %v", err)
	}
	for _, p := range []*Probe{a, b} {
		if p.Port().String() != "http" || p.Path() != "/" || p.PeriodSeconds() != 5 || p.FailureThreshold() != 10 || p.TimeoutSeconds() != 5 {
			t.Fatalf("probe attributes differ from input: %+v", p)
		}
	}
	if *a != *b {
		t.Fatalf("identical inputs produced different probes: %+v vs %+v", a, b)
	}
}

func TestHealthCheck_Probes(t *testing.T) {
	p, err := NewProbe(ProbeSpec{Port: 80, Path: "/"})
	if err != nil {
		t.Fatalf("NewProbe() error: %v", err)
	}
	if got := (HealthCheck{}).Probes(); len(got) != 0 {
		t.Errorf("empty HealthCheck returned %d probes", len(got))
	}
	if got := (HealthCheck{ReadinessProbe: p}).Probes(); len(got) != 1 || got[0] != p {
		t.Errorf("HealthCheck.Probes() = %v, want [readiness]", got)
	}
	if got := (HealthCheck{StartupProbe: p, ReadinessProbe: p, LivenessProbe: p}).Probes(); len(got) != 3 {
		t.Errorf("HealthCheck.Probes() returned %d probes, want 3", len(got))
	}
}

func TestDefaultHealthCheck(t *testing.T) {
	hc := DefaultHealthCheck()
	probes := hc.Probes()
	if len(probes) != 3 {
		t.Fatalf("Probes() = %d probes, want 3", len(probes))
	}
	for _, p := range probes {
		if p.Port() != NamedPort("http") || p.Path() != "/" {
			t.Errorf("probe port/path = %v %q", p.Port(), p.Path())
		}
		if p.PeriodSeconds() != 5 || p.FailureThreshold() != 10 || p.TimeoutSeconds() != 5 {
			t.Errorf("probe timings = %d/%d/%d", p.PeriodSeconds(), p.FailureThreshold(), p.TimeoutSeconds())
		}
	}
}
