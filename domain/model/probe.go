package model

import (
	"fmt"
	"math"
	"strconv"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// ProbePortKind tells whether a ProbePort holds a number or a named port.
type ProbePortKind int

const (
	ProbePortUnset ProbePortKind = iota
	ProbePortInt
	ProbePortString
)

// ProbePort is the port a probe targets: a port number or a named container port.
type ProbePort struct {
	kind ProbePortKind
	num  int
	name string
}

// IntPort returns a numeric ProbePort.
func IntPort(n int) ProbePort { return ProbePort{kind: ProbePortInt, num: n} }

// NamedPort returns a ProbePort referring to a named container port.
func NamedPort(name string) ProbePort { return ProbePort{kind: ProbePortString, name: name} }

func (p ProbePort) Kind() ProbePortKind { return p.kind }
func (p ProbePort) IntValue() int       { return p.num }
func (p ProbePort) StrValue() string    { return p.name }
func (p ProbePort) IsZero() bool        { return p.kind == ProbePortUnset }

func (p ProbePort) String() string {
	switch p.kind {
	case ProbePortInt:
		return strconv.Itoa(p.num)
	case ProbePortString:
		return p.name
	default:
		return ""
	}
}

// ParseProbePort converts a loosely typed value into a ProbePort.
// Values decoded from YAML or JSON may carry booleans where a port is expected;
// those are rejected along with every type other than integers and strings.
// JSON numbers arrive as float64 and are accepted when integral.
func ParseProbePort(v any) (ProbePort, error) {
	switch x := v.(type) {
	case bool:
		return ProbePort{}, fmt.Errorf("%w: port must be an integer or a string, not bool (%v)", ErrInvalidPortType, x)
	case ProbePort:
		if x.IsZero() {
			return ProbePort{}, fmt.Errorf("%w: port is unset", ErrInvalidPortType)
		}
		return ParseProbePort(x.value())
	case intstr.IntOrString:
		if x.Type == intstr.String {
			return ParseProbePort(x.StrVal)
		}
		return IntPort(int(x.IntVal)), nil
	case int:
		return IntPort(x), nil
	case int8:
		return IntPort(int(x)), nil
	case int16:
		return IntPort(int(x)), nil
	case int32:
		return IntPort(int(x)), nil
	case int64:
		if x > math.MaxInt || x < math.MinInt {
			return ProbePort{}, fmt.Errorf("%w: port %d overflows int", ErrInvalidPortType, x)
		}
		return IntPort(int(x)), nil
	case uint8:
		return IntPort(int(x)), nil
	case uint16:
		return IntPort(int(x)), nil
	case uint32:
		return IntPort(int(x)), nil
	case uint:
		if uint64(x) > math.MaxInt {
			return ProbePort{}, fmt.Errorf("%w: port %d overflows int", ErrInvalidPortType, x)
		}
		return IntPort(int(x)), nil
	case uint64:
		if x > math.MaxInt {
			return ProbePort{}, fmt.Errorf("%w: port %d overflows int", ErrInvalidPortType, x)
		}
		return IntPort(int(x)), nil
	case float64:
		return floatPort(x)
	case float32:
		return floatPort(float64(x))
	case string:
		if x == "" {
			return ProbePort{}, fmt.Errorf("%w: named port must not be empty", ErrInvalidPortType)
		}
		return NamedPort(x), nil
	case nil:
		return ProbePort{}, fmt.Errorf("%w: port is required", ErrInvalidPortType)
	default:
		return ProbePort{}, fmt.Errorf("%w: unsupported port type %T", ErrInvalidPortType, v)
	}
}

// floatPort applies the same rule as the integer cases: the value must be
// integral and fit in int. Range limits of the target API are left to the renderer.
func floatPort(f float64) (ProbePort, error) {
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return ProbePort{}, fmt.Errorf("%w: port %v is not an integer", ErrInvalidPortType, f)
	}
	if f >= math.MaxInt || f < math.MinInt {
		return ProbePort{}, fmt.Errorf("%w: port %v overflows int", ErrInvalidPortType, f)
	}
	return IntPort(int(f)), nil
}

func (p ProbePort) value() any {
	if p.kind == ProbePortInt {
		return p.num
	}
	return p.name
}

// ProbeSpec is the constructor input for a Probe.
type ProbeSpec struct {
	Port             any
	Path             string
	PeriodSeconds    int
	FailureThreshold int
	TimeoutSeconds   int
}

// Probe is a single HTTP health-check probe definition.
type Probe struct {
	port             ProbePort
	path             string
	periodSeconds    int
	failureThreshold int
	timeoutSeconds   int
}

// NewProbe validates spec and returns the resulting Probe.
func NewProbe(spec ProbeSpec) (*Probe, error) {
	port, err := ParseProbePort(spec.Port)
	if err != nil {
		return nil, err
	}
	if spec.PeriodSeconds < 0 {
		return nil, fmt.Errorf("%w: periodSeconds must not be negative (%d)", ErrInvalidProbe, spec.PeriodSeconds)
	}
	if spec.FailureThreshold < 0 {
		return nil, fmt.Errorf("%w: failureThreshold must not be negative (%d)", ErrInvalidProbe, spec.FailureThreshold)
	}
	if spec.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("%w: timeoutSeconds must not be negative (%d)", ErrInvalidProbe, spec.TimeoutSeconds)
	}
	return &Probe{
		port:             port,
		path:             spec.Path,
		periodSeconds:    spec.PeriodSeconds,
		failureThreshold: spec.FailureThreshold,
		timeoutSeconds:   spec.TimeoutSeconds,
	}, nil
}

func (p *Probe) Port() ProbePort       { return p.port }
func (p *Probe) Path() string          { return p.path }
func (p *Probe) PeriodSeconds() int    { return p.periodSeconds }
func (p *Probe) FailureThreshold() int { return p.failureThreshold }
func (p *Probe) TimeoutSeconds() int   { return p.timeoutSeconds }

// HealthCheck groups the probes of one container. Every slot is optional.
type HealthCheck struct {
	StartupProbe   *Probe
	ReadinessProbe *Probe
	LivenessProbe  *Probe
}

// Probes returns the non-nil probes in startup, readiness, liveness order.
func (h HealthCheck) Probes() []*Probe {
	var out []*Probe
	for _, p := range []*Probe{h.StartupProbe, h.ReadinessProbe, h.LivenessProbe} {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
