package model

// DefaultProbeSpec is the HTTP probe used when a container asks for the
// default health check: GET / on the port named "http".
func DefaultProbeSpec() ProbeSpec {
	return ProbeSpec{
		Port:             "http",
		Path:             "/",
		PeriodSeconds:    5,
		FailureThreshold: 10,
		TimeoutSeconds:   5,
	}
}

// DefaultHealthCheck fills every probe slot with DefaultProbeSpec.
func DefaultHealthCheck() HealthCheck {
	p, err := NewProbe(DefaultProbeSpec())
	if err != nil {
		panic(err)
	}
	return HealthCheck{StartupProbe: p, ReadinessProbe: p, LivenessProbe: p}
}
