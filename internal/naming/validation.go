package naming

import (
	"fmt"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

func validateDNS1123Label(name, labelKind string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", labelKind)
	}
	if errs := utilvalidation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid %s name %q: %s", labelKind, name, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateWorkloadName checks a workload name. The name is reused for the
// Deployment, Service and ConfigMap, so it must be a DNS-1123 label.
func ValidateWorkloadName(name string) error {
	return validateDNS1123Label(name, "workload")
}

func ValidateContainerName(name string) error {
	return validateDNS1123Label(name, "container")
}

func ValidateVolumeName(name string) error {
	return validateDNS1123Label(name, "volume")
}

// ValidateClaimName checks a PersistentVolumeClaim object name (DNS-1123 subdomain).
func ValidateClaimName(name string) error {
	if name == "" {
		return fmt.Errorf("claim name must not be empty")
	}
	if errs := utilvalidation.IsDNS1123Subdomain(name); len(errs) > 0 {
		return fmt.Errorf("invalid claim name %q: %s", name, strings.Join(errs, ", "))
	}
	return nil
}

// ValidatePortName checks a container port name (IANA_SVC_NAME).
func ValidatePortName(name string) error {
	if name == "" {
		return fmt.Errorf("port name must not be empty")
	}
	if errs := utilvalidation.IsValidPortName(name); len(errs) > 0 {
		return fmt.Errorf("invalid port name %q: %s", name, strings.Join(errs, ", "))
	}
	return nil
}

// ValidatePortNumber checks a TCP/UDP port number (1-65535).
func ValidatePortNumber(port int) error {
	if errs := utilvalidation.IsValidPortNum(port); len(errs) > 0 {
		return fmt.Errorf("invalid port number %d: %s", port, strings.Join(errs, ", "))
	}
	return nil
}
