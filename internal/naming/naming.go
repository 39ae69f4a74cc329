// Package naming provides name validation and the short deterministic hashes
// used in rendered resource names, labels and annotations.
package naming

import (
	"crypto/sha1"
	"fmt"
)

// defaultLength defines the hex length of hashes (bits ~ length * 4).
const defaultLength = 6

// ShortHash returns the hex SHA1 prefix of length n (clamped to digest size).
func ShortHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	h := fmt.Sprintf("%x", sum)
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}

// ContentHash returns the default-length hash of arbitrary content.
func ContentHash(content string) string {
	return ShortHash(content, defaultLength)
}

// ConfigMapName returns the ConfigMap name holding a workload's config payload.
func ConfigMapName(workload string) string {
	return workload + "-config"
}
