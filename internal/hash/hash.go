package hash

import (
	"fmt"
	"hash/fnv"
)

// Fingerprint returns the FNV-1a 64-bit hash of parts as a hex string.
// Parts are separated by NUL so ("ab", "c") and ("a", "bc") differ.
func Fingerprint(parts ...string) string {
	h := fnv.New64a()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0}) // nolint:errcheck
		}
		h.Write([]byte(p)) // nolint:errcheck
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
