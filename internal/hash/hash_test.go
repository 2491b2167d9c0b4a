package hash_test

import (
	"testing"

	"github.com/gi8lino/sentry2ado/internal/hash"
	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("stable", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, hash.Fingerprint("web", "42", "abc"), hash.Fingerprint("web", "42", "abc"))
	})

	t.Run("hex encoded", func(t *testing.T) {
		t.Parallel()
		assert.Regexp(t, `^[a-f0-9]{16}$`, hash.Fingerprint("web"))
	})

	t.Run("part boundaries matter", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, hash.Fingerprint("ab", "c"), hash.Fingerprint("a", "bc"))
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		// FNV-1a 64 offset basis
		assert.Equal(t, "cbf29ce484222325", hash.Fingerprint())
	})
}
