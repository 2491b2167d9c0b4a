package utils_test

import (
	"testing"

	"github.com/gi8lino/sentry2ado/internal/azure"
	"github.com/gi8lino/sentry2ado/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestObfuscateHeader(t *testing.T) {
	t.Parallel()

	t.Run("returns empty on empty input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", utils.ObfuscateHeader(""))
	})

	t.Run("returns invalid if no scheme", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "[invalid header]", utils.ObfuscateHeader("invalidheader"))
	})

	t.Run("obfuscates token with full length > 4", func(t *testing.T) {
		t.Parallel()
		result := utils.ObfuscateHeader("Basic abcdefghijkl")
		assert.Equal(t, "Basic ab********kl", result)
	})

	t.Run("obfuscates short token length <= 4", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Basic ****", utils.ObfuscateHeader("Basic abcd"))
		assert.Equal(t, "Basic ***", utils.ObfuscateHeader("Basic abc"))
		assert.Equal(t, "Basic *", utils.ObfuscateHeader("Basic a"))
		assert.Equal(t, "Basic ", utils.ObfuscateHeader("Basic "))
	})
}

func TestGetAuthorizationHeader(t *testing.T) {
	t.Parallel()

	t.Run("gets PAT basic auth header", func(t *testing.T) {
		t.Parallel()
		header := utils.GetAuthorizationHeader(azure.NewPATAuth("secret123"))
		// base64(":secret123")
		assert.Equal(t, "Basic OnNlY3JldDEyMw==", header)
	})

	t.Run("obfuscated PAT header hides the token", func(t *testing.T) {
		t.Parallel()
		header := utils.ObfuscateHeader(utils.GetAuthorizationHeader(azure.NewPATAuth("secret123")))
		assert.Equal(t, "Basic On************==", header)
	})
}

func TestNormalizeRoutePrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                        "",
		"/":                       "",
		"  ":                      "",
		"sentry2ado":              "/sentry2ado",
		"/sentry2ado/":            "/sentry2ado",
		"/api/sentry-webhook":     "/api/sentry-webhook",
		"https://x/hooks/sentry/": "/hooks/sentry",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, utils.NormalizeRoutePrefix(in))
		})
	}
}
