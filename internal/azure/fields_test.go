package azure

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields(t *testing.T) {
	t.Parallel()

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		f := Fields{{Name: FieldTitle, Value: "a"}}

		v, ok := f.Get(FieldTitle)
		assert.True(t, ok)
		assert.Equal(t, "a", v)

		_, ok = f.Get(FieldTags)
		assert.False(t, ok)
	})

	t.Run("patch keeps order", func(t *testing.T) {
		t.Parallel()

		f := Fields{
			{Name: FieldTitle, Value: "t"},
			{Name: FieldAreaPath, Value: `web\api`},
		}

		raw, err := f.MarshalPatch()
		require.NoError(t, err)
		assert.JSONEq(t, `[
			{"op":"add","path":"/fields/System.Title","value":"t"},
			{"op":"add","path":"/fields/System.AreaPath","value":"web\\api"}
		]`, string(raw))
	})
}

func TestNewPATAuth(t *testing.T) {
	t.Parallel()

	req, err := http.NewRequest(http.MethodPost, "https://example.com", nil)
	require.NoError(t, err)
	NewPATAuth(" token ")(req)

	user, pass, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "", user)
	assert.Equal(t, "token", pass)
}
