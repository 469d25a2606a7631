package notify

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EmbeddedTemplates(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	link := "https://p.example/user/verify?token=abc&data=ZA%3D%3D"

	out, err := r.Render(TemplateVerifyEmail, map[string]any{"link": link, "first_name": "Joey"})
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Joey!")
	assert.Contains(t, out, "token=abc&amp;data=ZA%3D%3D")

	out, err = r.Render(TemplateForgotPassword, map[string]any{"link": link})
	require.NoError(t, err)
	assert.Contains(t, out, "your account")

	out, err = r.Render(TemplateChangePassword, map[string]any{"token": "t1", "data": "d1", "action": "/user/reset-forgot-password"})
	require.NoError(t, err)
	assert.Contains(t, out, `name="token" value="t1"`)
	assert.Contains(t, out, `name="data" value="d1"`)
	assert.Contains(t, out, `action="/user/reset-forgot-password"`)
}

func TestRenderer_Autoescapes(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	out, err := r.Render(TemplateChangePassword, map[string]any{"token": `"><script>x</script>`})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestRenderer_CustomFSAndMissingTemplate(t *testing.T) {
	r, err := NewRenderer(fstest.MapFS{
		"hello.html": {Data: []byte("Hello {{ name }}")},
	})
	require.NoError(t, err)

	out, err := r.Render("hello.html", map[string]any{"name": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ann", out)

	_, err = r.Render("missing.html", nil)
	assert.Error(t, err)
}
