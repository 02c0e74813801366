package release_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sarpublish.run/internal/release"
)

func TestRender(t *testing.T) {
	t.Parallel()

	template := []byte(strings.Join([]string{
		"Name: %sarAppName%",
		"Author: %sarAuthorName%",
		"Version: \"%semanticVersion%\"",
		"Region: %awsRegion%",
		"CodeUri: \"%codeUri%\"",
	}, "\n") + "\n")

	req := release.Request{
		AppName:         "forwarder",
		SemanticVersion: "1.2.3",
		BucketName:      "my-bucket",
		AccountID:       "123456789012",
		Region:          "eu-west-1",
		AuthorName:      "Elastic",
	}

	out, err := release.Render(
		release.ManifestMacro, template, req.Substitutions(release.ManifestMacro, "/ws/application"),
	)
	require.NoError(t, err)

	rendered := string(out)
	assert.NotContains(t, rendered, "%")
	assert.Contains(t, rendered, "Name: forwarder\n")
	assert.Contains(t, rendered, "Author: Elastic\n")
	assert.Contains(t, rendered, "Version: \"1.2.3\"\n")
	assert.Contains(t, rendered, "Region: eu-west-1\n")
	assert.Contains(t, rendered, "CodeUri: \"/ws/application\"\n")
}

func TestRender_UnresolvedPlaceholder(t *testing.T) {
	t.Parallel()

	template := []byte("Name: %sarAppName%\nSecret: %unknownToken%\n")
	values := map[string]string{"sarAppName": "forwarder"}

	_, err := release.Render(release.ManifestMacro, template, values)

	var templateErr *release.TemplateError
	require.ErrorAs(t, err, &templateErr)
	assert.Equal(t, release.ManifestMacro, templateErr.Kind)
	assert.Equal(t, []string{"%unknownToken%"}, templateErr.Tokens)
}

func TestRender_InvalidYAML(t *testing.T) {
	t.Parallel()

	template := []byte("Name: [%sarAppName%\n")
	values := map[string]string{"sarAppName": "forwarder"}

	_, err := release.Render(release.ManifestTemplate, template, values)

	var templateErr *release.TemplateError
	require.ErrorAs(t, err, &templateErr)
	assert.Empty(t, templateErr.Tokens)
}

func TestSubstitutions(t *testing.T) {
	t.Parallel()

	req := testRequest()

	macro := req.Substitutions(release.ManifestMacro, "/ws/application")
	assert.NotContains(t, macro, "sarBucketName")
	assert.NotContains(t, macro, "awsAccountId")

	application := req.Substitutions(release.ManifestApplication, "/ws/application")
	assert.Equal(t, "my-bucket", application["sarBucketName"])
	assert.NotContains(t, application, "awsAccountId")

	template := req.Substitutions(release.ManifestTemplate, "/ws/application")
	assert.Equal(t, "123456789012", template["awsAccountId"])
	assert.NotContains(t, template, "sarBucketName")
}

func TestRenderAll(t *testing.T) {
	src := sourceTree(t)
	templates := templatesDir(t)
	workspaceRoot(t)

	ws, err := release.NewWorkspace()
	require.NoError(t, err)
	defer ws.Remove()

	require.NoError(t, ws.Stage(src, release.DefaultStageSpec()))

	manifests, err := release.RenderAll(testRequest(), ws, templates)
	require.NoError(t, err)
	require.Len(t, manifests, 3)

	kinds := []release.ManifestKind{
		release.ManifestMacro, release.ManifestApplication, release.ManifestTemplate,
	}
	for i, manifest := range manifests {
		assert.Equal(t, kinds[i], manifest.Kind)
		assert.Equal(t, ws.ApplicationDir(), manifest.Values["codeUri"])

		raw, err := os.ReadFile(manifest.Path)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "%sarAppName%")
		assert.Equal(t, string(manifest.Kind)+".yaml", filepath.Base(manifest.Path))
	}
}

func TestRenderAll_MissingTemplate(t *testing.T) {
	src := sourceTree(t)
	workspaceRoot(t)

	ws, err := release.NewWorkspace()
	require.NoError(t, err)
	defer ws.Remove()

	require.NoError(t, ws.Stage(src, release.DefaultStageSpec()))

	_, err = release.RenderAll(testRequest(), ws, filepath.Join(t.TempDir(), "missing"))

	var templateErr *release.TemplateError
	require.ErrorAs(t, err, &templateErr)
}
