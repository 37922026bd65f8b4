package cmd

import (
	"io"
	"testing"

	"github.com/baiye-site/sitecontent/config"
	"github.com/baiye-site/sitecontent/content"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0644))
	}

	v := viper.New()
	config.SetDefaults(v)
	var s config.Settings
	require.NoError(t, v.Unmarshal(&s))

	l := logrus.New()
	l.SetOutput(io.Discard)

	prevFs, prevSettings, prevLogger := appFs, settings, logger
	appFs, settings, logger = fs, &s, l
	t.Cleanup(func() {
		appFs, settings, logger = prevFs, prevSettings, prevLogger
	})

	return fs
}

func TestRunGenerateWritesSitemap(t *testing.T) {
	fs := setup(t, map[string]string{
		"content/siteconfig.yaml": "siteTitle: Guild\nbaseUrl: https://guild.example.org/\n",
		"content/members.yaml":    "- id: m1\n",
	})
	settings.Sitemap = true

	result, err := runGenerate()
	require.NoError(t, err)
	assert.Len(t, result.Artifacts, 2)

	sitemap, err := afero.ReadFile(fs, "public/sitemap.xml")
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<loc>https://guild.example.org/promotion</loc>")
}

func TestRunGenerateWithoutBaseURLSkipsSitemap(t *testing.T) {
	fs := setup(t, map[string]string{
		"content/siteconfig.json": `{"siteTitle": "Guild"}`,
		"content/members.json":    `[]`,
	})
	settings.Sitemap = true

	_, err := runGenerate()
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "public/sitemap.xml")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunGenerateFailsOnMissingMembers(t *testing.T) {
	setup(t, map[string]string{
		"content/siteconfig.yaml": "siteTitle: Guild\n",
	})

	_, err := runGenerate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
}

func TestConvertDocument(t *testing.T) {
	fs := setup(t, map[string]string{
		"content/members.yaml": "- id: m1\n  displayName: Alice\n",
		"content/members.json": "[]\n",
	})

	r, err := content.NewResolver(fs, "content", nil)
	require.NoError(t, err)

	_, err = convertDocument(r, config.MembersKey, content.FamilyJSON, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	ok, err := convertDocument(r, config.MembersKey, content.FamilyJSON, true)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := afero.ReadFile(fs, "content/members.json")
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": \"m1\",\n    \"displayName\": \"Alice\"\n  }\n]\n", string(data))

	// The source is kept.
	exists, err := afero.Exists(fs, "content/members.yaml")
	require.NoError(t, err)
	assert.True(t, exists)

	// Already in the target family, or absent: nothing to do.
	ok, err = convertDocument(r, config.MembersKey, content.FamilyYAML, false)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = convertDocument(r, config.PageHome.Key(), content.FamilyYAML, false)
	require.NoError(t, err)
	assert.False(t, ok)
}
