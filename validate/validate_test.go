package validate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/baiye-site/sitecontent/config"
	"github.com/baiye-site/sitecontent/content"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodSiteConfig = `
siteTitle: Guild
baseUrl: https://guild.example.org/
defaultAvatar: /assets/placeholders/avatar-small.png
socialMedia:
  officialEmail: guild@example.org
`

const goodMembers = `
- id: m1
  displayName: Alice
  avatar: /assets/a.png
  sources: ["forum post"]
`

func newValidator(t *testing.T, files map[string]string) *Validator {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0644))
	}
	r, err := content.NewResolver(fs, "content", nil)
	require.NoError(t, err)
	return &Validator{
		Resolver:           r,
		Fs:                 fs,
		AssetsDir:          "public/assets/placeholders",
		PlaceholderMarkers: []string{"占位"},
		BaseURLPlaceholder: "https://your-deploy-url/",
	}
}

func withAssets(files map[string]string) map[string]string {
	files["public/assets/placeholders/avatar-small.png"] = "png"
	files["public/assets/placeholders/avatar-large.png"] = "png"
	return files
}

func fieldIssues(issues []Issue, field string) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Field == field {
			out = append(out, i)
		}
	}
	return out
}

func TestRunCleanContent(t *testing.T) {
	v := newValidator(t, withAssets(map[string]string{
		"content/siteconfig.yaml": goodSiteConfig,
		"content/members.yaml":    goodMembers,
	}))

	report := v.Run()
	assert.Empty(t, report.Issues)
	assert.Equal(t, Clean, report.Outcome())
	assert.Equal(t, 0, report.ExitCode())
}

func TestDuplicateIDReportedOnce(t *testing.T) {
	v := newValidator(t, withAssets(map[string]string{
		"content/siteconfig.yaml": goodSiteConfig,
		"content/members.yaml": `
- id: m1
  displayName: Alice
  avatar: /a.png
  sources: [x]
- id: "m1"
  displayName: ""
  avatar: /b.png
  sources: [y]
`,
	}))

	report := v.Run()

	dups := fieldIssues(report.Errors(), "id")
	require.Len(t, dups, 1)
	assert.Equal(t, "member 2", dups[0].Subject)
	assert.Contains(t, dups[0].Message, `"m1"`)

	// The blank displayName on the same member is still reported.
	assert.Len(t, fieldIssues(report.Errors(), "displayName"), 1)
	assert.Equal(t, Fail, report.Outcome())
	assert.Equal(t, 1, report.ExitCode())
}

func TestDuplicateIDPerRepeatedOccurrence(t *testing.T) {
	v := newValidator(t, nil)
	report := v.ValidateMembers([]any{
		map[string]any{"id": "a", "displayName": "A", "avatar": "/a", "sources": []any{"s"}},
		map[string]any{"id": "a", "displayName": "B", "avatar": "/b", "sources": []any{"s"}},
		map[string]any{"id": "a", "displayName": "C", "avatar": "/c", "sources": []any{"s"}},
		map[string]any{"id": "b", "displayName": "D", "avatar": "/d", "sources": []any{"s"}},
	})

	assert.Len(t, report.Errors(), 2)
	assert.Empty(t, report.Warnings())
}

func TestMemberFieldChecks(t *testing.T) {
	v := newValidator(t, nil)
	report := v.ValidateMembers([]any{
		map[string]any{
			"id":          "m1",
			"displayName": "占位成员",
			"avatar":      "assets/x.png",
			"bio":         "占位简介",
			"tags":        "pvp",
			"draft":       true,
		},
		"not an object",
	})

	errs := report.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "tags", errs[0].Field)
	assert.Equal(t, "member 2", errs[1].Subject)

	warns := report.Warnings()
	for _, field := range []string{"displayName", "bio", "draft", "sources", "avatar"} {
		assert.Len(t, fieldIssues(warns, field), 1, field)
	}
}

func TestNumericValuesBlockGeneration(t *testing.T) {
	v := newValidator(t, withAssets(map[string]string{
		"content/siteconfig.yaml": goodSiteConfig + "siteMetadata:\n  version: 1.0\n",
		"content/members.yaml": `
- id: 1
  displayName: Alice
  avatar: /a.png
  sources: ["forum"]
- id: m2
  displayName: Bob
  avatar: /b.png
  sources: ["forum"]
`,
	}))

	report := v.Run()
	errs := report.Errors()
	require.Len(t, errs, 2)

	assert.Equal(t, config.MembersKey, errs[0].Source)
	assert.Equal(t, "member 1", errs[0].Subject)
	assert.Equal(t, "id", errs[0].Field)
	assert.Equal(t, "id must be a string, got number", errs[0].Message)

	assert.Equal(t, config.SiteConfigKey, errs[1].Source)
	assert.Equal(t, "siteMetadata.version", errs[1].Field)
	assert.Equal(t, 1, report.ExitCode())
}

func TestNumericIDIsNotADuplicateOfItsString(t *testing.T) {
	v := newValidator(t, nil)
	report := v.ValidateMembers([]any{
		map[string]any{"id": 1, "displayName": "A", "avatar": "/a", "sources": []any{"s"}},
		map[string]any{"id": "1", "displayName": "B", "avatar": "/b", "sources": []any{"s"}},
	})

	errs := report.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "member 1", errs[0].Subject)
	assert.Contains(t, errs[0].Message, "must be a string")
}

func TestSiteConfigFieldTypes(t *testing.T) {
	v := newValidator(t, nil)
	report := v.ValidateSiteConfig(map[string]any{
		"siteTitle":       "Guild",
		"baseUrl":         "https://guild.example.org/",
		"defaultAvatar":   "/a.png",
		"socialMedia":     map[string]any{"QQ": 123456, "email": "x@example.org"},
		"displaySettings": map[string]any{"maxMemberTagsDisplay": "3"},
	})

	errs := report.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "displaySettings.maxMemberTagsDisplay", errs[0].Field)
	assert.Equal(t, "displaySettings.maxMemberTagsDisplay must be a number, got string", errs[0].Message)
	assert.True(t, strings.HasPrefix(errs[1].Field, "socialMedia"), errs[1].Field)
}

func TestNonRootedAvatarIsOnlyAWarning(t *testing.T) {
	v := newValidator(t, withAssets(map[string]string{
		"content/siteconfig.yaml": goodSiteConfig,
		"content/members.json":    `[{"id": "m1", "displayName": "Alice", "avatar": "assets/x.png", "sources": ["s"]}]`,
	}))

	report := v.Run()
	assert.Empty(t, report.Errors())
	require.Len(t, report.Warnings(), 1)
	assert.Equal(t, "avatar", report.Warnings()[0].Field)
	assert.Equal(t, PassWithWarnings, report.Outcome())
	assert.Equal(t, 0, report.ExitCode())
}

func TestSiteConfigMissingBaseURL(t *testing.T) {
	v := newValidator(t, withAssets(map[string]string{
		"content/siteconfig.yaml": "siteTitle: Guild\ndefaultAvatar: /a.png\ncontactWebhook: https://hooks.example.org/x\n",
		"content/members.yaml":    goodMembers,
	}))

	report := v.Run()
	errs := report.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "baseUrl", errs[0].Field)
	assert.Equal(t, config.SiteConfigKey, errs[0].Source)
	assert.Equal(t, 1, report.ExitCode())
}

func TestSiteConfigWarnings(t *testing.T) {
	v := newValidator(t, nil)
	report := v.ValidateSiteConfig(map[string]any{
		"siteTitle":     "Guild",
		"baseUrl":       "https://your-deploy-url/",
		"defaultAvatar": "/a.png",
		"socialMedia":   map[string]any{"QQ": "123"},
	})

	assert.Empty(t, report.Errors())
	assert.Len(t, fieldIssues(report.Warnings(), "baseUrl"), 1)
	assert.Len(t, fieldIssues(report.Warnings(), "contactWebhook"), 1)

	report = v.ValidateSiteConfig(map[string]any{
		"siteTitle":     "Guild",
		"baseUrl":       "https://guild.example.org/",
		"defaultAvatar": "/a.png",
		"socialMedia":   map[string]any{"email": "x@example.org"},
	})
	assert.Empty(t, report.Issues)
}

func TestMissingFilesAreErrors(t *testing.T) {
	v := newValidator(t, nil)

	report := v.Run()
	require.Len(t, report.Errors(), 2)
	assert.Contains(t, report.Errors()[0].Message, "content/members.yaml")
	assert.Equal(t, config.SiteConfigKey, report.Errors()[1].Source)

	// Only the missing directory is reported, not each asset.
	assert.Len(t, fieldIssues(report.Warnings(), ""), 1)
}

func TestMissingSingleAsset(t *testing.T) {
	v := newValidator(t, map[string]string{
		"public/assets/placeholders/avatar-small.png": "png",
	})

	report := v.ValidateAssets()
	require.Len(t, report.Warnings(), 1)
	assert.Contains(t, report.Warnings()[0].Message, "avatar-large.png")
}

func TestPageChecks(t *testing.T) {
	v := newValidator(t, withAssets(map[string]string{
		"content/siteconfig.yaml": goodSiteConfig,
		"content/members.yaml":    goodMembers,
		"content/home-page.yaml":  "pageInfo:\n  title: Home\n  description: ''\nseo: {}\ncontent: {}\n",
		"content/join-page.json":  `{"pageInfo": `,
	}))

	report := v.Run()

	require.Len(t, report.Errors(), 1)
	assert.Equal(t, "join-page", report.Errors()[0].Source)

	warns := report.Warnings()
	assert.Len(t, fieldIssues(warns, "display"), 1)
	assert.Len(t, fieldIssues(warns, "pageInfo.description"), 1)
}

func TestPrintMarkers(t *testing.T) {
	report := &Report{}
	report.add(SeverityError, "members", "member 1", "id", "", "missing required field %q", "id")
	report.add(SeverityWarning, "assets", "", "", "add the file", "placeholder asset x does not exist")

	var buf bytes.Buffer
	report.Print(&buf, false)

	out := buf.String()
	assert.Contains(t, out, `✗ error   [members] member 1: missing required field "id"`)
	assert.Contains(t, out, "! warning [assets] placeholder asset x does not exist")
	assert.Contains(t, out, "hint: add the file")
	assert.Contains(t, out, "✗ validation failed: 1 error(s), 1 warning(s)")

	buf.Reset()
	(&Report{}).Print(&buf, false)
	assert.Contains(t, buf.String(), "✓ all checks passed")
}
