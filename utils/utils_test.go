package utils

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/baiye-site/sitecontent/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSitemapContent(t *testing.T) {
	lastMod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	routes := make([]string, 0, len(config.Pages))
	for _, p := range config.Pages {
		routes = append(routes, p.Route())
	}

	out, err := GenerateSitemapContent("https://guild.example.org/", routes, lastMod)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, out, "<loc>https://guild.example.org/</loc>")
	assert.Contains(t, out, "<loc>https://guild.example.org/members</loc>")
	assert.Contains(t, out, "<lastmod>2024-03-01</lastmod>")
	assert.Equal(t, len(config.Pages), strings.Count(out, "<url>"))
	assert.Equal(t, 1, strings.Count(out, "<priority>"))
}

func TestGenerateSitemapContentNeedsBaseURL(t *testing.T) {
	_, err := GenerateSitemapContent("", []string{"/"}, time.Now())
	assert.Error(t, err)
}

func TestGenerateSitemapWritesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := filepath.Join("public", "sitemap.xml")

	require.NoError(t, GenerateSitemap(fs, path, "https://guild.example.org", []string{"/", "/join"}, time.Now()))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<loc>https://guild.example.org/join</loc>")
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	logger, err := SetupLogging(&config.Settings{LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = SetupLogging(&config.Settings{LogLevel: "loud"})
	assert.Error(t, err)
}
