package utils

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const sitemapXmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// GenerateSitemap writes the sitemap for routes to path.
func GenerateSitemap(fs afero.Fs, path, baseURL string, routes []string, lastMod time.Time) error {
	xmlOutput, err := GenerateSitemapContent(baseURL, routes, lastMod)
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(path))
	}

	if err := afero.WriteFile(fs, path, []byte(xmlOutput), 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	return nil
}

// GenerateSitemapContent renders an XML sitemap, header included, with
// one entry per route below baseURL.
func GenerateSitemapContent(baseURL string, routes []string, lastMod time.Time) (string, error) {
	if baseURL == "" {
		return "", errors.New("sitemap needs a base URL")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	sitemap := Sitemap{
		Xmlns: sitemapXmlns,
	}

	for _, route := range routes {
		url := Url{
			Loc:     baseURL + route,
			LastMod: lastMod.Format("2006-01-02"),
		}
		if route == "/" {
			url.Priority = "1.0"
		}
		sitemap.Urls = append(sitemap.Urls, url)
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal sitemap")
	}

	return xml.Header + string(xmlOutput) + "\n", nil
}
