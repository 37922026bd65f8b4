package cmd

import (
	"encoding/json"
	"time"

	"github.com/baiye-site/sitecontent/config"
	"github.com/baiye-site/sitecontent/generator"
	"github.com/baiye-site/sitecontent/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"build"},
	Short:   "Write the static JSON data files from the content directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runGenerate()
		return err
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

// runGenerate generates the data files and, when enabled, the sitemap.
func runGenerate() (*generator.Result, error) {
	r, err := newResolver()
	if err != nil {
		return nil, err
	}

	result, err := newGenerator(r).Run()
	if err != nil {
		return nil, errors.Wrap(err, "generation failed")
	}

	if settings.Sitemap {
		if err := writeSitemap(result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func writeSitemap(result *generator.Result) error {
	var baseURL string
	for _, a := range result.Artifacts {
		if a.Key != config.SiteConfigKey {
			continue
		}
		var site struct {
			BaseURL string `json:"baseUrl"`
		}
		if err := json.Unmarshal(a.Data, &site); err != nil {
			return errors.Wrap(err, "read base URL for sitemap")
		}
		baseURL = site.BaseURL
	}

	if baseURL == "" {
		logger.Warn("Site config has no baseUrl, skipping sitemap")
		return nil
	}

	routes := make([]string, 0, len(config.Pages))
	for _, p := range config.Pages {
		routes = append(routes, p.Route())
	}

	if err := utils.GenerateSitemap(appFs, settings.SitemapPath, baseURL, routes, time.Now()); err != nil {
		return errors.Wrap(err, "generate sitemap")
	}
	logger.Infof("  ✓ %s", settings.SitemapPath)

	return nil
}
