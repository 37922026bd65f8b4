package client

import (
	"context"
	"strings"

	"github.com/baiye-site/sitecontent/config"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type PageStatus int

const (
	PageLoaded PageStatus = iota
	PageMissing
	PageUnavailable
)

func (s PageStatus) String() string {
	switch s {
	case PageLoaded:
		return "loaded"
	case PageMissing:
		return "missing"
	default:
		return "unavailable"
	}
}

// PageState is the result of LoadPage. Global is never nil; Page is set
// only when Status is PageLoaded.
type PageState struct {
	Name   config.PageName
	Status PageStatus
	Global *config.SiteConfig
	Page   *config.PageConfig
	Err    error
}

// LoadPage fetches the global and page configs independently. Unlike
// FullPageConfig a missing page does not discard the global config, and
// the status tells a missing page apart from a failed fetch.
func (l *Loader) LoadPage(ctx context.Context, name config.PageName) PageState {
	var (
		site             *config.SiteConfig
		page             *config.PageConfig
		siteErr, pageErr error
		g                errgroup.Group
	)

	g.Go(func() error {
		site, siteErr = l.siteConfig(ctx)
		return nil
	})
	g.Go(func() error {
		page, pageErr = l.pageConfig(ctx, name)
		return nil
	})
	_ = g.Wait()

	state := PageState{Name: name, Global: site, Page: page}

	if siteErr != nil {
		l.log().WithError(siteErr).Warn("Failed to load site config, using defaults")
		state.Global = config.DefaultSiteConfig()
	}

	switch {
	case pageErr == nil:
		state.Status = PageLoaded
	case errors.Is(pageErr, ErrNotFound):
		state.Status = PageMissing
		state.Err = pageErr
	default:
		state.Status = PageUnavailable
		state.Err = pageErr
	}
	if pageErr != nil {
		l.log().WithError(pageErr).Warnf("Page config %s is %s, using global config only", name, state.Status)
	}

	return state
}

// Merge combines a page config with the global config. The page's SEO
// title and description fall back to values derived from pageInfo and
// the site title. Overrides replace the page's display, content and
// extra sections; pageInfo and seo always come from the page.
func Merge(global *config.SiteConfig, page *config.PageConfig, overrides *config.PageConfig) *config.PageConfig {
	if page == nil {
		return nil
	}

	merged := &config.PageConfig{
		Display: page.Display,
		Content: page.Content,
		Extra:   copyMap(page.Extra),
	}

	if overrides != nil {
		if overrides.Display != nil {
			merged.Display = overrides.Display
		}
		if overrides.Content != nil {
			merged.Content = overrides.Content
		}
		for k, v := range overrides.Extra {
			if merged.Extra == nil {
				merged.Extra = make(map[string]any)
			}
			merged.Extra[k] = v
		}
	}

	info := config.PageInfo{}
	if page.PageInfo != nil {
		info = *page.PageInfo
	}
	merged.PageInfo = &info

	seo := config.SEO{}
	if page.SEO != nil {
		seo = *page.SEO
	}
	if seo.MetaTitle == "" {
		siteTitle := ""
		if global != nil {
			siteTitle = global.SiteTitle
		}
		seo.MetaTitle = info.Title + " - " + siteTitle
	}
	if seo.MetaDescription == "" {
		seo.MetaDescription = info.Description
	}
	merged.SEO = &seo

	return merged
}

// ValidatePageConfig reports whether page has every section and a title
// and description.
func ValidatePageConfig(page *config.PageConfig) bool {
	if page == nil {
		return false
	}
	if page.PageInfo == nil || page.Content == nil || page.SEO == nil || page.Display == nil {
		return false
	}
	return page.PageInfo.Title != "" && page.PageInfo.Description != ""
}

const (
	FallbackTitle  = "百业"
	DefaultOGImage = "/assets/og-default.jpg"
)

// Metadata is the head metadata of a rendered page.
type Metadata struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Keywords    []string        `json:"keywords"`
	OGImage     string          `json:"ogImage"`
	Locale      string          `json:"locale,omitempty"`
	Icons       config.SiteIcon `json:"icons"`
}

// PageMetadata derives head metadata for a page. Either argument may be
// nil; every field falls back from the page to the global config to a
// fixed default.
func PageMetadata(global *config.SiteConfig, page *config.PageConfig) Metadata {
	var (
		info config.PageInfo
		seo  config.SEO
		site config.SiteConfig
	)
	if page != nil && page.PageInfo != nil {
		info = *page.PageInfo
	}
	if page != nil && page.SEO != nil {
		seo = *page.SEO
	}
	if global != nil {
		site = *global
	}

	md := Metadata{
		Title:       firstNonEmpty(seo.MetaTitle, info.Title, site.SiteTitle, FallbackTitle),
		Description: firstNonEmpty(seo.MetaDescription, info.Description, site.SiteDescription),
		OGImage:     firstNonEmpty(seo.OGImage, DefaultOGImage),
		Locale:      strings.ReplaceAll(site.SiteMetadata.Language, "-", "_"),
		Icons:       siteIcons(site.SiteIcon),
	}

	switch {
	case info.Keywords != nil:
		md.Keywords = info.Keywords
	case site.SiteMetadata.Keywords != nil:
		md.Keywords = site.SiteMetadata.Keywords
	default:
		md.Keywords = []string{}
	}

	return md
}

func siteIcons(icon *config.SiteIcon) config.SiteIcon {
	var in config.SiteIcon
	if icon != nil {
		in = *icon
	}
	return config.SiteIcon{
		Favicon:        firstNonEmpty(in.Favicon, "/favicon.ico"),
		Icon16:         firstNonEmpty(in.Icon16, "/favicon-16x16.png"),
		Icon32:         firstNonEmpty(in.Icon32, "/favicon-32x32.png"),
		AppleTouchIcon: firstNonEmpty(in.AppleTouchIcon, "/apple-touch-icon.png"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
