// Package client fetches the generated data files over HTTP and hands
// typed configs to the presentation layer. Failures never surface as
// errors: every accessor degrades to nil, an empty list or a default.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/baiye-site/sitecontent/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeout is used when NewLoader is given a zero timeout.
	DefaultTimeout = 10 * time.Second

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

var (
	// ErrNotFound is returned when a data file does not exist (HTTP 404).
	ErrNotFound = errors.New("data file not found")

	// ErrUnavailable is returned when a data file could not be fetched.
	ErrUnavailable = errors.New("data file unavailable")
)

type Loader struct {
	BaseURL string
	HTTP    *http.Client
	Log     logrus.FieldLogger
}

// NewLoader creates a loader that reads /data/*.json below baseURL.
func NewLoader(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Loader{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		Log: log,
	}
}

// URL returns the address of the data file for key.
func (l *Loader) URL(key string) string {
	return l.BaseURL + "/data/" + key + ".json"
}

// SiteConfig returns the global config, or nil if it could not be loaded.
func (l *Loader) SiteConfig(ctx context.Context) *config.SiteConfig {
	site, err := l.siteConfig(ctx)
	if err != nil {
		l.log().WithError(err).Warn("Failed to load site config")
		return nil
	}
	return site
}

// SiteConfigOrDefault returns the global config, falling back to the
// built-in default when it could not be loaded.
func (l *Loader) SiteConfigOrDefault(ctx context.Context) *config.SiteConfig {
	if site := l.SiteConfig(ctx); site != nil {
		return site
	}
	return config.DefaultSiteConfig()
}

// Members returns the member roster. A load failure yields an empty list.
func (l *Loader) Members(ctx context.Context) []config.Member {
	var members []config.Member
	if err := l.fetch(ctx, config.MembersKey, &members); err != nil {
		l.log().WithError(err).Warn("Failed to load members")
		return []config.Member{}
	}
	if members == nil {
		return []config.Member{}
	}
	return members
}

// PageConfig returns the config of one page, or nil if it could not be
// loaded.
func (l *Loader) PageConfig(ctx context.Context, name config.PageName) *config.PageConfig {
	page, err := l.pageConfig(ctx, name)
	if err != nil {
		l.log().WithError(err).Warnf("Failed to load page config %s", name)
		return nil
	}
	return page
}

// FullPageConfig fetches the global and page configs concurrently. It
// returns nil unless both succeed.
func (l *Loader) FullPageConfig(ctx context.Context, name config.PageName) *config.FullPageConfig {
	var (
		site *config.SiteConfig
		page *config.PageConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		site, err = l.siteConfig(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		page, err = l.pageConfig(gctx, name)
		return err
	})

	if err := g.Wait(); err != nil {
		l.log().WithError(err).Warnf("Failed to load full config for page %s", name)
		return nil
	}

	return &config.FullPageConfig{Global: site, Page: page}
}

func (l *Loader) siteConfig(ctx context.Context) (*config.SiteConfig, error) {
	var site config.SiteConfig
	if err := l.fetch(ctx, config.SiteConfigKey, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

func (l *Loader) pageConfig(ctx context.Context, name config.PageName) (*config.PageConfig, error) {
	var page config.PageConfig
	if err := l.fetch(ctx, name.Key(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (l *Loader) fetch(ctx context.Context, key string, v any) error {
	url := l.URL(key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "create request for %s", url)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrapf(ErrNotFound, "fetch %s", url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.Wrapf(ErrUnavailable, "fetch %s: status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrapf(ErrUnavailable, "decode %s: %v", url, err)
	}
	return nil
}

func (l *Loader) log() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}
