package config

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// PageName identifies one of the fixed site pages.
type PageName string

const (
	PageHome       PageName = "home"
	PageMembers    PageName = "members"
	PageActivities PageName = "activities"
	PageJoin       PageName = "join"
	PagePromotion  PageName = "promotion"
)

// Pages lists every page in navigation order.
var Pages = []PageName{PageHome, PageMembers, PageActivities, PageJoin, PagePromotion}

// Logical keys of the mandatory content documents.
const (
	SiteConfigKey = "siteconfig"
	MembersKey    = "members"
)

// Key returns the logical content key of the page, e.g. "home-page".
func (p PageName) Key() string {
	return string(p) + "-page"
}

// Route returns the public path the page is served under.
func (p PageName) Route() string {
	if p == PageHome {
		return "/"
	}
	return "/" + string(p)
}

// ParsePageName accepts a page name or its logical key.
func ParsePageName(s string) (PageName, error) {
	for _, p := range Pages {
		if s == string(p) || s == p.Key() {
			return p, nil
		}
	}
	return "", errors.Errorf("unknown page %q", s)
}

type PageInfo struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	LastUpdated string   `json:"lastUpdated"`
}

type SEO struct {
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	OGImage         string `json:"ogImage,omitempty"`
}

// PageConfig is the per-page document. Display and Content are open maps
// whose shape depends on the page; any other top-level keys are kept in
// Extra so that nothing is lost when a config is decoded and re-encoded.
type PageConfig struct {
	PageInfo *PageInfo
	SEO      *SEO
	Display  map[string]any
	Content  map[string]any
	Extra    map[string]any
}

type pageConfigFields struct {
	PageInfo *PageInfo     `json:"pageInfo"`
	SEO      *SEO          `json:"seo"`
	Display  map[string]any `json:"display"`
	Content  map[string]any `json:"content"`
}

var pageConfigKeys = map[string]bool{
	"pageInfo": true,
	"seo":      true,
	"display":  true,
	"content":  true,
}

func (p *PageConfig) UnmarshalJSON(data []byte) error {
	var fields pageConfigFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = PageConfig{
		PageInfo: fields.PageInfo,
		SEO:      fields.SEO,
		Display:  fields.Display,
		Content:  fields.Content,
	}

	for key, value := range raw {
		if pageConfigKeys[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = v
	}

	return nil
}

func (p PageConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.PageInfo != nil {
		out["pageInfo"] = p.PageInfo
	}
	if p.SEO != nil {
		out["seo"] = p.SEO
	}
	if p.Display != nil {
		out["display"] = p.Display
	}
	if p.Content != nil {
		out["content"] = p.Content
	}
	return json.Marshal(out)
}

// FullPageConfig pairs the global config with one page's config. It is
// computed on every load and never persisted.
type FullPageConfig struct {
	Global *SiteConfig `json:"globalConfig"`
	Page   *PageConfig `json:"pageConfig"`
}
