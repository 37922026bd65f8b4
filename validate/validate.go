// Package validate checks content documents for completeness before they
// are generated. It reports blocking errors and advisory warnings and
// never modifies what it reads.
package validate

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/baiye-site/sitecontent/config"
	"github.com/baiye-site/sitecontent/content"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// PlaceholderAssets are expected in AssetsDir.
var PlaceholderAssets = []string{"avatar-small.png", "avatar-large.png"}

var (
	memberRequired     = []string{"id", "displayName", "avatar"}
	siteConfigRequired = []string{"siteTitle", "baseUrl", "defaultAvatar"}
)

type Validator struct {
	Resolver           *content.Resolver
	Fs                 afero.Fs
	AssetsDir          string
	PlaceholderMarkers []string
	BaseURLPlaceholder string
	Pages              []config.PageName
}

// Run validates members, site config, page configs and placeholder
// assets, in that order.
func (v *Validator) Run() *Report {
	report := &Report{}

	if value, ok := v.load(report, config.MembersKey); ok {
		report.Merge(v.ValidateMembers(value))
	}
	if value, ok := v.load(report, config.SiteConfigKey); ok {
		report.Merge(v.ValidateSiteConfig(value))
	}

	pages := v.Pages
	if pages == nil {
		pages = config.Pages
	}
	for _, p := range pages {
		doc, err := v.Resolver.Resolve(p.Key())
		if err != nil {
			report.add(SeverityError, p.Key(), "", "", "fix the syntax error; the generator aborts on it", "%v", err)
			continue
		}
		if doc == nil {
			continue
		}
		report.Merge(v.ValidatePage(p, doc.Value))
	}

	report.Merge(v.ValidateAssets())
	return report
}

func (v *Validator) load(report *Report, key string) (any, bool) {
	doc, err := v.Resolver.Resolve(key)
	if err != nil {
		report.add(SeverityError, key, "", "", "fix the syntax error in the file", "%v", err)
		return nil, false
	}
	if doc == nil {
		report.add(SeverityError, key, "", "", "",
			"file not found (tried %s)", strings.Join(v.Resolver.Candidates(key), ", "))
		return nil, false
	}
	return doc.Value, true
}

// ValidateMembers checks a decoded member roster.
func (v *Validator) ValidateMembers(value any) *Report {
	report := &Report{}
	const source = config.MembersKey

	list, ok := value.([]any)
	if !ok {
		report.add(SeverityError, source, "", "", "", "members must be a list, got %s", typeName(value))
		return report
	}

	seen := make(map[string]int, len(list))
	for i, entry := range list {
		subject := fmt.Sprintf("member %d", i+1)

		m, ok := entry.(map[string]any)
		if !ok {
			report.add(SeverityError, source, subject, "", "", "entry must be an object, got %s", typeName(entry))
			continue
		}

		for _, field := range memberRequired {
			if missing(m[field]) {
				report.add(SeverityError, source, subject, field, "", "missing required field %q", field)
			}
		}

		checkTypes(report, source, subject, m, func() any { return &config.Member{} })

		if id, ok := m["id"].(string); ok && !missing(id) {
			if first, dup := seen[id]; dup {
				report.add(SeverityError, source, subject, "id", "ids must be unique across the roster",
					"duplicate id %q (first used by member %d)", id, first)
			} else {
				seen[id] = i + 1
			}
		}

		if name, ok := m["displayName"].(string); ok && v.hasMarker(name) {
			report.add(SeverityWarning, source, subject, "displayName", "replace placeholder data with real information",
				"displayName contains placeholder data %q", name)
		}
		if bio, ok := m["bio"].(string); ok && v.hasMarker(bio) {
			report.add(SeverityWarning, source, subject, "bio", "replace placeholder data with real information",
				"bio contains placeholder content")
		}
		if draft, ok := m["draft"].(bool); ok && draft {
			report.add(SeverityWarning, source, subject, "draft", "remove draft: true once the entry is final",
				"member is marked as draft")
		}

		switch s := m["sources"].(type) {
		case nil:
			report.add(SeverityWarning, source, subject, "sources", "record where the information came from in SOURCES.md",
				"no sources recorded")
		case []any:
			if len(s) == 0 {
				report.add(SeverityWarning, source, subject, "sources", "record where the information came from in SOURCES.md",
					"no sources recorded")
			}
		}

		if avatar, ok := m["avatar"].(string); ok && avatar != "" && !strings.HasPrefix(avatar, "/") {
			report.add(SeverityWarning, source, subject, "avatar", fmt.Sprintf("use %q", "/"+avatar),
				"avatar path %q should start with \"/\"", avatar)
		}
	}

	return report
}

// ValidateSiteConfig checks a decoded site config.
func (v *Validator) ValidateSiteConfig(value any) *Report {
	report := &Report{}
	const source = config.SiteConfigKey

	m, ok := value.(map[string]any)
	if !ok {
		report.add(SeverityError, source, "", "", "", "site config must be an object, got %s", typeName(value))
		return report
	}

	for _, field := range siteConfigRequired {
		if missing(m[field]) {
			report.add(SeverityError, source, "", field, "", "missing required field %q", field)
		}
	}

	checkTypes(report, source, "", m, func() any { return &config.SiteConfig{} })

	if base, ok := m["baseUrl"].(string); ok && v.BaseURLPlaceholder != "" && base == v.BaseURLPlaceholder {
		report.add(SeverityWarning, source, "", "baseUrl", "set baseUrl to the real deployment address",
			"baseUrl is still the placeholder %q", base)
	}

	if !hasContact(m) {
		report.add(SeverityWarning, source, "", "contactWebhook", "configure contactWebhook or socialMedia.officialEmail",
			"no contact mechanism configured")
	}

	return report
}

// ValidatePage applies the structural rules the client uses before it
// renders a page. A page that fails them falls back to an empty state on
// the site, so problems are warnings.
func (v *Validator) ValidatePage(name config.PageName, value any) *Report {
	report := &Report{}
	source := name.Key()

	m, ok := value.(map[string]any)
	if !ok {
		report.add(SeverityWarning, source, "", "", "", "page config must be an object, got %s", typeName(value))
		return report
	}

	for _, section := range []string{"pageInfo", "seo", "display", "content"} {
		if m[section] == nil {
			report.add(SeverityWarning, source, "", section, "the page renders its fallback state",
				"missing section %q", section)
		}
	}

	if info, ok := m["pageInfo"].(map[string]any); ok {
		for _, field := range []string{"title", "description"} {
			if missing(info[field]) {
				report.add(SeverityWarning, source, "", "pageInfo."+field, "the page renders its fallback state",
					"pageInfo.%s is empty", field)
			}
		}
	}

	return report
}

// ValidateAssets checks that the placeholder images exist.
func (v *Validator) ValidateAssets() *Report {
	report := &Report{}
	const source = "assets"

	exists, err := afero.DirExists(v.Fs, v.AssetsDir)
	if err != nil || !exists {
		report.add(SeverityWarning, source, "", "", "", "placeholder directory %s does not exist", v.AssetsDir)
		return report
	}

	for _, name := range PlaceholderAssets {
		path := filepath.Join(v.AssetsDir, name)
		if ok, err := afero.Exists(v.Fs, path); err != nil || !ok {
			report.add(SeverityWarning, source, "", "", "", "placeholder asset %s does not exist", path)
		}
	}

	return report
}

func (v *Validator) hasMarker(s string) bool {
	for _, marker := range v.PlaceholderMarkers {
		if marker != "" && strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func hasContact(m map[string]any) bool {
	if !missing(m["contactWebhook"]) {
		return true
	}
	social, ok := m["socialMedia"].(map[string]any)
	if !ok {
		return false
	}
	return !missing(social["officialEmail"]) || !missing(social["email"])
}

// checkTypes decodes each field of m into a fresh target the way the site
// does when it loads the generated file. The site drops the whole file on
// a field of the wrong type.
func checkTypes(report *Report, source, subject string, m map[string]any, target func() any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		data, err := json.Marshal(map[string]any{k: m[k]})
		if err != nil {
			report.add(SeverityError, source, subject, k, "", "%s cannot be written as JSON: %v", k, err)
			continue
		}
		var typeErr *json.UnmarshalTypeError
		if err := json.Unmarshal(data, target()); errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = k
			}
			report.add(SeverityError, source, subject, field, "quote the value or fix its type; the site discards the file otherwise",
				"%s must be a %s, got %s", field, kindName(typeErr.Type), valueName(typeErr.Value))
		}
	}
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Pointer:
		return kindName(t.Elem())
	}
	return t.String()
}

// valueName maps the JSON kinds reported by encoding/json to the names
// used elsewhere in the report.
func valueName(v string) string {
	kind, _, _ := strings.Cut(v, " ")
	switch kind {
	case "array":
		return "list"
	case "bool":
		return "boolean"
	}
	return kind
}

// missing reports whether a required value is absent, null or blank.
func missing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
