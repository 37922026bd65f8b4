package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Format decodes one file type into the JSON data model.
type Format struct {
	Name   string
	Ext    string
	Decode func(data []byte) (any, error)
}

var (
	YAML  = Format{Name: "yaml", Ext: ".yaml", Decode: decodeYAML}
	YML   = Format{Name: "yml", Ext: ".yml", Decode: decodeYAML}
	JSONC = Format{Name: "jsonc", Ext: ".jsonc", Decode: decodeJSONC}
	JSON  = Format{Name: "json", Ext: ".json", Decode: decodeJSON}
)

// DefaultFormats is the resolution order used when none is configured.
var DefaultFormats = []Format{YAML, YML, JSONC, JSON}

var registered = map[string]Format{
	YAML.Ext:  YAML,
	YML.Ext:   YML,
	JSONC.Ext: JSONC,
	JSON.Ext:  JSON,
}

// FormatsFor builds a resolution chain from an ordered list of
// extensions. An empty list yields DefaultFormats.
func FormatsFor(exts []string) ([]Format, error) {
	if len(exts) == 0 {
		return DefaultFormats, nil
	}

	formats := make([]Format, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if ext != "" && ext[0] != '.' {
			ext = "." + ext
		}
		f, ok := registered[ext]
		if !ok {
			return nil, errors.Errorf("unsupported content format %q", ext)
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		formats = append(formats, f)
	}
	return formats, nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

func decodeJSON(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeJSONC(data []byte) (any, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	return decodeJSON(std)
}

// normalize maps YAML decoder output onto the values encoding/json
// produces, so a document decodes to the same tree whatever its format.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
