package content

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Family groups formats that share a syntax.
type Family string

const (
	FamilyYAML Family = "yaml"
	FamilyJSON Family = "json"
)

// Family returns the syntax family of the format.
func (f Format) Family() Family {
	if f.Ext == YAML.Ext || f.Ext == YML.Ext {
		return FamilyYAML
	}
	return FamilyJSON
}

// ParseFamily accepts "yaml", "yml", "json" or "jsonc".
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return FamilyYAML, nil
	case "json", "jsonc":
		return FamilyJSON, nil
	}
	return "", errors.Errorf("unknown format family %q", s)
}

// Ext is the extension converted files of this family are written with.
func (f Family) Ext() string {
	if f == FamilyYAML {
		return YAML.Ext
	}
	return JSON.Ext
}

// Convert re-encodes a document from one format into the given family.
// Object keys keep their source order. Comments are not carried over.
func Convert(data []byte, from Format, to Family) ([]byte, error) {
	if from.Ext == JSONC.Ext {
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, err
		}
		data = std
	}

	// JSON is a subset of YAML, so one parser serves both families.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	switch to {
	case FamilyYAML:
		return encodeYAML(&doc)
	case FamilyJSON:
		var buf bytes.Buffer
		if err := writeJSON(&buf, &doc, 0); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}
	return nil, errors.Errorf("unknown format family %q", to)
}

func encodeYAML(doc *yaml.Node) ([]byte, error) {
	blockStyle(doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles JSON input parses with.
// The encoder still quotes strings that would otherwise read as another
// type.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func writeJSON(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSON(buf, n.Content[0], depth)

	case yaml.AliasNode:
		return writeJSON(buf, n.Alias, depth)

	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			indent(buf, depth+1)
			key, err := jsonScalar(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteString(": ")
			if err := writeJSON(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
			if i+2 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, c := range n.Content {
			indent(buf, depth+1)
			if err := writeJSON(buf, c, depth+1); err != nil {
				return err
			}
			if i+1 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return errors.Wrapf(err, "line %d", n.Line)
		}
		if t, ok := v.(time.Time); ok {
			v = t.Format(time.RFC3339)
		}
		b, err := jsonScalar(v)
		if err != nil {
			return errors.Wrapf(err, "line %d", n.Line)
		}
		buf.Write(b)
		return nil
	}

	return errors.Errorf("unsupported YAML node kind %d", n.Kind)
}

func jsonScalar(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func indent(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))
}
