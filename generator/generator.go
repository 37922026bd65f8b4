// Package generator turns content documents into the static JSON
// artifacts served under /data/.
package generator

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/baiye-site/sitecontent/config"
	"github.com/baiye-site/sitecontent/content"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	// ErrMissingContent is returned when a mandatory document is absent.
	ErrMissingContent = errors.New("mandatory content not found")

	// ErrInvalidShape is returned when a document has the wrong top-level type.
	ErrInvalidShape = errors.New("invalid content shape")
)

// Artifact is one staged output file.
type Artifact struct {
	Key    string
	Source string
	Path   string
	Data   []byte
}

type Result struct {
	Artifacts []Artifact
	// Skipped holds the keys of optional page documents that were absent.
	Skipped []string
}

type Generator struct {
	Resolver  *content.Resolver
	Fs        afero.Fs
	OutputDir string
	Pages     []config.PageName
	Log       logrus.FieldLogger
}

// Run stages every artifact and then commits them together. When it
// returns an error nothing has been written.
func (g *Generator) Run() (*Result, error) {
	g.log().Info("Generating static data files...")

	result, err := g.Stage()
	if err != nil {
		return nil, err
	}

	if err := g.Commit(result.Artifacts); err != nil {
		return nil, err
	}

	for _, a := range result.Artifacts {
		g.log().WithField("source", a.Source).Infof("  ✓ %s", a.Path)
	}
	g.log().Infof("All %d static data files generated", len(result.Artifacts))

	return result, nil
}

// Stage resolves and serialises every document without touching the
// output directory.
func (g *Generator) Stage() (*Result, error) {
	result := &Result{}

	g.log().Info("Processing main content files:")
	for _, key := range []string{config.SiteConfigKey, config.MembersKey} {
		doc, err := g.Resolver.Resolve(key)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, errors.Wrapf(ErrMissingContent, "%s (tried %v)", key, g.Resolver.Candidates(key))
		}
		if err := checkShape(doc); err != nil {
			return nil, err
		}
		g.log().Infof("  reading %s", doc.Path)

		a, err := g.artifact(doc)
		if err != nil {
			return nil, err
		}
		result.Artifacts = append(result.Artifacts, a)
	}

	g.log().Info("Processing page config files:")
	for _, p := range g.pages() {
		doc, err := g.Resolver.Resolve(p.Key())
		if err != nil {
			return nil, err
		}
		if doc == nil {
			g.log().Warnf("  page config %s does not exist, skipping", p.Key())
			result.Skipped = append(result.Skipped, p.Key())
			continue
		}
		if err := checkShape(doc); err != nil {
			return nil, err
		}
		g.log().Infof("  reading %s", doc.Path)

		a, err := g.artifact(doc)
		if err != nil {
			return nil, err
		}
		result.Artifacts = append(result.Artifacts, a)
	}

	return result, nil
}

// Commit writes every artifact to a temporary file in the output
// directory and renames them into place once all writes succeeded.
func (g *Generator) Commit(artifacts []Artifact) error {
	if err := g.Fs.MkdirAll(g.OutputDir, os.ModePerm); err != nil {
		return errors.Wrapf(err, "create output directory %s", g.OutputDir)
	}

	temps := make([]string, 0, len(artifacts))
	cleanup := func() {
		for _, t := range temps {
			_ = g.Fs.Remove(t)
		}
	}

	for _, a := range artifacts {
		tmp, err := g.writeTemp(a)
		if tmp != "" {
			temps = append(temps, tmp)
		}
		if err != nil {
			cleanup()
			return err
		}
	}

	for i, a := range artifacts {
		if err := g.Fs.Rename(temps[i], a.Path); err != nil {
			cleanup()
			return errors.Wrapf(err, "move %s into place", a.Path)
		}
	}

	return nil
}

func (g *Generator) writeTemp(a Artifact) (string, error) {
	f, err := afero.TempFile(g.Fs, g.OutputDir, "."+filepath.Base(a.Path)+".*")
	if err != nil {
		return "", errors.Wrapf(err, "create temp file for %s", a.Path)
	}
	name := f.Name()

	if _, err := f.Write(a.Data); err != nil {
		f.Close()
		return name, errors.Wrapf(err, "write %s", a.Path)
	}
	if err := f.Close(); err != nil {
		return name, errors.Wrapf(err, "close %s", a.Path)
	}
	if err := g.Fs.Chmod(name, 0644); err != nil {
		return name, errors.Wrapf(err, "chmod %s", a.Path)
	}

	return name, nil
}

func (g *Generator) artifact(doc *content.Document) (Artifact, error) {
	data, err := Marshal(doc.Value)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "serialise %s", doc.Path)
	}
	return Artifact{
		Key:    doc.Key,
		Source: doc.Path,
		Path:   filepath.Join(g.OutputDir, doc.Key+".json"),
		Data:   data,
	}, nil
}

// Marshal renders v as JSON indented by two spaces. Object keys are
// sorted, so equal input always yields identical bytes.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checkShape(doc *content.Document) error {
	switch doc.Key {
	case config.MembersKey:
		if _, ok := doc.Value.([]any); !ok {
			return errors.Wrapf(ErrInvalidShape, "%s must contain a list", doc.Path)
		}
	default:
		if _, ok := doc.Value.(map[string]any); !ok {
			return errors.Wrapf(ErrInvalidShape, "%s must contain an object", doc.Path)
		}
	}
	return nil
}

func (g *Generator) pages() []config.PageName {
	if g.Pages == nil {
		return config.Pages
	}
	return g.Pages
}

func (g *Generator) log() logrus.FieldLogger {
	if g.Log == nil {
		return logrus.StandardLogger()
	}
	return g.Log
}
