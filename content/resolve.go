// Package content resolves logical content keys such as "members" or
// "home-page" to exactly one file in the content directory and decodes it.
package content

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Document is a decoded content file.
type Document struct {
	Key    string
	Path   string
	Format Format
	Value  any
}

// Resolver searches Dir for <key><ext> trying Formats in order.
type Resolver struct {
	Fs      afero.Fs
	Dir     string
	Formats []Format
}

// NewResolver returns a resolver over dir using the given extension
// order, or DefaultFormats when exts is empty.
func NewResolver(fs afero.Fs, dir string, exts []string) (*Resolver, error) {
	formats, err := FormatsFor(exts)
	if err != nil {
		return nil, err
	}
	return &Resolver{Fs: fs, Dir: dir, Formats: formats}, nil
}

// Candidates lists every path Resolve would try for key, in order.
func (r *Resolver) Candidates(key string) []string {
	paths := make([]string, 0, len(r.formats()))
	for _, f := range r.formats() {
		paths = append(paths, filepath.Join(r.Dir, key+f.Ext))
	}
	return paths
}

// Resolve returns the first existing candidate for key, decoded. It
// returns nil and no error when no candidate exists. A decode failure is
// returned as is; sibling formats are not tried.
func (r *Resolver) Resolve(key string) (*Document, error) {
	for _, f := range r.formats() {
		path := filepath.Join(r.Dir, key+f.Ext)

		info, err := r.Fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", path)
		}
		if info.IsDir() {
			continue
		}

		data, err := afero.ReadFile(r.Fs, path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}

		value, err := f.Decode(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}

		return &Document{Key: key, Path: path, Format: f, Value: value}, nil
	}

	return nil, nil
}

// Extensions returns the extensions of the resolution chain.
func (r *Resolver) Extensions() []string {
	exts := make([]string, 0, len(r.formats()))
	for _, f := range r.formats() {
		exts = append(exts, f.Ext)
	}
	return exts
}

func (r *Resolver) formats() []Format {
	if len(r.Formats) == 0 {
		return DefaultFormats
	}
	return r.Formats
}
