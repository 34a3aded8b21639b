package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/apimlint/apimlint/errors"
	"github.com/apimlint/apimlint/system"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	// ErrInvalidDocument is returned when a document is not valid YAML or JSON.
	ErrInvalidDocument = errors.Error("invalid document")
	// ErrEmptyDocument is returned when a document has no content.
	ErrEmptyDocument = errors.Error("empty document")
)

// Document is a loaded, immutable document ready for rule evaluation.
type Document struct {
	// Location is the file path or other identifier the document was loaded from.
	Location string
	// Format is the detected specification format.
	Format Format
	// Warnings are non-fatal problems found while loading or composing.
	Warnings []string

	unresolved *Tree
	siblings   map[string]bool

	// The resolved view is built on first use.
	resolveOnce     sync.Once
	isResolved      atomic.Bool
	resolved        *Tree
	resolveWarnings []string

	// Composed documents remember which source contributed each merged entry.
	sources       []string
	origins       map[string]string
	defaultOrigin string
}

// Load reads and parses a document from r.
func Load(ctx context.Context, r io.Reader, location string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return Parse(ctx, data, location)
}

// LoadFile reads and parses the document at path on the OS file system.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	return LoadFileFS(ctx, &system.FileSystem{}, path)
}

// LoadFileFS reads and parses the document at path in fsys.
func LoadFileFS(ctx context.Context, fsys system.VirtualFS, path string) (*Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return Parse(ctx, data, path)
}

// LoadFiles loads paths from the OS file system concurrently. The result has the same order as
// paths.
func LoadFiles(ctx context.Context, paths []string) ([]*Document, error) {
	return LoadFilesFS(ctx, &system.FileSystem{}, paths)
}

// LoadFilesFS loads paths from fsys concurrently.
func LoadFilesFS(ctx context.Context, fsys system.VirtualFS, paths []string) ([]*Document, error) {
	docs := make([]*Document, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			doc, err := LoadFileFS(ctx, fsys, path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Parse parses YAML or JSON data.
func Parse(ctx context.Context, data []byte, location string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument.Wrapf("%s", location)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, ErrInvalidDocument.Wrapf("%s: %v", location, err)
	}
	if len(root.Content) == 0 {
		return nil, ErrEmptyDocument.Wrapf("%s", location)
	}

	return newDocument(location, &root, nil), nil
}

func newDocument(location string, root *yaml.Node, siblings map[string]bool) *Document {
	unresolved := NewTree(root)

	return &Document{
		Location:   location,
		Format:     detectFormat(unresolved.Root()),
		unresolved: unresolved,
		siblings:   siblings,
	}
}

// Unresolved returns the document as written.
func (d *Document) Unresolved() *Tree {
	return d.unresolved
}

// Resolved returns the document with local references inlined. The view is built on the first
// call and is safe for concurrent use.
func (d *Document) Resolved() *Tree {
	d.resolveOnce.Do(func() {
		root, warnings := resolveTree(d.unresolved.Root(), d.siblings)
		d.resolved = NewTree(root)
		d.resolveWarnings = warnings
		d.isResolved.Store(true)
	})
	return d.resolved
}

// ResolveWarnings returns the problems found while building the resolved view, such as broken
// references or an expansion that hit the node limit. It is empty until Resolved has been called.
func (d *Document) ResolveWarnings() []string {
	if !d.isResolved.Load() {
		return nil
	}
	return d.resolveWarnings
}

// Tree returns the resolved or unresolved tree.
func (d *Document) Tree(resolved bool) *Tree {
	if resolved {
		return d.Resolved()
	}
	return d.unresolved
}

// Composed reports whether d was built by Compose.
func (d *Document) Composed() bool {
	return len(d.sources) > 0
}

// Sources returns the locations of the documents a composed document was built from.
func (d *Document) Sources() []string {
	return d.sources
}

// LocationOf returns the location of the source document that contributed path. For documents
// that were not composed this is always Location.
func (d *Document) LocationOf(path Path) string {
	if d.origins == nil {
		return d.Location
	}
	for n := min(len(path), 3); n > 0; n-- {
		if origin, ok := d.origins[string(path[:n].Pointer())]; ok {
			return origin
		}
	}
	return d.defaultOrigin
}

// DisplayName is the base name of Location, used in log lines.
func (d *Document) DisplayName() string {
	return filepath.Base(d.Location)
}
