package format

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps lower-cased extensions to adapter kinds.
//
// A Registry has no internal locking: all Register calls must happen before
// any concurrent Lookup or Resolve.
type Registry struct {
	kinds map[string]Kind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Register installs k for every extension it declares. If an extension is
// already registered, k replaces the previous kind.
func (r *Registry) Register(k Kind) {
	for _, ext := range k.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext == "" {
			continue
		}
		r.kinds[ext] = k
	}
}

// Lookup returns the kind registered for ext.
func (r *Registry) Lookup(ext string) (Kind, bool) {
	k, ok := r.kinds[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return k, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.kinds))
	for ext := range r.kinds {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Resolve constructs the document adapter registered for path's extension.
// It fails with ErrUnsupportedFormat, without constructing anything, when
// path has no extension or the extension is not registered.
func (r *Registry) Resolve(path string, opts Options) (Document, error) {
	ext := Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("%w: file has no extension: %s", ErrUnsupportedFormat, path)
	}
	k, ok := r.kinds[ext]
	if !ok || k.New == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return k.New(path, opts)
}

var defaultRegistry = NewRegistry()

// Register installs k in the process-wide registry.
func Register(k Kind) {
	defaultRegistry.Register(k)
}

// Lookup returns the kind registered for ext in the process-wide registry.
func Lookup(ext string) (Kind, bool) {
	return defaultRegistry.Lookup(ext)
}

// Resolve constructs a document using the process-wide registry.
func Resolve(path string, opts Options) (Document, error) {
	return defaultRegistry.Resolve(path, opts)
}

// Extensions returns the extensions registered in the process-wide registry.
func Extensions() []string {
	return defaultRegistry.Extensions()
}
