package transformers

import (
	"fmt"
	"strconv"
)

// Factory builds a named transformer instance from string params, the
// shape a YAML spec manifest declares them in (§6 "YAML spec manifest").
type Factory func(name string, params map[string]string) (any, error)

// Registry resolves a transformer kind name (e.g. "minmax", "onehot") to
// the factory that builds it, so a spec manifest can name transformers by
// string instead of importing pkg/transformers types directly.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds kind to f, overwriting any previous registration.
func (r *Registry) Register(kind string, f Factory) {
	r.factories[kind] = f
}

// Build resolves kind and invokes its factory with name and params.
func (r *Registry) Build(kind, name string, params map[string]string) (any, error) {
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return f(name, params)
}

// Kinds returns the registered kind names.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	return kinds
}

// ErrUnknownKind is returned by Build for a kind with no registered
// factory.
var ErrUnknownKind = fmt.Errorf("transformers: unknown kind")

// DefaultRegistry returns a Registry pre-populated with every reference
// transformer whose extraction type (float64 or string) a manifest's
// map[string]any records can supply directly. GeoGridBucketizer and
// EmbeddingBlock take composite input (a coordinate pair, an already
// materialized embedding request) that a scalar YAML field can't express,
// so they are wired by hand in Go rather than through the manifest.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("identity", func(name string, _ map[string]string) (any, error) {
		return NewIdentity(name), nil
	})
	r.Register("minmax", func(name string, _ map[string]string) (any, error) {
		return NewMinMaxScaler(name), nil
	})
	r.Register("standard", func(name string, _ map[string]string) (any, error) {
		return NewStandardScaler(name), nil
	})
	r.Register("onehot", func(name string, _ map[string]string) (any, error) {
		return NewOneHotEncoder(name), nil
	})
	r.Register("hashing", func(name string, params map[string]string) (any, error) {
		buckets := 32
		if v, ok := params["buckets"]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("transformers: hashing: bad buckets %q: %w", v, err)
			}
			buckets = n
		}
		return NewHashingEncoder(name, buckets), nil
	})
	return r
}
