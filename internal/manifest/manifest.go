// Package manifest implements the YAML spec manifest (SPEC_FULL.md §6
// SUPPLEMENT): a data-driven equivalent of the C6 spec DSL for records
// whose shape is only known at deploy time (Record = map[string]any),
// resolving transformer names through a pkg/transformers.Registry the way
// internal/config resolves the teacher's own YAML configuration.
package manifest

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
	"github.com/kailas-cloud/featureflow/internal/domain/featureset"
	"github.com/kailas-cloud/featureflow/internal/usecase/multispec"
	"github.com/kailas-cloud/featureflow/internal/usecase/specbuilder"
	"github.com/kailas-cloud/featureflow/pkg/transformers"
)

// ErrUnknownCombiner is returned for a cross declaration naming a combine
// function this package doesn't recognize.
var ErrUnknownCombiner = errors.New("manifest: unknown combiner")

// ErrUnsupportedKind is returned for a field whose resolved transformer
// type this package cannot wire (its extraction type isn't float64 or
// string; see DefaultRegistry's doc comment).
var ErrUnsupportedKind = errors.New("manifest: unsupported transformer kind for map[string]any records")

// FieldSpec declares one field of a Manifest: which map key feeds which
// transformer, and how a missing key is handled.
type FieldSpec struct {
	// Name is the transformer's block name (§3 "FeatureEntry"), also used
	// to key the source value in the record map unless Field is set.
	Name string `yaml:"name"`
	// Field is the record map key to read; defaults to Name.
	Field string `yaml:"field,omitempty"`
	// Kind names a registry-resolvable transformer, e.g. "minmax".
	Kind string `yaml:"kind"`
	// Group assigns this field to a multi-spec group (§4.8); fields with
	// no group, or when no field declares one, build a single Spec.
	Group string `yaml:"group,omitempty"`
	// Required marks the field as always present; Optional fields fall
	// back to Default, or to no default at all when Default is "none".
	Required bool `yaml:"required"`
	// Default is the optional fallback value, serialized as a string
	// (parsed against the field's scalar type); "none" means "optional
	// with no default" (§4.6 "optional(f, default = None)").
	Default *string `yaml:"default,omitempty"`
	// Params are passed to the registry factory (e.g. "buckets": "16").
	Params map[string]string `yaml:"params,omitempty"`
}

// CrossSpec declares a cross-feature product between two already-declared
// field names (§3 "Cross declaration").
type CrossSpec struct {
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Combine string `yaml:"combine"` // "multiply", "add", or "subtract"
}

// Manifest is the top-level YAML document: a flat list of fields plus
// cross declarations.
type Manifest struct {
	Fields  []FieldSpec `yaml:"fields"`
	Crosses []CrossSpec `yaml:"crosses,omitempty"`
}

// Parse decodes a YAML manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	return &m, nil
}

// Record is the dynamic record shape a manifest-built spec runs over.
type Record = map[string]any

// Build resolves every field through reg and wires it into one
// specbuilder.Spec[Record], for manifests where no field declares a Group.
// Use BuildMultiSpec when the manifest groups its fields.
func Build(m *Manifest, reg *transformers.Registry) (*specbuilder.Spec[Record], error) {
	s := specbuilder.Of[Record]()
	for _, f := range m.Fields {
		var err error
		s, err = wireField(s, f, reg)
		if err != nil {
			return nil, err
		}
	}
	if err := applyCrosses(s, m.Crosses); err != nil {
		return nil, err
	}
	return s, nil
}

// BuildMultiSpec resolves every field the same way as Build, but splits
// them into per-group specs keyed by FieldSpec.Group (empty group name
// allowed) and merges them into one multispec.MultiSpec (§4.8).
func BuildMultiSpec(m *Manifest, reg *transformers.Registry) (*multispec.MultiSpec[Record], error) {
	groups := make(map[string]*specbuilder.Spec[Record])
	groupOf := make(map[string][]FieldSpec)
	for _, f := range m.Fields {
		groupOf[f.Group] = append(groupOf[f.Group], f)
	}
	for group, fields := range groupOf {
		s := specbuilder.Of[Record]()
		for _, f := range fields {
			var err error
			s, err = wireField(s, f, reg)
			if err != nil {
				return nil, err
			}
		}
		groups[group] = s
	}
	for _, c := range m.Crosses {
		group := fieldGroup(m, c.Left)
		combine, err := combinerFor(c.Combine)
		if err != nil {
			return nil, err
		}
		groups[group].Cross(c.Left, c.Right, combine)
	}
	return multispec.New(groups)
}

func fieldGroup(m *Manifest, name string) string {
	for _, f := range m.Fields {
		if f.Name == name {
			return f.Group
		}
	}
	return ""
}

func applyCrosses(s *specbuilder.Spec[Record], crosses []CrossSpec) error {
	for _, c := range crosses {
		combine, err := combinerFor(c.Combine)
		if err != nil {
			return err
		}
		s.Cross(c.Left, c.Right, combine)
	}
	return nil
}

func combinerFor(name string) (featureset.Combiner, error) {
	switch name {
	case "multiply", "":
		return func(l, r float64) float64 { return l * r }, nil
	case "add":
		return func(l, r float64) float64 { return l + r }, nil
	case "subtract":
		return func(l, r float64) float64 { return l - r }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCombiner, name)
	}
}

func wireField(s *specbuilder.Spec[Record], f FieldSpec, reg *transformers.Registry) (*specbuilder.Spec[Record], error) {
	key := f.Field
	if key == "" {
		key = f.Name
	}
	built, err := reg.Build(f.Kind, f.Name, f.Params)
	if err != nil {
		return nil, fmt.Errorf("manifest: field %s: %w", f.Name, err)
	}

	switch tr := built.(type) {
	case *transformers.Identity:
		return wireFloatField(s, key, f, tr, transformers.WireIdentity[Record], transformers.WireOptionalIdentity[Record], transformers.WireOptionalIdentityNoDefault[Record])
	case *transformers.MinMaxScaler:
		return wireFloatField(s, key, f, tr, transformers.WireMinMax[Record], transformers.WireOptionalMinMax[Record], transformers.WireOptionalMinMaxNoDefault[Record])
	case *transformers.StandardScaler:
		return wireFloatField(s, key, f, tr, transformers.WireStandard[Record], transformers.WireOptionalStandard[Record], transformers.WireOptionalStandardNoDefault[Record])
	case *transformers.OneHotEncoder:
		return wireStringField(s, key, f, tr, transformers.WireOneHot[Record], transformers.WireOptionalOneHot[Record], transformers.WireOptionalOneHotNoDefault[Record])
	case *transformers.HashingEncoder:
		return wireStringFieldNoNoDefault(s, key, f, tr, transformers.WireHashing[Record], transformers.WireOptionalHashing[Record])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, f.Kind)
	}
}

func wireFloatField[Tr any](
	s *specbuilder.Spec[Record],
	key string,
	f FieldSpec,
	tr Tr,
	required func(*specbuilder.Spec[Record], func(Record) float64, Tr) *specbuilder.Spec[Record],
	optional func(*specbuilder.Spec[Record], func(Record) (float64, bool), float64, Tr) *specbuilder.Spec[Record],
	optionalNoDefault func(*specbuilder.Spec[Record], func(Record) (float64, bool), Tr) *specbuilder.Spec[Record],
) (*specbuilder.Spec[Record], error) {
	if f.Required {
		return required(s, func(r Record) float64 { return floatOf(r[key]) }, tr), nil
	}
	extract := func(r Record) (float64, bool) {
		v, ok := r[key]
		if !ok {
			return 0, false
		}
		return floatOf(v), true
	}
	if f.Default != nil && *f.Default == "none" {
		return optionalNoDefault(s, extract, tr), nil
	}
	def := 0.0
	if f.Default != nil {
		var err error
		def, err = parseFloatDefault(*f.Default)
		if err != nil {
			return nil, fmt.Errorf("manifest: field %s: %w", f.Name, err)
		}
	}
	return optional(s, extract, def, tr), nil
}

func wireStringField[Tr any](
	s *specbuilder.Spec[Record],
	key string,
	f FieldSpec,
	tr Tr,
	required func(*specbuilder.Spec[Record], func(Record) string, Tr) *specbuilder.Spec[Record],
	optional func(*specbuilder.Spec[Record], func(Record) (string, bool), string, Tr) *specbuilder.Spec[Record],
	optionalNoDefault func(*specbuilder.Spec[Record], func(Record) (string, bool), Tr) *specbuilder.Spec[Record],
) (*specbuilder.Spec[Record], error) {
	if f.Required {
		return required(s, func(r Record) string { return stringOf(r[key]) }, tr), nil
	}
	extract := func(r Record) (string, bool) {
		v, ok := r[key]
		if !ok {
			return "", false
		}
		return stringOf(v), true
	}
	if f.Default != nil && *f.Default == "none" {
		return optionalNoDefault(s, extract, tr), nil
	}
	def := ""
	if f.Default != nil {
		def = *f.Default
	}
	return optional(s, extract, def, tr), nil
}

// wireStringFieldNoNoDefault handles transformer kinds with no
// WireOptional*NoDefault variant (currently only HashingEncoder). A
// Default of "none" is wired through specbuilder.OptionalNoDefault, since
// HashingEncoder's types are exported and need no Wire* binding.
func wireStringFieldNoNoDefault[Tr any](
	s *specbuilder.Spec[Record],
	key string,
	f FieldSpec,
	tr Tr,
	required func(*specbuilder.Spec[Record], func(Record) string, Tr) *specbuilder.Spec[Record],
	optional func(*specbuilder.Spec[Record], func(Record) (string, bool), string, Tr) *specbuilder.Spec[Record],
) (*specbuilder.Spec[Record], error) {
	if f.Required {
		return required(s, func(r Record) string { return stringOf(r[key]) }, tr), nil
	}
	extract := func(r Record) (string, bool) {
		v, ok := r[key]
		if !ok {
			return "", false
		}
		return stringOf(v), true
	}
	if f.Default != nil && *f.Default == "none" {
		if t, ok := any(tr).(feature.Transformer[string, feature.Unit, feature.Unit]); ok {
			return specbuilder.OptionalNoDefault[Record, string, feature.Unit, feature.Unit](s, extract, t), nil
		}
	}
	def := ""
	if f.Default != nil {
		def = *f.Default
	}
	return optional(s, extract, def, tr), nil
}

func floatOf(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func parseFloatDefault(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad default %q: %w", s, err)
	}
	return f, nil
}
