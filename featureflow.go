// Package featureflow is the declarative entry point over the extraction
// core: SpecFromStruct reflects on a struct's `featureflow` tags the way
// the teacher's schema.go reflects on `vecdex` tags, so a caller who wants
// a plain field-to-transformer mapping never has to touch specbuilder
// directly.
package featureflow

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kailas-cloud/featureflow/pkg/transformers"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
	"github.com/kailas-cloud/featureflow/internal/usecase/specbuilder"
)

const tagKey = "featureflow"

// SpecFromStruct builds a Spec[T] from T's `featureflow:"name,kind[,opt=val;...]"`
// struct tags. Supported kinds: identity, minmax, standard, onehot, hashing.
// A pointer-typed field (e.g. *float64) is wired as optional, defaulting to
// the underlying type's zero value when nil; adding "default=none" wires it
// with no fallback at all, so a nil field contributes nothing to the fit and
// its block is emitted as skips (zero columns wide when no record has the
// field set) (§4.6). Any other tagged field is required.
// Untagged and `featureflow:"-"` fields are ignored.
func SpecFromStruct[T any]() (*specbuilder.Spec[T], error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("featureflow: %T is not a struct", zero)
	}

	s := specbuilder.Of[T]()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		var err error
		s, err = applyTag[T](s, i, f, tag)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func applyTag[T any](s *specbuilder.Spec[T], idx int, f reflect.StructField, tag string) (*specbuilder.Spec[T], error) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	if len(parts) < 2 {
		return nil, fmt.Errorf("featureflow: field %s: tag %q is missing a transformer kind", f.Name, tag)
	}
	kind := parts[1]
	opts := parseOpts(parts[2:])

	fieldType := f.Type
	optional := fieldType.Kind() == reflect.Pointer
	if optional {
		fieldType = fieldType.Elem()
	}

	noDefault := opts["default"] == "none"

	switch kind {
	case "identity", "minmax", "standard":
		if fieldType.Kind() != reflect.Float64 {
			return nil, fmt.Errorf("featureflow: field %s: kind %q requires a float64 (or *float64) field", f.Name, kind)
		}
		return applyFloatKind(s, idx, name, kind, optional, noDefault)
	case "onehot", "hashing":
		if fieldType.Kind() != reflect.String {
			return nil, fmt.Errorf("featureflow: field %s: kind %q requires a string (or *string) field", f.Name, kind)
		}
		return applyStringKind(s, idx, name, kind, optional, noDefault, opts)
	default:
		return nil, fmt.Errorf("featureflow: field %s: unknown transformer kind %q", f.Name, kind)
	}
}

// applyFloatKind wires a float64 (or *float64) field. A pointer field
// defaults to the zero value on nil unless the tag carries
// "default=none" (§4.6 "optional(f, default = None)"), in which case a nil
// field contributes nothing to the fit and its block is emitted as skips.
func applyFloatKind[T any](s *specbuilder.Spec[T], idx int, name, kind string, optional, noDefault bool) (*specbuilder.Spec[T], error) {
	var required func(T) float64
	var opt func(T) (float64, bool)
	if optional {
		opt = func(t T) (float64, bool) { return optionalFloatField(t, idx) }
	} else {
		required = func(t T) float64 { return floatField(t, idx) }
	}

	switch kind {
	case "identity":
		tr := transformers.NewIdentity(name)
		switch {
		case optional && noDefault:
			return transformers.WireOptionalIdentityNoDefault(s, opt, tr), nil
		case optional:
			return transformers.WireOptionalIdentity(s, opt, tr), nil
		}
		return transformers.WireIdentity(s, required, tr), nil
	case "minmax":
		tr := transformers.NewMinMaxScaler(name)
		switch {
		case optional && noDefault:
			return transformers.WireOptionalMinMaxNoDefault(s, opt, tr), nil
		case optional:
			return transformers.WireOptionalMinMax(s, opt, tr), nil
		}
		return transformers.WireMinMax(s, required, tr), nil
	case "standard":
		tr := transformers.NewStandardScaler(name)
		switch {
		case optional && noDefault:
			return transformers.WireOptionalStandardNoDefault(s, opt, tr), nil
		case optional:
			return transformers.WireOptionalStandard(s, opt, tr), nil
		}
		return transformers.WireStandard(s, required, tr), nil
	}
	return s, nil
}

func applyStringKind[T any](s *specbuilder.Spec[T], idx int, name, kind string, optional, noDefault bool, opts map[string]string) (*specbuilder.Spec[T], error) {
	var required func(T) string
	var opt func(T) (string, bool)
	if optional {
		opt = func(t T) (string, bool) { return optionalStringField(t, idx) }
	} else {
		required = func(t T) string { return stringField(t, idx) }
	}

	switch kind {
	case "onehot":
		tr := transformers.NewOneHotEncoder(name)
		switch {
		case optional && noDefault:
			return transformers.WireOptionalOneHotNoDefault(s, opt, tr), nil
		case optional:
			return transformers.WireOptionalOneHot(s, opt, tr), nil
		}
		return transformers.WireOneHot(s, required, tr), nil
	case "hashing":
		buckets := 32
		if v, ok := opts["buckets"]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("featureflow: field %s: bad buckets option %q: %w", name, v, err)
			}
			buckets = n
		}
		tr := transformers.NewHashingEncoder(name, buckets)
		switch {
		case optional && noDefault:
			return specbuilder.OptionalNoDefault[T, string, feature.Unit, feature.Unit](s, opt, tr), nil
		case optional:
			return transformers.WireOptionalHashing(s, opt, tr), nil
		}
		return transformers.WireHashing(s, required, tr), nil
	}
	return s, nil
}

func parseOpts(parts []string) map[string]string {
	opts := make(map[string]string, len(parts))
	for _, p := range parts {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) == 2 {
			opts[kv[0]] = kv[1]
		}
	}
	return opts
}

func floatField[T any](t T, idx int) float64 {
	return reflect.ValueOf(t).Field(idx).Float()
}

func optionalFloatField[T any](t T, idx int) (float64, bool) {
	v := reflect.ValueOf(t).Field(idx)
	if v.IsNil() {
		return 0, false
	}
	return v.Elem().Float(), true
}

func stringField[T any](t T, idx int) string {
	return reflect.ValueOf(t).Field(idx).String()
}

func optionalStringField[T any](t T, idx int) (string, bool) {
	v := reflect.ValueOf(t).Field(idx)
	if v.IsNil() {
		return "", false
	}
	return v.Elem().String(), true
}
