package featureset

import (
	"errors"
	"fmt"
)

// Construction-time errors (§7.1), surfaced before any data is touched.
var (
	// ErrDuplicateName signals two entries or a combine() sharing a name.
	ErrDuplicateName = errors.New("featureset: duplicate transformer name")
	// ErrUnknownCrossName signals a cross() referencing an undeclared name.
	ErrUnknownCrossName = errors.New("featureset: cross references unknown transformer name")
	// ErrEmptyCombine signals combine() called with no specs.
	ErrEmptyCombine = errors.New("featureset: combine requires at least one spec")
)

// Replay-time errors (§7.2).
var (
	// ErrSettingsMissing signals a declared transformer with no matching
	// settings entry.
	ErrSettingsMissing = errors.New("featureset: settings missing for declared transformer")
	// ErrSettingsMalformed signals a settings string a transformer's
	// decoder rejected.
	ErrSettingsMalformed = errors.New("featureset: transformer rejected its encoded aggregator")
)

// ErrEmptyAggregate signals present() invoked over an empty monoid: no
// record contributed and no settings were supplied to replay from (§4.2,
// §8 "empty-dataset rule").
var ErrEmptyAggregate = errors.New("featureset: cannot present an aggregate with zero contributions")

// SettingsMismatchError names the transformer whose settings decode or
// Present call failed, in the style of the teacher's RevisionConflictError.
type SettingsMismatchError struct {
	Transformer string
	Err         error
}

func (e *SettingsMismatchError) Error() string {
	return fmt.Sprintf("featureset: transformer %q: %v", e.Transformer, e.Err)
}

func (e *SettingsMismatchError) Unwrap() error { return e.Err }
