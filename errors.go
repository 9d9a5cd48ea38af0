package assetkit

import (
	"errors"
	"fmt"

	"github.com/plantfabric/assetkit/ident"
	"github.com/plantfabric/assetkit/ifc"
	"github.com/plantfabric/assetkit/ingest"
	"github.com/plantfabric/assetkit/tagging"
	"github.com/plantfabric/assetkit/tree"
)

// Error kinds categorize failures by their type.
const (
	// KindValidation represents a blank or otherwise invalid input; the
	// operation was a no-op.
	KindValidation = "validation"

	// KindStructural represents a missing or kind-incompatible target;
	// the original snapshot is unchanged.
	KindStructural = "structural"

	// KindFormat represents malformed identifier or hierarchy input.
	KindFormat = "format"

	// KindExhaustion represents the tag generator running out of
	// attempts.
	KindExhaustion = "exhaustion"

	// KindStorage represents a persistence or attachment-store failure.
	KindStorage = "storage"

	// KindInternal represents everything else.
	KindInternal = "internal"
)

// Error is a structured error type that wraps underlying errors with
// the operation that failed and the category of failure.
//
// Error implements the error interface and supports unwrapping, making
// it compatible with errors.Is() and errors.As().
type Error struct {
	// Op is the operation that failed (e.g., "Registry.Export").
	Op string

	// Kind categorizes the error (e.g., KindStructural).
	Kind string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("assetkit: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("assetkit: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and
// errors.As() to work through the wrapper.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op when the target sets one),
// and otherwise delegates to the underlying error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}
	return errors.Is(e.Err, target)
}

// wrap builds an *Error with the kind classified from the underlying
// error. A nil err passes through as nil.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: Classify(err), Err: err}
}

// Classify maps the module's sentinel errors onto the error kinds. It
// is exported so hosts can bucket failures for presentation without
// depending on individual sentinels.
func Classify(err error) string {
	switch {
	case errors.Is(err, tree.ErrBlankName),
		errors.Is(err, tagging.ErrEmptyPattern):
		return KindValidation
	case errors.Is(err, tree.ErrNodeNotFound),
		errors.Is(err, tree.ErrKindMismatch),
		errors.Is(err, tree.ErrCycle),
		errors.Is(err, ifc.ErrMissingProject):
		return KindStructural
	case errors.Is(err, ident.ErrInvalidIdentifier),
		errors.Is(err, ingest.ErrMalformedHierarchy):
		return KindFormat
	case errors.Is(err, tagging.ErrExhausted):
		return KindExhaustion
	default:
		return KindInternal
	}
}
