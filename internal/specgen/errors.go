package specgen

import (
	"errors"
	"fmt"

	"github.com/tunelab/tdspec/internal/ir"
)

// ContractError reports a caller bug: the root-op marker attribute was
// present on the input operation but was not of the zero-payload unit
// kind. It is raised before any spec text is emitted.
type ContractError struct {
	// Attr is the offending attribute name.
	Attr string

	// Kind is the attribute kind actually found.
	Kind ir.AttrKind
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("expected %q attr to be a unit attr, got %s", e.Attr, e.Kind)
}

// IsContractError returns true if the error is a ContractError.
// Uses errors.As to handle wrapped errors.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

// RenderError reports that assembled spec text failed to parse. This is
// always a bug in the renderer or an unsupported operand/attribute form,
// never a legitimate data condition: callers should abort the tuning
// iteration rather than retry. Text carries the full offending module
// for diagnosis.
type RenderError struct {
	// Text is the assembled spec that failed validation.
	Text string

	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("rendered spec failed to parse: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *RenderError) Unwrap() error { return e.Err }

// IsRenderError returns true if the error is a RenderError.
// Uses errors.As to handle wrapped errors.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
