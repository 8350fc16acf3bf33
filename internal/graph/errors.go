package graph

import (
	stderrors "errors"
	"fmt"

	"github.com/axon-ml/axon/internal/tensor"
)

// Common errors. Shape problems are programming errors in graph construction
// or shape inference, never transient conditions; they are surfaced as typed,
// catchable errors rather than process aborts so a host can report a
// diagnostic referencing the offending node.
var (
	// ErrShapeIncompatible re-exports the forward broadcast failure.
	ErrShapeIncompatible = tensor.ErrShapeIncompatible
	// ErrBroadcastFailure re-exports the gradient expansion failure.
	ErrBroadcastFailure = tensor.ErrBroadcastFailure
	// ErrDTypeMismatch re-exports the operand element-type disagreement.
	ErrDTypeMismatch = tensor.ErrDTypeMismatch
	// ErrGradShapeInconsistent marks a declared operand shape that disagrees
	// with the observed output-gradient shape.
	ErrGradShapeInconsistent = stderrors.New("inconsistent gradient shape")
)

// GradShapeError reports a gradient reduction whose target axis size exceeds
// the corresponding gradient axis size. It indicates a bug in the graph: the
// declared pre-broadcast shape is inconsistent with the observed gradient.
type GradShapeError struct {
	Target tensor.Shape // Declared pre-broadcast operand shape
	Grad   tensor.Shape // Observed incoming gradient shape
	Axis   int          // Axis (in Target) at which they disagree; -1 for a rank mismatch
}

// Error implements the error interface.
func (e *GradShapeError) Error() string {
	if e.Axis < 0 {
		return fmt.Sprintf("incorrect gradient shape: target %v has higher rank than gradient %v",
			e.Target, e.Grad)
	}
	return fmt.Sprintf("incorrect gradient shape: target %v axis %d exceeds gradient %v",
		e.Target, e.Axis, e.Grad)
}

// Is reports whether target is ErrGradShapeInconsistent.
func (e *GradShapeError) Is(target error) bool {
	return target == ErrGradShapeInconsistent
}
