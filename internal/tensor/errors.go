package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeIncompatible = errors.New("shapes not compatible for broadcasting")
	ErrBroadcastFailure  = errors.New("cannot broadcast to target shape")
	ErrDTypeMismatch     = errors.New("mismatched operand dtypes")
)

// ShapeError reports two operand shapes that cannot be broadcast together.
type ShapeError struct {
	Left  Shape // Left operand shape
	Right Shape // Right operand shape
	Axis  int   // Result axis at which the shapes disagree
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("shapes not compatible for broadcasting: %v vs %v (result axis %d)",
		e.Left, e.Right, e.Axis)
}

// Is reports whether target is ErrShapeIncompatible.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeIncompatible
}

// BroadcastError reports a failed broadcast of an array into a target shape.
type BroadcastError struct {
	From Shape // Shape of the array being broadcast
	To   Shape // Requested target shape
}

// Error implements the error interface.
func (e *BroadcastError) Error() string {
	return fmt.Sprintf("cannot broadcast shape %v to %v", e.From, e.To)
}

// Is reports whether target is ErrBroadcastFailure.
func (e *BroadcastError) Is(target error) bool {
	return target == ErrBroadcastFailure
}

// DTypeError reports two operands whose element types disagree.
type DTypeError struct {
	Left  DataType // Left operand dtype
	Right DataType // Right operand dtype
}

// Error implements the error interface.
func (e *DTypeError) Error() string {
	return fmt.Sprintf("mismatched operand dtypes: %s vs %s", e.Left, e.Right)
}

// Is reports whether target is ErrDTypeMismatch.
func (e *DTypeError) Is(target error) bool {
	return target == ErrDTypeMismatch
}

// errInvalidDim builds the validation error for a non-positive dimension.
func errInvalidDim(s Shape, i, dim int) error {
	return fmt.Errorf("invalid dimension at index %d of %v: %d (must be > 0)", i, s, dim)
}
