// Copyright 2026 Axon ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for dense arrays in the Axon framework.
//
// The package defines the core types for shape-checked N-dimensional arrays:
//   - RawTensor: dense array with explicit view (borrowed, read-only) vs
//     owned (exclusively held) semantics
//   - Shape, DataType: core type definitions and broadcasting rules
//
// Example:
//
//	x := tensor.Ones[float32](tensor.Shape{2, 3})
//	v := x.View()          // zero-copy read-only borrow
//	y := v.Materialize()   // owned copy
package tensor

import (
	"github.com/axon-ml/axon/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for array element types.
// Supported types: float32, float64.
type DType = tensor.DType

// DataType represents the underlying element type of an array.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents array dimensions; the empty shape denotes a scalar.
type Shape = tensor.Shape

// RawTensor is the dense array representation with view/owned semantics.
type RawTensor = tensor.RawTensor

// ShapeError reports two shapes that cannot be broadcast together.
type ShapeError = tensor.ShapeError

// BroadcastError reports a failed broadcast into a target shape.
type BroadcastError = tensor.BroadcastError

// DTypeError reports two operands whose element types disagree.
type DTypeError = tensor.DTypeError

// Sentinel errors for errors.Is checks.
var (
	ErrShapeIncompatible = tensor.ErrShapeIncompatible
	ErrBroadcastFailure  = tensor.ErrBroadcastFailure
	ErrDTypeMismatch     = tensor.ErrDTypeMismatch
)

// NewRaw creates a new owned zero-initialized array.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// BroadcastShapes applies NumPy-style broadcasting rules to two shapes.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// Zeros creates an owned array filled with zeros.
func Zeros[T DType](shape Shape) *RawTensor {
	return tensor.Zeros[T](shape)
}

// Ones creates an owned array filled with ones.
func Ones[T DType](shape Shape) *RawTensor {
	return tensor.Ones[T](shape)
}

// Full creates an owned array filled with a specific value.
func Full[T DType](shape Shape, value T) *RawTensor {
	return tensor.Full[T](shape, value)
}

// Scalar creates an owned scalar array (empty shape).
func Scalar[T DType](value T) *RawTensor {
	return tensor.Scalar[T](value)
}

// FromSlice creates an owned array from a flat row-major slice.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice[T](data, shape)
}
