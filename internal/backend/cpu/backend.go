// Package cpu implements the numeric kernels for elementwise tensor arithmetic,
// broadcasting, and gradient reduction on the CPU.
package cpu

import (
	"github.com/axon-ml/axon/internal/parallel"
	"github.com/axon-ml/axon/internal/tensor"
)

// CPUBackend implements broadcast-aware elementwise operations on CPU.
//
// All operations are pure: they read their input arrays, allocate a new owned
// result, and never mutate an operand in place. Independent calls are safe to
// run concurrently.
type CPUBackend struct {
	cfg parallel.Config
}

// New creates a new CPU backend with default parallelism.
func New() *CPUBackend {
	return &CPUBackend{cfg: parallel.DefaultConfig()}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Add performs elementwise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(opAdd, a, b)
}

// Sub performs elementwise subtraction with NumPy-style broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(opSub, a, b)
}

// Mul performs elementwise multiplication with NumPy-style broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(opMul, a, b)
}

// Div performs elementwise division with NumPy-style broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	return cpu.binary(opDiv, a, b)
}

// binary evaluates one elementwise binary operation between two arrays of
// possibly different, broadcast-compatible shapes, producing a new owned array.
//
// Fast paths:
//   - A true-scalar operand (empty shape) is applied against every element of
//     the other operand directly, without materializing a broadcast view.
//   - Equal shapes use straight vectorized loops.
//
// For commutative ops the broadcast path orders the larger-by-element-count
// operand first so the contiguous side of the kernel walks the bigger buffer;
// the result is numerically identical regardless of order. Non-commutative ops
// always preserve operand order.
func (cpu *CPUBackend) binary(op binOp, a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	if a.DType() != b.DType() {
		return nil, &tensor.DTypeError{Left: a.DType(), Right: b.DType()}
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(outShape, a.DType())
	if err != nil {
		return nil, err
	}

	aScalar := a.Shape().IsScalar()
	bScalar := b.Shape().IsScalar()

	switch {
	case aScalar && !bScalar:
		scalarLeftBinary(cpu.cfg, op, result, a, b)
	case bScalar && !aScalar:
		scalarRightBinary(cpu.cfg, op, result, a, b)
	case !needsBroadcast:
		vecBinary(cpu.cfg, op, result, a, b)
	default:
		if op.commutative() && b.NumElements() > a.NumElements() {
			a, b = b, a
		}
		broadcastBinary(cpu.cfg, op, result, a, b, outShape)
	}

	return result, nil
}
