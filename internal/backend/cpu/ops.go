package cpu

import (
	"github.com/axon-ml/axon/internal/parallel"
	"github.com/axon-ml/axon/internal/tensor"
)

// binOp identifies one of the elementwise binary arithmetic operations.
type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

// String returns a human-readable operation name.
func (op binOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	default:
		return "unknown"
	}
}

// commutative reports whether operand order is irrelevant.
func (op binOp) commutative() bool {
	return op == opAdd || op == opMul
}

// kernel returns the scalar combine function for op.
// A single generic function covers all four operations; there is no
// per-operation code generation.
func kernel[T tensor.DType](op binOp) func(T, T) T {
	switch op {
	case opAdd:
		return func(a, b T) T { return a + b }
	case opSub:
		return func(a, b T) T { return a - b }
	case opMul:
		return func(a, b T) T { return a * b }
	case opDiv:
		return func(a, b T) T { return a / b }
	default:
		panic("unknown binary operation")
	}
}

// vecBinary computes result = a OP b for equal-shape operands.
func vecBinary(cfg parallel.Config, op binOp, result, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		vecBinaryFloat32(cfg, op, result.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		vecBinaryFloat64(op, result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	default:
		panic("vecBinary: unsupported dtype")
	}
}

// scalarLeftBinary computes result = scalar OP b where a is a true scalar.
func scalarLeftBinary(cfg parallel.Config, op binOp, result, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		s := a.AsFloat32()[0]
		f := kernel[float32](op)
		out, in := result.AsFloat32(), b.AsFloat32()
		parallel.ForRange(len(in), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = f(s, in[i])
			}
		}, cfg)
	case tensor.Float64:
		scalarLeftBinaryFloat64(cfg, op, result.AsFloat64(), a.AsFloat64()[0], b.AsFloat64())
	default:
		panic("scalarLeftBinary: unsupported dtype")
	}
}

// scalarRightBinary computes result = a OP scalar where b is a true scalar.
func scalarRightBinary(cfg parallel.Config, op binOp, result, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		s := b.AsFloat32()[0]
		f := kernel[float32](op)
		out, in := result.AsFloat32(), a.AsFloat32()
		parallel.ForRange(len(in), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = f(in[i], s)
			}
		}, cfg)
	case tensor.Float64:
		scalarRightBinaryFloat64(cfg, op, result.AsFloat64(), a.AsFloat64(), b.AsFloat64()[0])
	default:
		panic("scalarRightBinary: unsupported dtype")
	}
}

// broadcastBinary computes result = a OP b where at least one operand is
// broadcast into outShape. Inputs are addressed through broadcast strides
// (stride 0 on stretched axes), so no intermediate array is materialized.
func broadcastBinary(cfg parallel.Config, op binOp, result, a, b *tensor.RawTensor, outShape tensor.Shape) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	switch a.DType() {
	case tensor.Float32:
		f := kernel[float32](op)
		out, av, bv := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		parallel.ForRange(len(out), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = f(av[flatIndex(i, outStrides, aStrides)], bv[flatIndex(i, outStrides, bStrides)])
			}
		}, cfg)
	case tensor.Float64:
		f := kernel[float64](op)
		out, av, bv := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		parallel.ForRange(len(out), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = f(av[flatIndex(i, outStrides, aStrides)], bv[flatIndex(i, outStrides, bStrides)])
			}
		}, cfg)
	default:
		panic("broadcastBinary: unsupported dtype")
	}
}
