package cpu

import (
	"gonum.org/v1/gonum/floats"

	"github.com/axon-ml/axon/internal/parallel"
)

// float64 kernels delegate the dense equal-shape paths to gonum's floats
// package; the remaining scalar-operand orderings are explicit loops.

func vecBinaryFloat64(op binOp, out, a, b []float64) {
	switch op {
	case opAdd:
		floats.AddTo(out, a, b)
	case opSub:
		floats.SubTo(out, a, b)
	case opMul:
		floats.MulTo(out, a, b)
	case opDiv:
		floats.DivTo(out, a, b)
	default:
		panic("unknown binary operation")
	}
}

func scalarLeftBinaryFloat64(cfg parallel.Config, op binOp, out []float64, s float64, b []float64) {
	switch op {
	case opAdd:
		copy(out, b)
		floats.AddConst(s, out)
	case opMul:
		copy(out, b)
		floats.Scale(s, out)
	default:
		// Non-commutative: scalar stays on the left.
		f := kernel[float64](op)
		parallel.ForRange(len(out), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = f(s, b[i])
			}
		}, cfg)
	}
}

func scalarRightBinaryFloat64(cfg parallel.Config, op binOp, out, a []float64, s float64) {
	switch op {
	case opAdd:
		copy(out, a)
		floats.AddConst(s, out)
	case opMul:
		copy(out, a)
		floats.Scale(s, out)
	case opDiv:
		// Multiply by the reciprocal, one division total.
		copy(out, a)
		floats.Scale(1/s, out)
	default:
		copy(out, a)
		floats.AddConst(-s, out)
	}
}
