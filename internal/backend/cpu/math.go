package cpu

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/axon-ml/axon/internal/parallel"
	"github.com/axon-ml/axon/internal/tensor"
)

// Unary kernels used by the gradient wiring.

// Neg returns -x as a new owned array.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.Scale(x, -1)
}

// Scale returns c*x as a new owned array.
func (cpu *CPUBackend) Scale(x *tensor.RawTensor, c float64) *tensor.RawTensor {
	result := mustNewLike(x)

	switch x.DType() {
	case tensor.Float32:
		out, in := result.AsFloat32(), x.AsFloat32()
		s := float32(c)
		parallel.ForRange(len(out), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = s * in[i]
			}
		}, cpu.cfg)
	case tensor.Float64:
		copy(result.AsFloat64(), x.AsFloat64())
		floats.Scale(c, result.AsFloat64())
	}

	return result
}

// PowScalar raises every element of x to the power p, as a new owned array.
// Integer exponents in [-2, 2] avoid math.Pow; those are the only exponents
// the division gradient produces.
func (cpu *CPUBackend) PowScalar(x *tensor.RawTensor, p float64) *tensor.RawTensor {
	result := mustNewLike(x)

	switch x.DType() {
	case tensor.Float32:
		out, in := result.AsFloat32(), x.AsFloat32()
		parallel.ForRange(len(out), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = float32(powElem(float64(in[i]), p))
			}
		}, cpu.cfg)
	case tensor.Float64:
		out, in := result.AsFloat64(), x.AsFloat64()
		parallel.ForRange(len(out), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = powElem(in[i], p)
			}
		}, cpu.cfg)
	}

	return result
}

func powElem(v, p float64) float64 {
	switch p {
	case 0:
		return 1
	case 1:
		return v
	case 2:
		return v * v
	case -1:
		return 1 / v
	case -2:
		return 1 / (v * v)
	default:
		return math.Pow(v, p)
	}
}

// mustNewLike allocates an owned array shaped and typed like x.
func mustNewLike(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType())
	if err != nil {
		panic(fmt.Sprintf("cpu: %v", err)) // x's shape is already validated
	}
	return result
}
