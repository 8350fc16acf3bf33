package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/axon-ml/axon/internal/tensor"
)

// SumDim sums array elements along the specified dimension.
//
// Parameters:
//   - dim: dimension to reduce (supports negative indexing: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1; if false, remove it
//
// Example:
//
//	y, _ := cpu.SumDim(x, -1, true)   // [2, 3, 4] -> [2, 3, 1]
//	z, _ := cpu.SumDim(x, -1, false)  // [2, 3, 4] -> [2, 3]
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) (*tensor.RawTensor, error) {
	shape := x.Shape()
	ndim := len(shape)

	// Normalize negative dimension
	if dim < 0 {
		dim = ndim + dim
	}

	if dim < 0 || dim >= ndim {
		return nil, fmt.Errorf("sumdim: dimension %d out of range for %dD array", dim, ndim)
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		for i := 0; i < ndim; i++ {
			if i != dim {
				outShape = append(outShape, shape[i])
			}
		}
	}

	result, err := tensor.NewRaw(outShape, x.DType())
	if err != nil {
		return nil, fmt.Errorf("sumdim: %w", err)
	}

	// Split the index space into [outer, n, inner] around the reduced axis.
	outer, n, inner := 1, shape[dim], 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}

	switch x.DType() {
	case tensor.Float32:
		sumDimFloat32(x.AsFloat32(), result.AsFloat32(), outer, n, inner)
	case tensor.Float64:
		sumDimFloat64(x.AsFloat64(), result.AsFloat64(), outer, n, inner)
	default:
		return nil, fmt.Errorf("sumdim: unsupported dtype %s", x.DType())
	}

	return result, nil
}

// SumAll sums every element of the array into an owned scalar (empty shape).
func (cpu *CPUBackend) SumAll(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{}, x.DType())
	if err != nil {
		panic(fmt.Sprintf("sumall: %v", err)) // empty shape always validates
	}

	switch x.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range x.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		result.AsFloat64()[0] = floats.Sum(x.AsFloat64())
	default:
		panic(fmt.Sprintf("sumall: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumDimFloat32(data, result []float32, outer, n, inner int) {
	for o := 0; o < outer; o++ {
		base := o * n * inner
		dst := o * inner
		for k := 0; k < n; k++ {
			row := base + k*inner
			for i := 0; i < inner; i++ {
				result[dst+i] += data[row+i]
			}
		}
	}
}

func sumDimFloat64(data, result []float64, outer, n, inner int) {
	for o := 0; o < outer; o++ {
		base := o * n * inner
		dst := o * inner
		for k := 0; k < n; k++ {
			row := base + k*inner
			for i := 0; i < inner; i++ {
				result[dst+i] += data[row+i]
			}
		}
	}
}
