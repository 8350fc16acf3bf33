package cpu

import (
	"github.com/axon-ml/axon/internal/tensor"
)

// broadcastStrides computes strides for addressing inShape's buffer through
// outShape's index space. Stretched axes (size 1 or missing leading axes)
// get stride 0, so every output coordinate along them reads the same element.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	// Missing leading dimensions are treated as size 1.
	inDim := len(inShape)
	offset := outDim - inDim

	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0 || inIdx >= inDim:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// flatIndex translates a flat index in the output's row-major order into the
// flat index of the source array, given the source's broadcast strides.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	ndim := len(outStrides)
	flatIdx := 0

	for i := 0; i < ndim; i++ {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}

	return flatIdx
}
