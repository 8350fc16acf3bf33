package cpu

import (
	"github.com/axon-ml/axon/internal/parallel"
	"github.com/axon-ml/axon/internal/tensor"
)

// BroadcastTo materializes x broadcast into target as a new owned array.
//
// x's shape must be broadcast-compatible with target and must not require
// shrinking any axis: the broadcast of the two shapes has to be target itself.
// A true scalar broadcasts into any target shape. Returns *tensor.BroadcastError
// if the expansion is not possible.
func (cpu *CPUBackend) BroadcastTo(x *tensor.RawTensor, target tensor.Shape) (*tensor.RawTensor, error) {
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), target)
	if err != nil || !outShape.Equal(target) {
		return nil, &tensor.BroadcastError{From: x.Shape().Clone(), To: target.Clone()}
	}

	result, err := tensor.NewRaw(target, x.DType())
	if err != nil {
		return nil, err
	}

	outStrides := target.ComputeStrides()
	inStrides := broadcastStrides(x.Shape(), target)

	switch x.DType() {
	case tensor.Float32:
		out, in := result.AsFloat32(), x.AsFloat32()
		parallel.ForRange(len(out), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = in[flatIndex(i, outStrides, inStrides)]
			}
		}, cpu.cfg)
	case tensor.Float64:
		out, in := result.AsFloat64(), x.AsFloat64()
		parallel.ForRange(len(out), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				out[i] = in[flatIndex(i, outStrides, inStrides)]
			}
		}, cpu.cfg)
	default:
		return nil, &tensor.BroadcastError{From: x.Shape().Clone(), To: target.Clone()}
	}

	return result, nil
}
