package cpu

import (
	"github.com/axon-ml/axon/internal/parallel"
)

// float32 kernels. gonum's floats package is float64-only, so these are
// explicit loops chunked through the parallel helper.

func vecBinaryFloat32(cfg parallel.Config, op binOp, out, a, b []float32) {
	f := kernel[float32](op)
	parallel.ForRange(len(out), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = f(a[i], b[i])
		}
	}, cfg)
}
