package graph

import (
	"github.com/pkg/errors"

	"github.com/axon-ml/axon/internal/tensor"
)

// Gradient preprocessing operators. Broadcasting is lossy in the forward
// direction: which axes were replicated is discarded. UnbroadcastGradOp
// reconstructs the operand-shaped gradient by summation; RebroadcastGradOp is
// its inverse, needed when a reduction step itself requires a gradient
// (second-order differentiation). The two form a symmetric pair.

// UnbroadcastGradOp folds an output-shaped gradient down to an operand's
// pre-broadcast shape by summing the broadcast axes.
//
// Inputs: [gy, shape descriptor]. The descriptor is the symbolic shape of the
// operand (see ShapeOf) and is never differentiable.
type UnbroadcastGradOp struct{}

// Name returns "unbroadcast_grad".
func (op *UnbroadcastGradOp) Name() string { return "unbroadcast_grad" }

// Compute reduces gy to the descriptor's shape.
//
// The no-broadcast case passes gy through as a zero-copy view. A scalar
// target sums every element into a single value. Otherwise axes are walked
// pairwise, trailing-aligned exactly as broadcasting aligned them: extra
// leading gradient axes are summed away, size-1 target axes are summed with
// the axis re-inserted so rank is preserved across the walk, and a target
// axis exceeding the gradient axis is a fatal graph inconsistency.
func (op *UnbroadcastGradOp) Compute(ctx *ComputeContext) error {
	gy := ctx.Input(0)
	xShape, err := shapeFromDescriptor(ctx.Input(1))
	if err != nil {
		return err
	}
	gyShape := gy.Shape()

	// Forward path didn't broadcast: nothing to reduce.
	if gyShape.Equal(xShape) {
		ctx.AppendOutputView(gy)
		return nil
	}

	if xShape.IsScalar() {
		ctx.AppendOutput(ctx.Backend().SumAll(gy))
		return nil
	}

	if len(xShape) > len(gyShape) {
		return &GradShapeError{Target: xShape, Grad: gyShape.Clone(), Axis: -1}
	}

	backend := ctx.Backend()
	folded := gy

	// Sum away the extra leading axes broadcasting prepended.
	for i := len(gyShape) - len(xShape); i > 0; i-- {
		folded, err = backend.SumDim(folded, 0, false)
		if err != nil {
			return err
		}
	}

	// Ranks now match; fold each stretched axis, keeping it as size 1.
	fShape := folded.Shape()
	for i, xAxis := range xShape {
		switch {
		case xAxis == fShape[i]:
			// Nothing to do on this axis.
		case xAxis == 1 && fShape[i] > 1:
			folded, err = backend.SumDim(folded, i, true)
			if err != nil {
				return err
			}
			fShape = folded.Shape()
		default:
			return &GradShapeError{Target: xShape, Grad: gyShape.Clone(), Axis: i}
		}
	}

	ctx.AppendOutput(folded)
	return nil
}

// Grad registers a RebroadcastGradOp node over (incoming second-order
// gradient, shape descriptor); the descriptor input is non-differentiable.
func (op *UnbroadcastGradOp) Grad(ctx *GradContext) error {
	gx := NewNodeBuilder().
		WithInputs(ctx.OutputGrad(), ctx.Input(1)).
		Build(ctx.Graph(), &RebroadcastGradOp{})
	return ctx.SetInputGrads([]*Node{gx, nil})
}

// RebroadcastGradOp broadcasts an operand-shaped gradient back into a target
// shape, the inverse of UnbroadcastGradOp.
//
// Inputs: [gy, shape descriptor].
type RebroadcastGradOp struct{}

// Name returns "rebroadcast_grad".
func (op *RebroadcastGradOp) Name() string { return "rebroadcast_grad" }

// Compute broadcasts gy into the descriptor's shape as an owned array, or
// passes it through as a view when the shapes already match. True scalars are
// rank-aligned by the stride-0 expansion inside BroadcastTo.
func (op *RebroadcastGradOp) Compute(ctx *ComputeContext) error {
	gy := ctx.Input(0)
	target, err := shapeFromDescriptor(ctx.Input(1))
	if err != nil {
		return err
	}

	if gy.Shape().Equal(target) {
		ctx.AppendOutputView(gy)
		return nil
	}

	ret, err := ctx.Backend().BroadcastTo(gy, target)
	if err != nil {
		return err
	}
	ctx.AppendOutput(ret)
	return nil
}

// Grad registers an UnbroadcastGradOp node over (incoming second-order
// gradient, shape descriptor), closing the symmetric pair.
func (op *RebroadcastGradOp) Grad(ctx *GradContext) error {
	gx := NewNodeBuilder().
		WithInputs(ctx.OutputGrad(), ctx.Input(1)).
		Build(ctx.Graph(), &UnbroadcastGradOp{})
	return ctx.SetInputGrads([]*Node{gx, nil})
}

// unbroadcast builds a gradient-reduction node folding gy to x's shape,
// with x's symbolic shape descriptor as the second, non-differentiable input.
func (g *Graph) unbroadcast(gy, x *Node) *Node {
	return NewNodeBuilder().
		WithInputs(gy, g.ShapeOf(x)).
		WithShape(x.shape).
		Build(g, &UnbroadcastGradOp{})
}

// Unbroadcast builds a node reducing gy by summation to target's shape.
func (g *Graph) Unbroadcast(gy, target *Node) *Node {
	return g.unbroadcast(gy, target)
}

// Rebroadcast builds a node broadcasting gy into target's shape.
func (g *Graph) Rebroadcast(gy, target *Node) *Node {
	return NewNodeBuilder().
		WithInputs(gy, g.ShapeOf(target)).
		WithShape(target.shape).
		Build(g, &RebroadcastGradOp{})
}

// shapeFromDescriptor decodes a shape descriptor array: a scalar descriptor
// denotes the scalar (empty) shape; otherwise the descriptor is a 1-D array
// whose elements are the dimensions.
func shapeFromDescriptor(t *tensor.RawTensor) (tensor.Shape, error) {
	if t.Shape().IsScalar() {
		return tensor.Shape{}, nil
	}
	if len(t.Shape()) != 1 {
		return nil, errors.Errorf("shape descriptor must be scalar or 1-D, got shape %v", t.Shape())
	}

	dims := make(tensor.Shape, t.NumElements())
	switch t.DType() {
	case tensor.Float32:
		for i, v := range t.AsFloat32() {
			dims[i] = int(v)
		}
	case tensor.Float64:
		for i, v := range t.AsFloat64() {
			dims[i] = int(v)
		}
	}
	if err := dims.Validate(); err != nil {
		return nil, errors.Wrap(err, "shape descriptor")
	}
	return dims, nil
}
