package graph

import (
	"github.com/pkg/errors"

	"github.com/axon-ml/axon/internal/tensor"
)

// Elementwise binary arithmetic operators. The forward step delegates to the
// broadcast-aware CPU kernels; the gradient step builds Unbroadcast nodes per
// operand and combines them per the chain rule, deferring all numeric work.

// AddOp computes x0 + x1 with broadcasting.
type AddOp struct{}

// Name returns "add".
func (op *AddOp) Name() string { return "add" }

// Compute evaluates the broadcast-aware elementwise sum.
func (op *AddOp) Compute(ctx *ComputeContext) error {
	ret, err := ctx.Backend().Add(ctx.Input(0), ctx.Input(1))
	if err != nil {
		return err
	}
	ctx.AppendOutput(ret)
	return nil
}

// Grad builds gx0 = unbroadcast(gy, x0), gx1 = unbroadcast(gy, x1).
func (op *AddOp) Grad(ctx *GradContext) error {
	gy0, gy1 := unbroadcastPair(ctx)
	return ctx.SetInputGrads([]*Node{gy0, gy1})
}

// SubOp computes x0 - x1 with broadcasting.
type SubOp struct{}

// Name returns "sub".
func (op *SubOp) Name() string { return "sub" }

// Compute evaluates the broadcast-aware elementwise difference.
func (op *SubOp) Compute(ctx *ComputeContext) error {
	ret, err := ctx.Backend().Sub(ctx.Input(0), ctx.Input(1))
	if err != nil {
		return err
	}
	ctx.AppendOutput(ret)
	return nil
}

// Grad builds gx0 = unbroadcast(gy, x0), gx1 = -unbroadcast(gy, x1).
func (op *SubOp) Grad(ctx *GradContext) error {
	gy0, gy1 := unbroadcastPair(ctx)
	return ctx.SetInputGrads([]*Node{gy0, ctx.Graph().Neg(gy1)})
}

// MulOp computes x0 * x1 with broadcasting.
type MulOp struct{}

// Name returns "mul".
func (op *MulOp) Name() string { return "mul" }

// Compute evaluates the broadcast-aware elementwise product.
func (op *MulOp) Compute(ctx *ComputeContext) error {
	ret, err := ctx.Backend().Mul(ctx.Input(0), ctx.Input(1))
	if err != nil {
		return err
	}
	ctx.AppendOutput(ret)
	return nil
}

// Grad builds gx0 = unbroadcast(gy, x0)*x1, gx1 = unbroadcast(gy, x1)*x0.
func (op *MulOp) Grad(ctx *GradContext) error {
	g := ctx.Graph()
	x0, x1 := ctx.Input(0), ctx.Input(1)
	gy0, gy1 := unbroadcastPair(ctx)

	gx0, err := g.Mul(gy0, x1)
	if err != nil {
		return err
	}
	gx1, err := g.Mul(gy1, x0)
	if err != nil {
		return err
	}
	return ctx.SetInputGrads([]*Node{gx0, gx1})
}

// DivOp computes x0 / x1 with broadcasting.
type DivOp struct{}

// Name returns "div".
func (op *DivOp) Name() string { return "div" }

// Compute evaluates the broadcast-aware elementwise quotient.
func (op *DivOp) Compute(ctx *ComputeContext) error {
	ret, err := ctx.Backend().Div(ctx.Input(0), ctx.Input(1))
	if err != nil {
		return err
	}
	ctx.AppendOutput(ret)
	return nil
}

// Grad builds gx0 = unbroadcast(gy, x0)/x1,
// gx1 = -x0 * x1^(-2) * unbroadcast(gy, x1).
func (op *DivOp) Grad(ctx *GradContext) error {
	g := ctx.Graph()
	x0, x1 := ctx.Input(0), ctx.Input(1)
	gy0, gy1 := unbroadcastPair(ctx)

	gx0, err := g.Div(gy0, x1)
	if err != nil {
		return err
	}
	t, err := g.Mul(g.Neg(x0), g.PowScalar(x1, -2))
	if err != nil {
		return err
	}
	gx1, err := g.Mul(t, gy1)
	if err != nil {
		return err
	}
	return ctx.SetInputGrads([]*Node{gx0, gx1})
}

// Add builds a broadcast-aware elementwise addition node.
func (g *Graph) Add(x0, x1 *Node) (*Node, error) {
	return g.binaryNode(&AddOp{}, x0, x1)
}

// Sub builds a broadcast-aware elementwise subtraction node.
func (g *Graph) Sub(x0, x1 *Node) (*Node, error) {
	return g.binaryNode(&SubOp{}, x0, x1)
}

// Mul builds a broadcast-aware elementwise multiplication node.
func (g *Graph) Mul(x0, x1 *Node) (*Node, error) {
	return g.binaryNode(&MulOp{}, x0, x1)
}

// Div builds a broadcast-aware elementwise division node.
func (g *Graph) Div(x0, x1 *Node) (*Node, error) {
	return g.binaryNode(&DivOp{}, x0, x1)
}

// binaryNode builds a binary-op node, inferring the declared output shape
// when both operand shapes are declared. Incompatible declared shapes fail
// at build time with the same typed error the forward path would produce.
func (g *Graph) binaryNode(op Op, x0, x1 *Node) (*Node, error) {
	var outShape tensor.Shape
	if x0.shape != nil && x1.shape != nil {
		var err error
		outShape, _, err = tensor.BroadcastShapes(x0.shape, x1.shape)
		if err != nil {
			return nil, errors.Wrapf(err, "graph %s: building %s node over %s and %s", g.id, op.Name(), x0, x1)
		}
	}
	return NewNodeBuilder().WithInputs(x0, x1).WithShape(outShape).Build(g, op), nil
}

// unbroadcastPair builds the two gradient-reduction nodes for a binary op's
// operands, each seeded with the single incoming output gradient.
func unbroadcastPair(ctx *GradContext) (*Node, *Node) {
	g := ctx.Graph()
	gy := ctx.OutputGrad()
	return g.unbroadcast(gy, ctx.Input(0)), g.unbroadcast(gy, ctx.Input(1))
}
