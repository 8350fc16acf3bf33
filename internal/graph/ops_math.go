package graph

import (
	"github.com/pkg/errors"

	"github.com/axon-ml/axon/internal/tensor"
)

// Leaf and supporting operators used by the gradient wiring.

// ConstOp holds a fixed array and serves it as a zero-copy view.
type ConstOp struct {
	Value *tensor.RawTensor
}

// Name returns "const".
func (op *ConstOp) Name() string { return "const" }

// Compute deposits the stored array as a view.
func (op *ConstOp) Compute(ctx *ComputeContext) error {
	ctx.AppendOutputView(op.Value)
	return nil
}

// Grad has no inputs to differentiate.
func (op *ConstOp) Grad(ctx *GradContext) error {
	return ctx.SetInputGrads(nil)
}

// VariableOp holds a settable array leaf.
type VariableOp struct {
	Value *tensor.RawTensor
}

// Name returns "variable".
func (op *VariableOp) Name() string { return "variable" }

// Compute deposits the current value as a view.
func (op *VariableOp) Compute(ctx *ComputeContext) error {
	ctx.AppendOutputView(op.Value)
	return nil
}

// Grad has no inputs to differentiate.
func (op *VariableOp) Grad(ctx *GradContext) error {
	return ctx.SetInputGrads(nil)
}

// PlaceholderOp is a leaf whose value must be supplied via Feeds at Eval time.
type PlaceholderOp struct{}

// Name returns "placeholder".
func (op *PlaceholderOp) Name() string { return "placeholder" }

// Compute fails: placeholders are satisfied by feeds, never computed.
func (op *PlaceholderOp) Compute(ctx *ComputeContext) error {
	return errors.New("placeholder node requires a feed")
}

// Grad has no inputs to differentiate.
func (op *PlaceholderOp) Grad(ctx *GradContext) error {
	return ctx.SetInputGrads(nil)
}

// OnesLikeOp produces an all-ones array shaped and typed like its input;
// it seeds default output gradients.
type OnesLikeOp struct{}

// Name returns "ones_like".
func (op *OnesLikeOp) Name() string { return "ones_like" }

// Compute deposits a fresh all-ones array.
func (op *OnesLikeOp) Compute(ctx *ComputeContext) error {
	ctx.AppendOutput(tensor.FullLike(ctx.Input(0), 1))
	return nil
}

// Grad marks the input as receiving no gradient (the output is constant in it).
func (op *OnesLikeOp) Grad(ctx *GradContext) error {
	return ctx.SetInputGrads([]*Node{nil})
}

// NegOp computes -x.
type NegOp struct{}

// Name returns "neg".
func (op *NegOp) Name() string { return "neg" }

// Compute deposits -x.
func (op *NegOp) Compute(ctx *ComputeContext) error {
	ctx.AppendOutput(ctx.Backend().Neg(ctx.Input(0)))
	return nil
}

// Grad builds gx = -gy.
func (op *NegOp) Grad(ctx *GradContext) error {
	return ctx.SetInputGrads([]*Node{ctx.Graph().Neg(ctx.OutputGrad())})
}

// ScaleOp computes c*x for a compile-time scalar c.
type ScaleOp struct {
	C float64
}

// Name returns "scale".
func (op *ScaleOp) Name() string { return "scale" }

// Compute deposits c*x.
func (op *ScaleOp) Compute(ctx *ComputeContext) error {
	ctx.AppendOutput(ctx.Backend().Scale(ctx.Input(0), op.C))
	return nil
}

// Grad builds gx = c*gy.
func (op *ScaleOp) Grad(ctx *GradContext) error {
	return ctx.SetInputGrads([]*Node{ctx.Graph().Scale(ctx.OutputGrad(), op.C)})
}

// PowScalarOp computes x^p elementwise for a compile-time scalar exponent p.
type PowScalarOp struct {
	P float64
}

// Name returns "pow".
func (op *PowScalarOp) Name() string { return "pow" }

// Compute deposits x^p.
func (op *PowScalarOp) Compute(ctx *ComputeContext) error {
	ctx.AppendOutput(ctx.Backend().PowScalar(ctx.Input(0), op.P))
	return nil
}

// Grad builds gx = p * x^(p-1) * gy.
func (op *PowScalarOp) Grad(ctx *GradContext) error {
	g := ctx.Graph()
	x := ctx.Input(0)
	gx, err := g.Mul(g.Scale(g.PowScalar(x, op.P-1), op.P), ctx.OutputGrad())
	if err != nil {
		return err
	}
	return ctx.SetInputGrads([]*Node{gx})
}

// ShapeOfOp emits its input's runtime shape as a descriptor array: a 1-D
// array of the dimensions, or a scalar descriptor for a scalar input.
type ShapeOfOp struct{}

// Name returns "shape_of".
func (op *ShapeOfOp) Name() string { return "shape_of" }

// Compute deposits the shape descriptor.
func (op *ShapeOfOp) Compute(ctx *ComputeContext) error {
	shape := ctx.Input(0).Shape()
	if shape.IsScalar() {
		ctx.AppendOutput(tensor.Scalar[float64](0))
		return nil
	}

	dims := make([]float64, len(shape))
	for i, d := range shape {
		dims[i] = float64(d)
	}
	desc, err := tensor.FromSlice(dims, tensor.Shape{len(shape)})
	if err != nil {
		return err
	}
	ctx.AppendOutput(desc)
	return nil
}

// Grad marks the input non-differentiable: shapes carry no gradient.
func (op *ShapeOfOp) Grad(ctx *GradContext) error {
	return ctx.SetInputGrads([]*Node{nil})
}

// Const builds a leaf node holding a fixed array.
func (g *Graph) Const(t *tensor.RawTensor) *Node {
	return NewNodeBuilder().WithShape(t.Shape()).Build(g, &ConstOp{Value: t})
}

// Variable builds a settable leaf node; see Node.SetVariableValue.
func (g *Graph) Variable(t *tensor.RawTensor) *Node {
	return NewNodeBuilder().WithShape(t.Shape()).Build(g, &VariableOp{Value: t})
}

// Placeholder builds a leaf node fed at Eval time. shape may be nil.
func (g *Graph) Placeholder(shape tensor.Shape) *Node {
	return NewNodeBuilder().WithShape(shape).Build(g, &PlaceholderOp{})
}

// OnesLike builds a node producing an all-ones array shaped like x.
func (g *Graph) OnesLike(x *Node) *Node {
	return NewNodeBuilder().WithInputs(x).WithShape(x.shape).Build(g, &OnesLikeOp{})
}

// Neg builds a node computing -x.
func (g *Graph) Neg(x *Node) *Node {
	return NewNodeBuilder().WithInputs(x).WithShape(x.shape).Build(g, &NegOp{})
}

// Scale builds a node computing c*x.
func (g *Graph) Scale(x *Node, c float64) *Node {
	return NewNodeBuilder().WithInputs(x).WithShape(x.shape).Build(g, &ScaleOp{C: c})
}

// PowScalar builds a node computing x^p elementwise.
func (g *Graph) PowScalar(x *Node, p float64) *Node {
	return NewNodeBuilder().WithInputs(x).WithShape(x.shape).Build(g, &PowScalarOp{P: p})
}

// ShapeOf builds a node emitting x's runtime shape descriptor.
func (g *Graph) ShapeOf(x *Node) *Node {
	var shape tensor.Shape
	if x.shape != nil {
		if x.shape.IsScalar() {
			shape = tensor.Shape{}
		} else {
			shape = tensor.Shape{len(x.shape)}
		}
	}
	return NewNodeBuilder().WithInputs(x).WithShape(shape).Build(g, &ShapeOfOp{})
}

// SetVariableValue replaces the array held by a Variable leaf. It is the only
// mutation the graph permits and must not race with Eval.
func (n *Node) SetVariableValue(t *tensor.RawTensor) error {
	op, ok := n.op.(*VariableOp)
	if !ok {
		return errors.Errorf("node %s is not a variable", n)
	}
	if n.shape != nil && !n.shape.Equal(t.Shape()) {
		return errors.Errorf("node %s: value shape %v does not match declared %v", n, t.Shape(), n.shape)
	}
	op.Value = t
	return nil
}
