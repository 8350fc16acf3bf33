package graph

import (
	"github.com/pkg/errors"

	"github.com/axon-ml/axon/internal/backend/cpu"
	"github.com/axon-ml/axon/internal/tensor"
)

// Op is the polymorphic operator capability. Compute runs the numeric forward
// step; Grad runs at graph-construction time only, building symbolic gradient
// nodes for each input without evaluating anything.
type Op interface {
	// Name returns a short operator name for diagnostics.
	Name() string

	// Compute reads concrete input arrays from ctx and deposits one output,
	// either as a new owned array or as a zero-copy view.
	Compute(ctx *ComputeContext) error

	// Grad reads the node's symbolic inputs and the symbolic incoming output
	// gradient from ctx and must call ctx.SetInputGrads exactly once with one
	// entry per input; a nil entry marks an input as non-differentiable.
	Grad(ctx *GradContext) error
}

// ComputeContext is the transient per-invocation object handed to Op.Compute.
// It gives read access to concrete input arrays and a sink for the output.
type ComputeContext struct {
	node    *Node
	backend *cpu.CPUBackend
	inputs  []*tensor.RawTensor
	outputs []*tensor.RawTensor
}

// Input returns a read-only array view for positional input i.
// The view must not be mutated and must not outlive the compute call.
func (ctx *ComputeContext) Input(i int) *tensor.RawTensor {
	return ctx.inputs[i]
}

// NumInputs returns the number of concrete inputs.
func (ctx *ComputeContext) NumInputs() int {
	return len(ctx.inputs)
}

// Backend returns the numeric kernels for this evaluation.
func (ctx *ComputeContext) Backend() *cpu.CPUBackend {
	return ctx.backend
}

// AppendOutput deposits a new owned array, transferring ownership to the
// evaluation cache.
func (ctx *ComputeContext) AppendOutput(t *tensor.RawTensor) {
	ctx.outputs = append(ctx.outputs, t)
}

// AppendOutputView deposits a zero-copy view of an input, used when no
// transformation occurred.
func (ctx *ComputeContext) AppendOutputView(t *tensor.RawTensor) {
	ctx.outputs = append(ctx.outputs, t.View())
}

// GradContext is the transient per-invocation object handed to Op.Grad during
// backward-pass graph construction.
type GradContext struct {
	node       *Node
	outputGrad *Node
	inputGrads []*Node
	set        bool
}

// Input returns the symbolic node for positional input i.
func (ctx *GradContext) Input(i int) *Node {
	return ctx.node.inputs[i]
}

// NumInputs returns the number of symbolic inputs.
func (ctx *GradContext) NumInputs() int {
	return len(ctx.node.inputs)
}

// OutputGrad returns the symbolic incoming gradient of the node's output.
func (ctx *GradContext) OutputGrad() *Node {
	return ctx.outputGrad
}

// Graph returns the ambient graph in which gradient nodes are built.
func (ctx *GradContext) Graph() *Graph {
	return ctx.node.graph
}

// SetInputGrads registers the symbolic gradient-producing node for each input.
// It must be called exactly once per Grad invocation, with one entry per
// input; a nil entry means the input receives no gradient.
func (ctx *GradContext) SetInputGrads(grads []*Node) error {
	if ctx.set {
		return errors.Errorf("op %s: SetInputGrads called more than once", ctx.node.op.Name())
	}
	if len(grads) != len(ctx.node.inputs) {
		return errors.Errorf("op %s: SetInputGrads got %d gradients for %d inputs",
			ctx.node.op.Name(), len(grads), len(ctx.node.inputs))
	}
	ctx.inputGrads = grads
	ctx.set = true
	return nil
}
