package graph

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/axon-ml/axon/internal/tensor"
)

// Node is an immutable symbolic handle to a computation: an operator, an
// ordered list of input nodes, and an optional declared output shape used for
// graph-time shape inference before any data exists.
//
// Nodes are owned by their graph and referenced by stable integer ids. Inputs
// always have smaller ids than their consumers, so the arena order is a valid
// topological order.
type Node struct {
	graph  *Graph
	id     int
	op     Op
	inputs []*Node
	shape  tensor.Shape // declared output shape; nil when unknown at build time
}

// Graph returns the graph owning this node.
func (n *Node) Graph() *Graph {
	return n.graph
}

// ID returns the node's stable id within its graph.
func (n *Node) ID() int {
	return n.id
}

// Op returns the node's operator.
func (n *Node) Op() Op {
	return n.op
}

// Inputs returns the node's ordered input nodes.
func (n *Node) Inputs() []*Node {
	return n.inputs
}

// Input returns the i-th input node.
func (n *Node) Input(i int) *Node {
	return n.inputs[i]
}

// Shape returns the node's declared output shape, or nil if unknown.
func (n *Node) Shape() tensor.Shape {
	return n.shape
}

// String returns a short diagnostic form, e.g. "#3(add)".
func (n *Node) String() string {
	return fmt.Sprintf("#%d(%s)", n.id, n.op.Name())
}

// NodeBuilder assembles a new node from input references, an optional
// declared shape, and an operator.
//
// Example:
//
//	n := graph.NewNodeBuilder().
//		WithInputs(gy, shapeDesc).
//		WithShape(target).
//		Build(g, &UnbroadcastGradOp{})
type NodeBuilder struct {
	inputs []*Node
	shape  tensor.Shape
}

// NewNodeBuilder creates an empty builder.
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{}
}

// WithInputs sets the ordered input nodes.
func (b *NodeBuilder) WithInputs(inputs ...*Node) *NodeBuilder {
	b.inputs = inputs
	return b
}

// WithShape declares the output shape for graph-time shape inference.
func (b *NodeBuilder) WithShape(shape tensor.Shape) *NodeBuilder {
	b.shape = shape
	return b
}

// Build appends a new node to g. All inputs must belong to g; mixing graphs
// is a programming error and panics.
func (b *NodeBuilder) Build(g *Graph, op Op) *Node {
	for _, in := range b.inputs {
		if in.graph != g {
			panic(fmt.Sprintf("graph %s: input node %s belongs to graph %s", g.id, in, in.graph.id))
		}
	}

	// A nil shape means "unknown"; the empty shape declares a scalar.
	var shape tensor.Shape
	if b.shape != nil {
		shape = b.shape.Clone()
	}

	n := &Node{
		graph:  g,
		op:     op,
		inputs: append([]*Node(nil), b.inputs...),
		shape:  shape,
	}
	g.addNode(n)

	if klog.V(2).Enabled() {
		klog.Infof("graph %s: built node %s inputs=%v shape=%v", g.id, n, nodeIDs(b.inputs), b.shape)
	}
	return n
}

// nodeIDs collects ids for logging.
func nodeIDs(nodes []*Node) []int {
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.id
	}
	return ids
}
