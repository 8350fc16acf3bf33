// Package graph implements the define-by-run symbolic computation graph and
// its reverse-mode automatic differentiation.
//
// A Graph is an append-only arena of nodes addressed by stable integer ids.
// Nodes are immutable handles to future computations: building the graph does
// no numeric work. Eval runs the forward pass; Grad builds new symbolic nodes
// for the backward pass, including the broadcast-aware gradient reduction
// needed when binary operands had different shapes.
package graph

import (
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/axon-ml/axon/internal/backend/cpu"
)

// Graph is an arena of symbolic nodes forming a DAG.
//
// Construction is append-only and never mutates existing nodes, so building
// against different graphs is safe concurrently; construction against the
// same graph must be serialized by the caller.
type Graph struct {
	id      string
	nodes   []*Node
	backend *cpu.CPUBackend
}

// NewGraph creates an empty graph backed by the CPU kernels.
func NewGraph() *Graph {
	g := &Graph{
		id:      uuid.NewString(),
		backend: cpu.New(),
	}
	klog.V(2).Infof("graph %s: created", g.id)
	return g
}

// ID returns the graph's unique identity, used in diagnostics.
func (g *Graph) ID() string {
	return g.id
}

// NumNodes returns the number of nodes built so far.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// Backend returns the numeric kernel backend evaluating this graph.
func (g *Graph) Backend() *cpu.CPUBackend {
	return g.backend
}

// addNode appends a node to the arena and assigns its id.
func (g *Graph) addNode(n *Node) {
	n.id = len(g.nodes)
	g.nodes = append(g.nodes, n)
}
