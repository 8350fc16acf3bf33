package graph

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/axon-ml/axon/internal/tensor"
)

// Feeds maps placeholder (or any) nodes to concrete arrays supplied at
// evaluation time. A fed node is not computed; its feed is used directly.
type Feeds map[*Node]*tensor.RawTensor

// Eval evaluates the requested nodes and returns their concrete arrays in
// request order.
//
// Evaluation is a pure function of the fed and stored leaf values: each op
// allocates a new owned output (or passes an input through as a view) and
// never writes outside it, so independent Eval calls are safe to run in
// parallel. Results are cached per call only; arrays are not retained by the
// graph.
func (g *Graph) Eval(feeds Feeds, nodes ...*Node) ([]*tensor.RawTensor, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	maxID := 0
	for _, n := range nodes {
		if n.graph != g {
			return nil, errors.Errorf("graph %s: cannot evaluate node %s from graph %s", g.id, n, n.graph.id)
		}
		if n.id > maxID {
			maxID = n.id
		}
	}

	needed := g.markNeeded(nodes, feeds)
	cache := make([]*tensor.RawTensor, maxID+1)

	klog.V(1).Infof("graph %s: evaluating %d node(s), %d in dependency closure", g.id, len(nodes), len(needed))

	// Arena ids are topologically ordered: inputs always precede consumers.
	for id := 0; id <= maxID; id++ {
		if !needed[id] {
			continue
		}
		node := g.nodes[id]

		if fed, ok := feeds[node]; ok {
			if node.shape != nil && !node.shape.Equal(fed.Shape()) {
				return nil, errors.Errorf("graph %s: feed for node %s has shape %v, declared %v",
					g.id, node, fed.Shape(), node.shape)
			}
			cache[id] = fed
			continue
		}

		ctx := &ComputeContext{
			node:    node,
			backend: g.backend,
			inputs:  make([]*tensor.RawTensor, len(node.inputs)),
		}
		for i, in := range node.inputs {
			ctx.inputs[i] = cache[in.id]
		}

		if err := node.op.Compute(ctx); err != nil {
			return nil, errors.Wrapf(err, "graph %s: evaluating node %s", g.id, node)
		}
		if len(ctx.outputs) != 1 {
			return nil, errors.Errorf("graph %s: node %s produced %d outputs, want 1", g.id, node, len(ctx.outputs))
		}
		cache[id] = ctx.outputs[0]
	}

	results := make([]*tensor.RawTensor, len(nodes))
	for i, n := range nodes {
		results[i] = cache[n.id]
	}
	return results, nil
}

// markNeeded walks input edges from the requested nodes and returns the set
// of node ids in their dependency closure. Fed nodes terminate the walk: their
// subgraphs are never computed.
func (g *Graph) markNeeded(nodes []*Node, feeds Feeds) map[int]bool {
	needed := make(map[int]bool)
	stack := make([]*Node, 0, len(nodes))
	stack = append(stack, nodes...)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if needed[n.id] {
			continue
		}
		needed[n.id] = true
		if _, fed := feeds[n]; fed {
			continue
		}
		stack = append(stack, n.inputs...)
	}
	return needed
}
