package graph

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Grad builds symbolic gradient nodes of y with respect to each node in xs,
// seeded with an all-ones gradient shaped like y (dy/dy = 1).
//
// No numeric work happens here: the result nodes, and every intermediate the
// chain rule needs, are new graph nodes evaluated later. Entries for inputs
// outside y's ancestry are nil.
func Grad(y *Node, xs []*Node) ([]*Node, error) {
	return GradWithInitial(y, y.graph.OnesLike(y), xs)
}

// GradWithInitial is Grad with an explicit output gradient node gy in place
// of the default all-ones seed. gy must be shaped like y.
func GradWithInitial(y, gy *Node, xs []*Node) ([]*Node, error) {
	g := y.graph
	if gy.graph != g {
		return nil, errors.Errorf("graph %s: output gradient %s belongs to graph %s", g.id, gy, gy.graph.id)
	}
	for _, x := range xs {
		if x.graph != g {
			return nil, errors.Errorf("graph %s: gradient target %s belongs to graph %s", g.id, x, x.graph.id)
		}
	}

	// included: nodes y depends on. useful: nodes through which some x is
	// reachable, i.e. nodes whose adjoint can still matter. Gradients are
	// propagated only where both hold.
	included := g.ancestry(y)
	useful := g.usefulSet(xs, y.id)

	klog.V(1).Infof("graph %s: building gradients of %s w.r.t. %d node(s)", g.id, y, len(xs))

	adjoints := make([]*Node, y.id+1)
	adjoints[y.id] = gy

	for id := y.id; id >= 0; id-- {
		og := adjoints[id]
		if og == nil || !included[id] || !useful[id] {
			continue
		}
		node := g.nodes[id]
		if len(node.inputs) == 0 {
			continue
		}

		ctx := &GradContext{node: node, outputGrad: og}
		if err := node.op.Grad(ctx); err != nil {
			return nil, errors.Wrapf(err, "graph %s: differentiating node %s", g.id, node)
		}
		if !ctx.set {
			return nil, errors.Errorf("graph %s: op %s did not set input gradients", g.id, node.op.Name())
		}

		for i, gi := range ctx.inputGrads {
			if gi == nil {
				continue // non-differentiable input
			}
			in := node.inputs[i]
			if !useful[in.id] {
				continue
			}
			if adjoints[in.id] == nil {
				adjoints[in.id] = gi
				continue
			}
			// Same node consumed more than once: accumulate adjoints.
			sum, err := g.Add(adjoints[in.id], gi)
			if err != nil {
				return nil, errors.Wrapf(err, "graph %s: accumulating gradient for node %s", g.id, in)
			}
			adjoints[in.id] = sum
		}
	}

	out := make([]*Node, len(xs))
	for i, x := range xs {
		if x.id <= y.id && included[x.id] {
			out[i] = adjoints[x.id]
		}
	}
	return out, nil
}

// ancestry returns the set of node ids y transitively depends on, including y.
func (g *Graph) ancestry(y *Node) []bool {
	included := make([]bool, y.id+1)
	stack := []*Node{y}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if included[n.id] {
			continue
		}
		included[n.id] = true
		stack = append(stack, n.inputs...)
	}
	return included
}

// usefulSet marks nodes that depend on at least one gradient target; arena
// order makes a single forward sweep sufficient.
func (g *Graph) usefulSet(xs []*Node, maxID int) []bool {
	useful := make([]bool, maxID+1)
	for _, x := range xs {
		if x.id <= maxID {
			useful[x.id] = true
		}
	}
	for id := 0; id <= maxID; id++ {
		if useful[id] {
			continue
		}
		for _, in := range g.nodes[id].inputs {
			if useful[in.id] {
				useful[id] = true
				break
			}
		}
	}
	return useful
}
