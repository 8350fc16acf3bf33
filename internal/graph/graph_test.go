package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-ml/axon/internal/graph"
	"github.com/axon-ml/axon/internal/tensor"
)

func TestNodeBuilder(t *testing.T) {
	g := graph.NewGraph()
	assert.NotEmpty(t, g.ID())
	assert.Equal(t, 0, g.NumNodes())

	a := g.Const(tensor.Ones[float64](tensor.Shape{2}))
	b := g.Const(tensor.Ones[float64](tensor.Shape{2}))
	assert.Equal(t, 0, a.ID())
	assert.Equal(t, 1, b.ID())
	assert.Equal(t, "#0(const)", a.String())

	y, err := g.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, y.ID())
	assert.Equal(t, []*graph.Node{a, b}, y.Inputs())
	assert.Same(t, g, y.Graph())
	assert.Equal(t, 3, g.NumNodes())
}

func TestNodeBuilder_CrossGraphPanics(t *testing.T) {
	g := graph.NewGraph()
	other := graph.NewGraph()
	x := other.Const(tensor.Ones[float64](tensor.Shape{2}))

	assert.Panics(t, func() {
		graph.NewNodeBuilder().WithInputs(x).Build(g, &graph.NegOp{})
	})
}

func TestShapeInference(t *testing.T) {
	g := graph.NewGraph()
	a := g.Const(tensor.Ones[float64](tensor.Shape{2, 3}))
	b := g.Const(tensor.Ones[float64](tensor.Shape{3}))

	y, err := g.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, y.Shape())

	// A nil operand shape leaves the output shape unknown.
	p := g.Placeholder(nil)
	assert.Nil(t, p.Shape())
	z, err := g.Mul(a, p)
	require.NoError(t, err)
	assert.Nil(t, z.Shape())

	// A scalar placeholder declares the empty shape, which is not unknown.
	s := g.Placeholder(tensor.Shape{})
	assert.NotNil(t, s.Shape())
	assert.True(t, s.Shape().IsScalar())
}

func TestShapeInference_Incompatible(t *testing.T) {
	g := graph.NewGraph()
	a := g.Const(tensor.Ones[float64](tensor.Shape{3, 4}))
	b := g.Const(tensor.Ones[float64](tensor.Shape{3, 5}))

	// Declared shapes are checked at build time, before any data exists.
	_, err := g.Sub(a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, tensor.ErrShapeIncompatible)

	var se *tensor.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Axis)
}

func TestEval_ConstIsView(t *testing.T) {
	g := graph.NewGraph()
	raw := tensor.Ones[float64](tensor.Shape{2})
	c := g.Const(raw)

	out := evalOne(t, g, c)
	assert.True(t, out.SharesBufferWith(raw))
	assert.Equal(t, raw.AsFloat64(), out.AsFloat64())
}

func TestEval_Feeds(t *testing.T) {
	g := graph.NewGraph()
	p := g.Placeholder(tensor.Shape{2})
	c := g.Const(tensor.Full(tensor.Shape{2}, 10.0))
	y, err := g.Add(p, c)
	require.NoError(t, err)

	fed, err := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2})
	require.NoError(t, err)
	results, err := g.Eval(graph.Feeds{p: fed}, y)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 12}, results[0].AsFloat64())

	// Different feeds, same graph.
	fed2, err := tensor.FromSlice([]float64{5, 5}, tensor.Shape{2})
	require.NoError(t, err)
	results, err = g.Eval(graph.Feeds{p: fed2}, y)
	require.NoError(t, err)
	assert.Equal(t, []float64{15, 15}, results[0].AsFloat64())
}

func TestEval_FeedShapeMismatch(t *testing.T) {
	g := graph.NewGraph()
	p := g.Placeholder(tensor.Shape{2})

	_, err := g.Eval(graph.Feeds{p: tensor.Ones[float64](tensor.Shape{3})}, p)
	assert.Error(t, err)
}

func TestEval_UnfedPlaceholder(t *testing.T) {
	g := graph.NewGraph()
	p := g.Placeholder(tensor.Shape{2})

	_, err := g.Eval(nil, p)
	assert.Error(t, err)
}

func TestEval_FeedOverridesCompute(t *testing.T) {
	g := graph.NewGraph()
	a := g.Const(tensor.Ones[float64](tensor.Shape{2}))
	b := g.Const(tensor.Ones[float64](tensor.Shape{2}))
	y, err := g.Add(a, b)
	require.NoError(t, err)
	z, err := g.Mul(y, y)
	require.NoError(t, err)

	// Feeding an interior node short-circuits its subgraph.
	fed, err := tensor.FromSlice([]float64{3, 4}, tensor.Shape{2})
	require.NoError(t, err)
	results, err := g.Eval(graph.Feeds{y: fed}, z)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 16}, results[0].AsFloat64())
}

func TestEval_FeedShortCircuitsSubgraph(t *testing.T) {
	g := graph.NewGraph()
	p := g.Placeholder(tensor.Shape{2})
	c := g.Const(tensor.Ones[float64](tensor.Shape{2}))
	y, err := g.Add(p, c)
	require.NoError(t, err)
	z, err := g.Mul(y, y)
	require.NoError(t, err)

	// Feeding y must skip its whole subgraph: the placeholder beneath it is
	// never computed, so leaving it unfed is fine.
	fed, err := tensor.FromSlice([]float64{3, 4}, tensor.Shape{2})
	require.NoError(t, err)
	results, err := g.Eval(graph.Feeds{y: fed}, z)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 16}, results[0].AsFloat64())
}

func TestEval_CrossGraph(t *testing.T) {
	g := graph.NewGraph()
	other := graph.NewGraph()
	x := other.Const(tensor.Ones[float64](tensor.Shape{2}))

	_, err := g.Eval(nil, x)
	assert.Error(t, err)
}

func TestEval_MultipleOutputs(t *testing.T) {
	g := graph.NewGraph()
	a := g.Const(tensor.Full(tensor.Shape{2}, 3.0))
	b := g.Const(tensor.Full(tensor.Shape{2}, 2.0))
	sum, err := g.Add(a, b)
	require.NoError(t, err)
	prod, err := g.Mul(a, b)
	require.NoError(t, err)

	results, err := g.Eval(nil, sum, prod, sum)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []float64{5, 5}, results[0].AsFloat64())
	assert.Equal(t, []float64{6, 6}, results[1].AsFloat64())
	assert.Equal(t, []float64{5, 5}, results[2].AsFloat64())
}

func TestVariable(t *testing.T) {
	g := graph.NewGraph()
	v := g.Variable(tensor.Full(tensor.Shape{2}, 1.0))
	c := g.Const(tensor.Full(tensor.Shape{2}, 10.0))
	y, err := g.Mul(v, c)
	require.NoError(t, err)

	assert.Equal(t, []float64{10, 10}, evalOne(t, g, y).AsFloat64())

	require.NoError(t, v.SetVariableValue(tensor.Full(tensor.Shape{2}, 3.0)))
	assert.Equal(t, []float64{30, 30}, evalOne(t, g, y).AsFloat64())

	// Shape and kind are enforced.
	assert.Error(t, v.SetVariableValue(tensor.Ones[float64](tensor.Shape{3})))
	assert.Error(t, c.SetVariableValue(tensor.Ones[float64](tensor.Shape{2})))
}

func TestShapeOf(t *testing.T) {
	g := graph.NewGraph()
	x := g.Const(tensor.Ones[float64](tensor.Shape{2, 3}))
	desc := evalOne(t, g, g.ShapeOf(x))
	assert.Equal(t, tensor.Shape{2}, desc.Shape())
	assert.Equal(t, []float64{2, 3}, desc.AsFloat64())

	s := g.Const(tensor.Scalar[float64](7))
	scalarDesc := evalOne(t, g, g.ShapeOf(s))
	assert.True(t, scalarDesc.Shape().IsScalar())
}
