package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-ml/axon/internal/graph"
	"github.com/axon-ml/axon/internal/tensor"
)

func TestGrad_AddBroadcast(t *testing.T) {
	g := graph.NewGraph()
	x0 := g.Const(tensor.Ones[float64](tensor.Shape{2, 3}))
	x1 := g.Const(tensor.Ones[float64](tensor.Shape{3}))
	y, err := g.Add(x0, x1)
	require.NoError(t, err)

	out := evalOne(t, g, y)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float64{2, 2, 2, 2, 2, 2}, out.AsFloat64())

	grads, err := graph.Grad(y, []*graph.Node{x0, x1})
	require.NoError(t, err)
	results, err := g.Eval(nil, grads...)
	require.NoError(t, err)

	gx0, gx1 := results[0], results[1]
	assert.Equal(t, tensor.Shape{2, 3}, gx0.Shape())
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, gx0.AsFloat64())
	assert.Equal(t, tensor.Shape{3}, gx1.Shape())
	assert.Equal(t, []float64{2, 2, 2}, gx1.AsFloat64())
}

func TestGrad_SubBroadcast(t *testing.T) {
	g := graph.NewGraph()
	x0 := g.Const(tensor.Ones[float64](tensor.Shape{2, 3}))
	x1 := g.Const(tensor.Ones[float64](tensor.Shape{3}))
	y, err := g.Sub(x0, x1)
	require.NoError(t, err)

	grads, err := graph.Grad(y, []*graph.Node{x0, x1})
	require.NoError(t, err)
	results, err := g.Eval(nil, grads...)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1}, results[0].AsFloat64())
	assert.Equal(t, []float64{-2, -2, -2}, results[1].AsFloat64())
}

func TestGrad_MulSameShape(t *testing.T) {
	g := graph.NewGraph()
	a, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{5, 6, 7, 8}, tensor.Shape{2, 2})
	require.NoError(t, err)

	x0, x1 := g.Const(a), g.Const(b)
	y, err := g.Mul(x0, x1)
	require.NoError(t, err)

	grads, err := graph.Grad(y, []*graph.Node{x0, x1})
	require.NoError(t, err)
	results, err := g.Eval(nil, grads...)
	require.NoError(t, err)

	// d(x0*x1)/dx0 = x1, d(x0*x1)/dx1 = x0, elementwise.
	assert.Equal(t, b.AsFloat64(), results[0].AsFloat64())
	assert.Equal(t, a.AsFloat64(), results[1].AsFloat64())
}

func TestGrad_Accumulation(t *testing.T) {
	g := graph.NewGraph()
	x := g.Const(tensor.Ones[float64](tensor.Shape{3}))
	y, err := g.Add(x, x)
	require.NoError(t, err)

	// The same node consumed twice receives the sum of both adjoints.
	grads, err := graph.Grad(y, []*graph.Node{x})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2}, evalOne(t, g, grads[0]).AsFloat64())
}

func TestGrad_NonAncestor(t *testing.T) {
	g := graph.NewGraph()
	z := g.Const(tensor.Ones[float64](tensor.Shape{2}))
	x0 := g.Const(tensor.Ones[float64](tensor.Shape{2}))
	x1 := g.Const(tensor.Ones[float64](tensor.Shape{2}))
	y, err := g.Add(x0, x1)
	require.NoError(t, err)

	grads, err := graph.Grad(y, []*graph.Node{x0, z})
	require.NoError(t, err)
	assert.NotNil(t, grads[0])
	assert.Nil(t, grads[1])
}

func TestGrad_SymbolicOnly(t *testing.T) {
	g := graph.NewGraph()
	x0 := g.Placeholder(tensor.Shape{2})
	x1 := g.Placeholder(tensor.Shape{2})
	y, err := g.Mul(x0, x1)
	require.NoError(t, err)

	// Gradient construction is pure graph building; no feeds are needed
	// until the gradient nodes are themselves evaluated.
	before := g.NumNodes()
	grads, err := graph.Grad(y, []*graph.Node{x0, x1})
	require.NoError(t, err)
	assert.Greater(t, g.NumNodes(), before)
	require.NotNil(t, grads[0])
	require.NotNil(t, grads[1])

	_, err = g.Eval(nil, y)
	assert.Error(t, err) // placeholders unfed
}

func TestGradWithInitial(t *testing.T) {
	g := graph.NewGraph()
	x0 := g.Const(tensor.Ones[float64](tensor.Shape{2, 3}))
	x1 := g.Const(tensor.Ones[float64](tensor.Shape{3}))
	y, err := g.Add(x0, x1)
	require.NoError(t, err)

	gy := g.Const(tensor.Full(tensor.Shape{2, 3}, 3.0))
	grads, err := graph.GradWithInitial(y, gy, []*graph.Node{x0, x1})
	require.NoError(t, err)
	results, err := g.Eval(nil, grads...)
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 3, 3, 3, 3, 3}, results[0].AsFloat64())
	assert.Equal(t, []float64{6, 6, 6}, results[1].AsFloat64())
}

func TestGradWithInitial_CrossGraph(t *testing.T) {
	g := graph.NewGraph()
	other := graph.NewGraph()
	x := g.Const(tensor.Ones[float64](tensor.Shape{2}))
	y, err := g.Add(x, x)
	require.NoError(t, err)

	gy := other.Const(tensor.Ones[float64](tensor.Shape{2}))
	_, err = graph.GradWithInitial(y, gy, []*graph.Node{x})
	assert.Error(t, err)
}

// numericGrad approximates d(sum f)/d(feed[n][i]) by central differences.
func numericGrad(t *testing.T, g *graph.Graph, y *graph.Node, feeds graph.Feeds, n *graph.Node, i int) float64 {
	t.Helper()
	const h = 1e-6

	eval := func(delta float64) float64 {
		perturbed := make(graph.Feeds, len(feeds))
		for k, v := range feeds {
			if k == n {
				data := append([]float64(nil), v.AsFloat64()...)
				data[i] += delta
				pv, err := tensor.FromSlice(data, v.Shape())
				require.NoError(t, err)
				v = pv
			}
			perturbed[k] = v
		}
		results, err := g.Eval(perturbed, y)
		require.NoError(t, err)
		sum := 0.0
		for _, v := range results[0].AsFloat64() {
			sum += v
		}
		return sum
	}
	return (eval(h) - eval(-h)) / (2 * h)
}

func TestGrad_DivScalarFiniteDifference(t *testing.T) {
	g := graph.NewGraph()
	x0 := g.Placeholder(tensor.Shape{})
	x1 := g.Placeholder(tensor.Shape{})
	y, err := g.Div(x0, x1)
	require.NoError(t, err)

	grads, err := graph.Grad(y, []*graph.Node{x0, x1})
	require.NoError(t, err)

	feeds := graph.Feeds{
		x0: tensor.Scalar[float64](3),
		x1: tensor.Scalar[float64](2),
	}
	results, err := g.Eval(feeds, grads...)
	require.NoError(t, err)

	// d(x0/x1)/dx0 = 1/x1, d(x0/x1)/dx1 = -x0/x1^2.
	assert.InDelta(t, 0.5, results[0].AsFloat64()[0], 1e-12)
	assert.InDelta(t, -0.75, results[1].AsFloat64()[0], 1e-12)

	assert.InDelta(t, numericGrad(t, g, y, feeds, x0, 0), results[0].AsFloat64()[0], 1e-5)
	assert.InDelta(t, numericGrad(t, g, y, feeds, x1, 0), results[1].AsFloat64()[0], 1e-5)
}

func TestGrad_DivElementwiseFiniteDifference(t *testing.T) {
	g := graph.NewGraph()
	x0 := g.Placeholder(tensor.Shape{2, 2})
	x1 := g.Placeholder(tensor.Shape{2, 2})
	y, err := g.Div(x0, x1)
	require.NoError(t, err)

	grads, err := graph.Grad(y, []*graph.Node{x0, x1})
	require.NoError(t, err)

	a, err := tensor.FromSlice([]float64{1, -2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{2, 0.5, -1, 3}, tensor.Shape{2, 2})
	require.NoError(t, err)
	feeds := graph.Feeds{x0: a, x1: b}

	results, err := g.Eval(feeds, grads...)
	require.NoError(t, err)
	gx0, gx1 := results[0], results[1]
	assert.Equal(t, tensor.Shape{2, 2}, gx0.Shape())
	assert.Equal(t, tensor.Shape{2, 2}, gx1.Shape())

	for i := 0; i < 4; i++ {
		assert.InDelta(t, numericGrad(t, g, y, feeds, x0, i), gx0.AsFloat64()[i], 1e-4, "gx0[%d]", i)
		assert.InDelta(t, numericGrad(t, g, y, feeds, x1, i), gx1.AsFloat64()[i], 1e-4, "gx1[%d]", i)
	}
}

func TestGrad_SecondOrderDiv(t *testing.T) {
	g := graph.NewGraph()
	x0 := g.Placeholder(tensor.Shape{})
	x1 := g.Placeholder(tensor.Shape{})
	y, err := g.Div(x0, x1)
	require.NoError(t, err)

	grads, err := graph.Grad(y, []*graph.Node{x1})
	require.NoError(t, err)
	grads2, err := graph.Grad(grads[0], []*graph.Node{x1})
	require.NoError(t, err)
	require.NotNil(t, grads2[0])

	feeds := graph.Feeds{
		x0: tensor.Scalar[float64](3),
		x1: tensor.Scalar[float64](2),
	}
	results, err := g.Eval(feeds, grads2[0])
	require.NoError(t, err)

	// d^2(x0/x1)/dx1^2 = 2*x0/x1^3.
	assert.InDelta(t, 0.75, results[0].AsFloat64()[0], 1e-12)
}

func TestEval_Pure(t *testing.T) {
	g := graph.NewGraph()
	raw := tensor.Ones[float64](tensor.Shape{3})
	x0 := g.Const(raw)
	x1 := g.Const(tensor.Full(tensor.Shape{3}, 2.0))
	y, err := g.Add(x0, x1)
	require.NoError(t, err)

	first := evalOne(t, g, y)
	second := evalOne(t, g, y)

	// Each evaluation allocates a fresh owned result and leaves leaves intact.
	assert.False(t, first.SharesBufferWith(second))
	assert.Equal(t, []float64{1, 1, 1}, raw.AsFloat64())
	assert.Equal(t, first.AsFloat64(), second.AsFloat64())
}
