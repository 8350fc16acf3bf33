package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-ml/axon/internal/tensor"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 1, tensor.Shape{}.NumElements(), "scalar has one element")
	assert.Equal(t, 12, tensor.Shape{3, 4}.NumElements())
	assert.Equal(t, 24, tensor.Shape{2, 3, 4}.NumElements())
}

func TestShape_IsScalar(t *testing.T) {
	assert.True(t, tensor.Shape{}.IsScalar())
	assert.False(t, tensor.Shape{1}.IsScalar(), "shape [1] is a rank-1 array, not the canonical scalar")
}

func TestShape_Validate(t *testing.T) {
	assert.NoError(t, tensor.Shape{}.Validate())
	assert.NoError(t, tensor.Shape{2, 3}.Validate())
	assert.Error(t, tensor.Shape{0}.Validate(), "zero-sized dimensions are invalid")
	assert.Error(t, tensor.Shape{2, -1}.Validate())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, tensor.Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, tensor.Shape{5}.ComputeStrides())
	assert.Empty(t, tensor.Shape{}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      tensor.Shape
		want      tensor.Shape
		broadcast bool
	}{
		{"equal", tensor.Shape{3, 5}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, false},
		{"stretch left", tensor.Shape{3, 1}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, true},
		{"stretch right", tensor.Shape{1, 5}, tensor.Shape{3, 5}, tensor.Shape{3, 5}, true},
		{"missing leading dims", tensor.Shape{3}, tensor.Shape{2, 3}, tensor.Shape{2, 3}, true},
		{"scalar left", tensor.Shape{}, tensor.Shape{2, 3}, tensor.Shape{2, 3}, true},
		{"scalar right", tensor.Shape{4, 2}, tensor.Shape{}, tensor.Shape{4, 2}, true},
		{"both scalar", tensor.Shape{}, tensor.Shape{}, tensor.Shape{}, false},
		{"mixed stretch", tensor.Shape{2, 1, 4}, tensor.Shape{3, 1}, tensor.Shape{2, 3, 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := tensor.BroadcastShapes(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.broadcast, broadcast)
		})
	}
}

func TestBroadcastShapes_Incompatible(t *testing.T) {
	_, _, err := tensor.BroadcastShapes(tensor.Shape{3, 4}, tensor.Shape{3, 5})
	require.Error(t, err)

	var shapeErr *tensor.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, tensor.Shape{3, 4}, shapeErr.Left)
	assert.Equal(t, tensor.Shape{3, 5}, shapeErr.Right)
	assert.ErrorIs(t, err, tensor.ErrShapeIncompatible)
}
