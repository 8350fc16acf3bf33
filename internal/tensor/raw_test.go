package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axon-ml/axon/internal/tensor"
)

func TestNewRaw(t *testing.T) {
	r, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 3}, r.Shape())
	assert.Equal(t, 6, r.NumElements())
	assert.Equal(t, 24, r.ByteSize())
	assert.False(t, r.IsView())
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, r.AsFloat32(), "memory is zero-initialized")
}

func TestNewRaw_InvalidShape(t *testing.T) {
	_, err := tensor.NewRaw(tensor.Shape{2, 0}, tensor.Float32)
	assert.Error(t, err)
}

func TestRawTensor_View(t *testing.T) {
	r := tensor.Ones[float64](tensor.Shape{4})
	v := r.View()

	assert.True(t, v.IsView())
	assert.False(t, r.IsView())
	assert.True(t, v.SharesBufferWith(r), "view borrows the owner's buffer")
	assert.Equal(t, r.Shape(), v.Shape())
	assert.False(t, r.IsUnique(), "view holds a reference")
}

func TestRawTensor_Materialize(t *testing.T) {
	r := tensor.Full[float64](tensor.Shape{3}, 7)
	v := r.View()

	owned := v.Materialize()
	assert.False(t, owned.IsView())
	assert.False(t, owned.SharesBufferWith(r), "materialized copy owns fresh storage")
	assert.Equal(t, []float64{7, 7, 7}, owned.AsFloat64())

	// Already-owned arrays materialize to themselves.
	assert.Same(t, r, r.Materialize())
}

func TestRawTensor_Scalar(t *testing.T) {
	s := tensor.Scalar[float32](2.5)
	assert.Equal(t, tensor.Shape{}, s.Shape())
	assert.Equal(t, 1, s.NumElements())
	assert.Equal(t, float32(2.5), s.AsFloat32()[0])
}

func TestFromSlice(t *testing.T) {
	r, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, r.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, r.AsFloat64())
}

func TestFromSlice_LengthMismatch(t *testing.T) {
	_, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 3})
	assert.Error(t, err)
}

func TestFullLike(t *testing.T) {
	r := tensor.Zeros[float32](tensor.Shape{2, 2})
	ones := tensor.FullLike(r, 1)
	assert.Equal(t, r.Shape(), ones.Shape())
	assert.Equal(t, r.DType(), ones.DType())
	assert.Equal(t, []float32{1, 1, 1, 1}, ones.AsFloat32())
}
