package tensor

import "fmt"

// Zeros creates an owned array filled with zeros.
//
// Example:
//
//	t := tensor.Zeros[float32](tensor.Shape{3, 4})
func Zeros[T DType](shape Shape) *RawTensor {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype)
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return raw
}

// Ones creates an owned array filled with ones.
func Ones[T DType](shape Shape) *RawTensor {
	return Full[T](shape, 1)
}

// Full creates an owned array filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](tensor.Shape{3, 3}, 3.14)
func Full[T DType](shape Shape, value T) *RawTensor {
	t := Zeros[T](shape)
	switch any(value).(type) {
	case float32:
		data := t.AsFloat32()
		for i := range data {
			data[i] = float32(value)
		}
	case float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = float64(value)
		}
	}
	return t
}

// FullLike creates an owned array shaped and typed like t, filled with value.
func FullLike(t *RawTensor, value float64) *RawTensor {
	out, err := NewRaw(t.Shape(), t.DType())
	if err != nil {
		panic(err) // t's shape is already validated
	}
	switch out.DType() {
	case Float32:
		data := out.AsFloat32()
		v := float32(value)
		for i := range data {
			data[i] = v
		}
	case Float64:
		data := out.AsFloat64()
		for i := range data {
			data[i] = value
		}
	}
	return out
}

// Scalar creates an owned scalar array (empty shape) holding a single value.
func Scalar[T DType](value T) *RawTensor {
	return Full[T](Shape{}, value)
}

// FromSlice creates an owned array from a flat slice in row-major order.
// The slice length must match the shape's element count.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	var dummy T
	dtype := inferDataType(dummy)

	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}

	raw, err := NewRaw(shape, dtype)
	if err != nil {
		return nil, err
	}

	switch any(dummy).(type) {
	case float32:
		copy(raw.AsFloat32(), any(data).([]float32))
	case float64:
		copy(raw.AsFloat64(), any(data).([]float64))
	}
	return raw, nil
}
