package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// arrayBuffer is a reference-counted shared buffer.
// Views borrow it read-only; owned arrays hold the only mutable reference.
type arrayBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newArrayBuffer creates a new reference-counted buffer with refCount = 1.
func newArrayBuffer(size int) *arrayBuffer {
	buf := &arrayBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for View/Clone operations).
func (ab *arrayBuffer) addRef() {
	ab.refCount.Add(1)
}

// release decrements the reference count and deallocates if it reaches 0.
func (ab *arrayBuffer) release() {
	if ab.refCount.Add(-1) == 0 {
		ab.mu.Lock()
		defer ab.mu.Unlock()
		ab.data = nil
	}
}

// isUnique returns true if this buffer has only one reference.
func (ab *arrayBuffer) isUnique() bool {
	return ab.refCount.Load() == 1
}

// RawTensor is the low-level dense array representation.
//
// A RawTensor is either owned (exclusively holds its buffer, freely mutable,
// may be returned as an operation result) or a view (borrows another array's
// buffer read-only; must not outlive it). Elementwise operations only ever
// produce new owned arrays and never mutate their operands.
type RawTensor struct {
	buffer *arrayBuffer // Shared reference-counted buffer
	shape  Shape        // Array dimensions
	stride []int        // Memory strides (row-major)
	dtype  DataType     // Runtime type information
	view   bool         // Borrowed, read-only
}

// NewRaw creates a new owned RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	numElements := shape.NumElements()
	byteSize := numElements * dtype.Size()

	return &RawTensor{
		buffer: newArrayBuffer(byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
	}, nil
}

// Shape returns the array's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the array's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the array's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// IsView reports whether this array borrows another array's buffer.
func (r *RawTensor) IsView() bool {
	return r.view
}

// AsFloat32 interprets the data as []float32.
// Panics if the array's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("array dtype is %s, not float32", r.dtype))
	}
	data := r.buffer.data
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the array's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("array dtype is %s, not float64", r.dtype))
	}
	data := r.buffer.data
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// View returns a read-only borrow of this array sharing the same buffer.
// The view must not outlive the buffer; the reference count keeps the
// buffer alive while the view is held.
func (r *RawTensor) View() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		view:   true,
	}
}

// Materialize returns an owned array with its own copy of the data.
// If the array is already owned it is returned unchanged.
func (r *RawTensor) Materialize() *RawTensor {
	if !r.view {
		return r
	}
	out := &RawTensor{
		buffer: newArrayBuffer(r.ByteSize()),
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
	}
	copy(out.buffer.data, r.buffer.data)
	return out
}

// Clone creates a shallow copy sharing the buffer with reference counting.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		view:   r.view,
	}
}

// SharesBufferWith reports whether two arrays are backed by the same buffer.
func (r *RawTensor) SharesBufferWith(o *RawTensor) bool {
	return r.buffer == o.buffer
}

// Release decrements the reference count and deallocates if it reaches 0.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique returns true if this array is the only reference to the buffer.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}
