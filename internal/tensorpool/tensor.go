package tensorpool

import (
	"fmt"
	"unsafe"
)

// Tensor is a handle to a logical buffer registered with a Pool. Its data is
// only reachable between Allocate (or Bind) and the next Deallocate; before
// and after that Data fails instead of exposing stale memory.
type Tensor struct {
	name string
	dim  Dim
	init Initializer
	data []byte
}

func (t *Tensor) Name() string             { return t.name }
func (t *Tensor) Dim() Dim                 { return t.dim }
func (t *Tensor) Bytes() int               { return t.dim.Bytes() }
func (t *Tensor) Initializer() Initializer { return t.init }

// Allocated reports whether the tensor currently has memory.
func (t *Tensor) Allocated() bool { return t.data != nil }

// Address is the start of the tensor's memory, 0 while unallocated.
func (t *Tensor) Address() uintptr {
	if t.data == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(t.data)))
}

// Data returns the tensor's bytes. The slice must not be retained past Deallocate.
func (t *Tensor) Data() ([]byte, error) {
	if t.data == nil {
		return nil, newError(KindNotAllocated, t.name, "tensor has no memory")
	}
	return t.data, nil
}

// Float32s returns the tensor's memory as float32 elements.
func (t *Tensor) Float32s() ([]float32, error) {
	b, err := t.Data()
	if err != nil {
		return nil, err
	}
	if t.dim.Type != Float32 {
		return nil, fmt.Errorf("tensor %s holds %s, not float32", t.name, t.dim.Type)
	}
	p := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(p)%unsafe.Alignof(float32(0)) != 0 {
		return nil, fmt.Errorf("tensor %s is not aligned for float32 access", t.name)
	}
	return unsafe.Slice((*float32)(p), len(b)/4), nil
}

func (t *Tensor) String() string {
	return fmt.Sprintf("%s[%s]", t.name, t.dim)
}

func (t *Tensor) setData(b []byte) {
	if b == nil {
		t.data = nil
		return
	}
	n := t.dim.Bytes()
	t.data = b[:n:n]
}
