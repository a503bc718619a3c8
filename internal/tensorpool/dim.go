package tensorpool

import (
	"fmt"
	"math"
)

// DataType is the element type of a tensor.
type DataType int

const (
	Float32 DataType = iota
	Float16
	Int32
	Uint8
)

var dataTypeNames = map[DataType]string{
	Float32: "float32",
	Float16: "float16",
	Int32:   "int32",
	Uint8:   "uint8",
}

func (t DataType) String() string {
	if s, ok := dataTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// Size is the number of bytes per element.
func (t DataType) Size() int {
	switch t {
	case Float16:
		return 2
	case Uint8:
		return 1
	default:
		return 4
	}
}

// ParseDataType accepts the names returned by String. Empty selects Float32.
func ParseDataType(s string) (DataType, error) {
	if s == "" {
		return Float32, nil
	}
	for t, n := range dataTypeNames {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// Dim is a 4D shape: batch, channel, height, width.
type Dim struct {
	Batch   int
	Channel int
	Height  int
	Width   int
	Type    DataType
}

// NewDim returns a float32 shape.
func NewDim(batch, channel, height, width int) Dim {
	return Dim{Batch: batch, Channel: channel, Height: height, Width: width}
}

// ByteDim is a flat uint8 shape of n bytes.
func ByteDim(n int) Dim {
	return Dim{Batch: 1, Channel: 1, Height: 1, Width: n, Type: Uint8}
}

// Len is the number of elements. Any non-positive axis, or a product that
// overflows int, makes it 0.
func (d Dim) Len() int {
	if d.Batch <= 0 || d.Channel <= 0 || d.Height <= 0 || d.Width <= 0 {
		return 0
	}
	n := 1
	for _, a := range [...]int{d.Batch, d.Channel, d.Height, d.Width} {
		if n > math.MaxInt/a {
			return 0
		}
		n *= a
	}
	return n
}

// FeatureLen is the number of elements per batch entry.
func (d Dim) FeatureLen() int {
	if d.Batch <= 0 {
		return 0
	}
	return d.Len() / d.Batch
}

// Bytes is the storage size of the shape, 0 when it does not fit in an int.
func (d Dim) Bytes() int {
	n, sz := d.Len(), d.Type.Size()
	if n > math.MaxInt/sz {
		return 0
	}
	return n * sz
}

func (d Dim) String() string {
	return fmt.Sprintf("%d:%d:%d:%d(%s)", d.Batch, d.Channel, d.Height, d.Width, d.Type)
}
