package tensorpool

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Initializer decides what a source tensor holds right after Allocate.
type Initializer int

const (
	// InitNone leaves whatever bytes the arena holds.
	InitNone Initializer = iota
	InitZeros
	InitOnes
)

func (i Initializer) String() string {
	switch i {
	case InitNone:
		return "none"
	case InitZeros:
		return "zeros"
	case InitOnes:
		return "ones"
	}
	return fmt.Sprintf("Initializer(%d)", int(i))
}

// ParseInitializer accepts the names returned by String. Empty selects InitNone.
func ParseInitializer(s string) (Initializer, error) {
	switch s {
	case "", "none":
		return InitNone, nil
	case "zeros":
		return InitZeros, nil
	case "ones":
		return InitOnes, nil
	}
	return 0, fmt.Errorf("unknown initializer %q", s)
}

func (i Initializer) apply(b []byte, t DataType) {
	switch i {
	case InitZeros:
		clear(b)
	case InitOnes:
		var one []byte
		switch t {
		case Float32:
			one = binary.LittleEndian.AppendUint32(nil, math.Float32bits(1))
		case Float16:
			one = []byte{0x00, 0x3c}
		case Int32:
			one = binary.LittleEndian.AppendUint32(nil, 1)
		default:
			one = []byte{1}
		}
		for off := 0; off+len(one) <= len(b); off += len(one) {
			copy(b[off:], one)
		}
	}
}
