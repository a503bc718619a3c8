package tensorpool

import (
	"fmt"
	"strings"
)

// Lifespan is the scope over which a tensor's contents must stay valid.
// Classes are bit sets, so widening is a bitwise or and never narrows.
type Lifespan uint8

const (
	// Unmanaged tensors get their memory from the caller and are never planned.
	Unmanaged    Lifespan = 0
	ForwardFunc  Lifespan = 0b0001
	BackwardFunc Lifespan = 0b0010
	Iteration    Lifespan = ForwardFunc | BackwardFunc
	Epoch        Lifespan = 0b0111
	Max          Lifespan = 0b1111
)

var lifespanNames = []struct {
	l    Lifespan
	name string
}{
	{Unmanaged, "unmanaged"},
	{ForwardFunc, "forward"},
	{BackwardFunc, "backward"},
	{Iteration, "iteration"},
	{Epoch, "epoch"},
	{Max, "max"},
}

func (l Lifespan) String() string {
	for _, n := range lifespanNames {
		if n.l == l {
			return n.name
		}
	}
	return fmt.Sprintf("Lifespan(%#b)", uint8(l))
}

// ParseLifespan accepts the names returned by String, case-insensitively.
func ParseLifespan(s string) (Lifespan, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, n := range lifespanNames {
		if n.name == s {
			return n.l, nil
		}
	}
	return 0, fmt.Errorf("unknown lifespan %q", s)
}

// Widen returns the union of l and o.
func (l Lifespan) Widen(o Lifespan) Lifespan { return l | o }

// IsLongTerm reports whether tensors of this class stay live for the whole
// planning window regardless of which steps touch them.
func (l Lifespan) IsLongTerm() bool {
	return l == Epoch || l == Max
}

// validity computes the inclusive interval during which a tensor touched at
// order must stay valid inside the window [start, end]. ok is false when the
// tensor is not live anywhere in the window.
func validity(order []int, l Lifespan, start, end int) (from, to int, ok bool) {
	if len(order) == 0 {
		return 0, 0, false
	}
	from, to = order[0], order[0]
	for _, o := range order[1:] {
		if o < from {
			from = o
		}
		if o > to {
			to = o
		}
	}
	if l.IsLongTerm() {
		from, to = start, end
	}
	if to < start || from > end {
		return 0, 0, false
	}
	if from < start {
		from = start
	}
	if to > end {
		to = end
	}
	return from, to, true
}
