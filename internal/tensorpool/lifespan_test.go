package tensorpool

import (
	"math"
	"testing"
)

func TestValidity(t *testing.T) {
	cases := []struct {
		name       string
		order      []int
		l          Lifespan
		start, end int
		from, to   int
		ok         bool
	}{
		{"plain", []int{3, 1, 2}, Iteration, 0, 9, 1, 3, true},
		{"clipped", []int{0, 8}, ForwardFunc, 2, 5, 2, 5, true},
		{"before window", []int{0, 1}, ForwardFunc, 2, 4, 0, 0, false},
		{"after window", []int{7}, ForwardFunc, 2, 4, 0, 0, false},
		{"epoch spans window", []int{3}, Epoch, 1, 6, 1, 6, true},
		{"max spans window", []int{0}, Max, 4, 5, 4, 5, true},
		{"empty", nil, Max, 0, 5, 0, 0, false},
	}
	for _, c := range cases {
		from, to, ok := validity(c.order, c.l, c.start, c.end)
		if ok != c.ok || (ok && (from != c.from || to != c.to)) {
			t.Fatalf("%s: got [%d,%d] %v want [%d,%d] %v", c.name, from, to, ok, c.from, c.to, c.ok)
		}
	}
}

func TestLifespanParseAndWiden(t *testing.T) {
	for _, s := range []string{"unmanaged", "forward", "backward", "iteration", "epoch", "max"} {
		l, err := ParseLifespan(s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		if l.String() != s {
			t.Fatalf("round trip %s -> %s", s, l)
		}
	}
	if _, err := ParseLifespan("forever"); err == nil {
		t.Fatalf("expected error")
	}
	if ForwardFunc.Widen(BackwardFunc) != Iteration || Iteration.Widen(Epoch) != Epoch || Epoch.Widen(ForwardFunc) != Epoch {
		t.Fatalf("widening is not a union")
	}
	if !Epoch.IsLongTerm() || !Max.IsLongTerm() || Iteration.IsLongTerm() {
		t.Fatalf("long term classification wrong")
	}
}

func TestDimBytes(t *testing.T) {
	if b := NewDim(2, 3, 4, 5).Bytes(); b != 2*3*4*5*4 {
		t.Fatalf("bytes=%d", b)
	}
	if b := ByteDim(100).Bytes(); b != 100 {
		t.Fatalf("bytes=%d", b)
	}
	if b := (Dim{Batch: 1, Channel: 0, Height: 1, Width: 1}).Bytes(); b != 0 {
		t.Fatalf("bytes=%d", b)
	}
	huge := Dim{Batch: 1, Channel: 1, Height: 2, Width: math.MaxInt/2 + 1, Type: Uint8}
	if huge.Len() != 0 || huge.Bytes() != 0 {
		t.Fatalf("overflowing shape: len=%d bytes=%d", huge.Len(), huge.Bytes())
	}
	if b := NewDim(1, 1, 1, math.MaxInt/4+1).Bytes(); b != 0 {
		t.Fatalf("overflowing element size: bytes=%d", b)
	}
	if d := NewDim(4, 1, 2, 3); d.FeatureLen() != 6 {
		t.Fatalf("feature len=%d", d.FeatureLen())
	}
	dt, err := ParseDataType("float16")
	if err != nil || dt.Size() != 2 {
		t.Fatalf("float16 -> %v %v", dt, err)
	}
}
