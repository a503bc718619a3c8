// Package arena owns the single contiguous block that backs every planned
// tensor. Callers register (size, interval) requests, let a planner.Planner
// place them, and then look up each request's bytes by token once the block
// has been allocated.
package arena

import (
	"errors"
	"fmt"

	"tensorpool/internal/planner"
)

// Token identifies a request made to an Arena. Zero is never a valid token.
type Token int

// AllocFunc obtains the raw block. It must return a slice of exactly size bytes.
type AllocFunc func(size int) ([]byte, error)

// Config tunes an Arena. Zero values select the defaults.
type Config struct {
	// MaxBytes caps the block size; 0 means unlimited.
	MaxBytes int
	// Alloc replaces the default allocator (make).
	Alloc AllocFunc
}

var (
	// ErrTooLarge is returned by Allocate when the planned size exceeds Config.MaxBytes.
	ErrTooLarge = errors.New("arena: planned size exceeds limit")
	// ErrNotPlanned is returned when Allocate runs before PlanLayout.
	ErrNotPlanned = errors.New("arena: layout not planned")
	// ErrAlreadyAllocated is returned by Allocate on an allocated arena.
	ErrAlreadyAllocated = errors.New("arena: already allocated")
	// ErrNotAllocated is returned by Memory before Allocate.
	ErrNotAllocated = errors.New("arena: not allocated")
	// ErrInvalidToken is returned for tokens this arena did not hand out.
	ErrInvalidToken = errors.New("arena: invalid token")
)

// Arena is not safe for concurrent mutation.
type Arena struct {
	cfg      Config
	requests []planner.Request
	layout   *planner.Layout
	block    []byte
	eff      float64
}

// New returns an empty arena.
func New(cfg Config) *Arena {
	if cfg.Alloc == nil {
		cfg.Alloc = func(size int) ([]byte, error) { return make([]byte, size), nil }
	}
	return &Arena{cfg: cfg}
}

// RequestMemory registers a buffer of bytes live over [start, end).
func (a *Arena) RequestMemory(bytes, start, end int) (Token, error) {
	if a.layout != nil {
		return 0, fmt.Errorf("arena: cannot request memory after layout is planned")
	}
	if bytes <= 0 {
		return 0, fmt.Errorf("arena: invalid request size %d", bytes)
	}
	if start < 0 || end <= start {
		return 0, fmt.Errorf("arena: invalid interval [%d,%d)", start, end)
	}
	a.requests = append(a.requests, planner.Request{Size: bytes, Start: start, End: end})
	return Token(len(a.requests)), nil
}

// PlanLayout runs p over every request and validates the result. It returns
// the layout efficiency.
func (a *Arena) PlanLayout(p planner.Planner) (float64, error) {
	if a.block != nil {
		return 0, ErrAlreadyAllocated
	}
	l, err := p.Plan(a.requests)
	if err != nil {
		return 0, fmt.Errorf("arena: planner %s: %w", p.Name(), err)
	}
	if err := planner.Validate(a.requests, l); err != nil {
		return 0, fmt.Errorf("arena: planner %s produced invalid layout: %w", p.Name(), err)
	}
	a.layout = &l
	a.eff = planner.Efficiency(a.requests, l)
	return a.eff, nil
}

// Allocate obtains the block. On failure no block is held.
func (a *Arena) Allocate() error {
	if a.block != nil {
		return ErrAlreadyAllocated
	}
	if a.layout == nil {
		if len(a.requests) > 0 {
			return ErrNotPlanned
		}
		a.layout = &planner.Layout{}
	}
	size := a.layout.Size
	if a.cfg.MaxBytes > 0 && size > a.cfg.MaxBytes {
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, size, a.cfg.MaxBytes)
	}
	b, err := a.cfg.Alloc(size)
	if err != nil {
		return fmt.Errorf("arena: allocating %d bytes: %w", size, err)
	}
	if len(b) < size {
		return fmt.Errorf("arena: allocator returned %d bytes, want %d", len(b), size)
	}
	if b == nil {
		b = []byte{}
	}
	a.block = b[:size:size]
	return nil
}

// Memory returns the bytes backing t. The slice is valid until Deallocate.
func (a *Arena) Memory(t Token) ([]byte, error) {
	if a.block == nil {
		return nil, ErrNotAllocated
	}
	off, err := a.Offset(t)
	if err != nil {
		return nil, err
	}
	end := off + a.requests[t-1].Size
	return a.block[off:end:end], nil
}

// Offset returns the planned byte offset of t.
func (a *Arena) Offset(t Token) (int, error) {
	if t <= 0 || int(t) > len(a.requests) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidToken, t)
	}
	if a.layout == nil {
		return 0, ErrNotPlanned
	}
	return a.layout.Offsets[t-1], nil
}

// Deallocate drops the block. The plan is kept so Allocate can be called again.
func (a *Arena) Deallocate() {
	a.block = nil
}

// Clear drops the block, the plan and every request.
func (a *Arena) Clear() {
	a.block = nil
	a.layout = nil
	a.requests = nil
	a.eff = 0
}

// Allocated reports whether the block is held.
func (a *Arena) Allocated() bool { return a.block != nil }

// Size is the planned block size, 0 before planning.
func (a *Arena) Size() int {
	if a.layout == nil {
		return 0
	}
	return a.layout.Size
}

// RequestedBytes is the sum of all requested sizes.
func (a *Arena) RequestedBytes() int {
	n := 0
	for _, r := range a.requests {
		n += r.Size
	}
	return n
}

// MinimumBytes is the theoretical lower bound for the block size.
func (a *Arena) MinimumBytes() int { return planner.PeakUsage(a.requests) }

// Efficiency of the last planned layout.
func (a *Arena) Efficiency() float64 { return a.eff }

// Requests returns the number of registered requests.
func (a *Arena) Requests() int { return len(a.requests) }
