package tensorpool

import (
	"github.com/rs/zerolog"

	"tensorpool/internal/arena"
)

// sourceDetails is kept for tensors whose memory is planned (or bound) on
// their own.
type sourceDetails struct {
	token      arena.Token
	lifespan   Lifespan
	execOrder  []int
	dependents []int
	// bound is the caller's buffer for an unmanaged source, kept so the
	// tensor can be re-sliced when its batch changes.
	bound []byte
}

// dependentDetails is kept for views. parent always indexes a source, never
// another view, so view chains are flattened at request time.
type dependentDetails struct {
	parent int
	offset int
}

type spec struct {
	tensor *Tensor
	source *sourceDetails
	dep    *dependentDetails
}

// Pool owns every tensor requested for one graph.
type Pool struct {
	name  string
	specs []spec
	names map[string]int

	arena    *arena.Arena
	arenaCfg arena.Config

	finalized   bool
	allocated   bool
	plannerName string
	window      [2]int
	efficiency  float64

	log    zerolog.Logger
	events EventPublisher
}

// Name returns the pool's label.
func (p *Pool) Name() string { return p.name }

// Request registers a tensor whose memory is planned by the pool.
func (p *Pool) Request(name string, dim Dim, execOrder []int, lifespan Lifespan, init Initializer) (*Tensor, error) {
	if err := p.checkNew(name, dim); err != nil {
		return nil, err
	}
	if err := checkExecOrder(name, execOrder); err != nil {
		return nil, err
	}
	return p.register(spec{
		tensor: &Tensor{name: name, dim: dim, init: init},
		source: &sourceDetails{lifespan: lifespan, execOrder: append([]int(nil), execOrder...)},
	}), nil
}

// RequestExternal registers a tensor whose memory the caller supplies via Bind.
func (p *Pool) RequestExternal(name string, dim Dim, init Initializer) (*Tensor, error) {
	return p.Request(name, dim, nil, Unmanaged, init)
}

// Placeholder is RequestExternal without an initializer.
func (p *Pool) Placeholder(name string, dim Dim) (*Tensor, error) {
	return p.RequestExternal(name, dim, InitNone)
}

// RequestView registers name as a view of source at a byte offset. If source
// is itself a view, the new view refers to the underlying source directly
// with the offsets summed. The source's lifespan is widened by lifespan and
// execOrder is added to the steps that touch it.
func (p *Pool) RequestView(name, source string, dim Dim, offset int, execOrder []int, lifespan Lifespan, init Initializer) (*Tensor, error) {
	if err := p.checkNew(name, dim); err != nil {
		return nil, err
	}
	idx, ok := p.names[source]
	if !ok {
		return nil, newError(KindNotFound, source, "view source does not exist")
	}
	srcIdx, base := p.resolve(idx)
	src := p.specs[srcIdx]
	if !fits(src.tensor.Bytes(), base, offset, dim.Bytes()) {
		return nil, newError(KindOutOfBounds, name,
			"view of %d bytes at offset %d+%d exceeds %d bytes of %s", dim.Bytes(), base, offset, src.tensor.Bytes(), src.tensor.name)
	}
	adjusted := base + offset
	if init != InitNone && src.tensor.init != InitNone && src.tensor.init != init {
		return nil, newError(KindLifetimeMismatch, name,
			"initializer %s conflicts with %s of %s", init, src.tensor.init, src.tensor.name)
	}
	if err := checkWiden(src, lifespan); err != nil {
		return nil, err
	}
	if err := checkExecOrder(name, execOrder); err != nil {
		return nil, err
	}

	widen(src.source, execOrder, lifespan)
	src.source.dependents = append(src.source.dependents, len(p.specs))
	return p.register(spec{
		tensor: &Tensor{name: name, dim: dim, init: init},
		dep:    &dependentDetails{parent: srcIdx, offset: adjusted},
	}), nil
}

// Extend widens the lifespan and execution orders of name's source.
func (p *Pool) Extend(name string, execOrder []int, lifespan Lifespan) (*Tensor, error) {
	if p.allocated {
		return nil, newError(KindInvalidState, name, "cannot extend tensors while memory is allocated")
	}
	idx, ok := p.names[name]
	if !ok {
		return nil, newError(KindNotFound, name, "cannot extend a tensor which does not exist")
	}
	srcIdx, _ := p.resolve(idx)
	src := p.specs[srcIdx]
	if err := checkWiden(src, lifespan); err != nil {
		return nil, err
	}
	if err := checkExecOrder(name, execOrder); err != nil {
		return nil, err
	}
	widen(src.source, execOrder, lifespan)
	return p.specs[idx].tensor, nil
}

// Exists reports whether name has been requested.
func (p *Pool) Exists(name string) bool {
	_, ok := p.names[name]
	return ok
}

// Get returns the tensor registered as name.
func (p *Pool) Get(name string) (*Tensor, error) {
	idx, ok := p.names[name]
	if !ok {
		return nil, newError(KindNotFound, name, "tensor does not exist")
	}
	return p.specs[idx].tensor, nil
}

// Tensors returns every tensor in request order.
func (p *Pool) Tensors() []*Tensor {
	out := make([]*Tensor, len(p.specs))
	for i, s := range p.specs {
		out[i] = s.tensor
	}
	return out
}

// ExecutionOrder returns the steps accumulated on name's source.
func (p *Pool) ExecutionOrder(name string) ([]int, error) {
	idx, ok := p.names[name]
	if !ok {
		return nil, newError(KindNotFound, name, "tensor does not exist")
	}
	srcIdx, _ := p.resolve(idx)
	return append([]int(nil), p.specs[srcIdx].source.execOrder...), nil
}

// Lifespan returns the lifespan of name's source.
func (p *Pool) Lifespan(name string) (Lifespan, error) {
	idx, ok := p.names[name]
	if !ok {
		return 0, newError(KindNotFound, name, "tensor does not exist")
	}
	srcIdx, _ := p.resolve(idx)
	return p.specs[srcIdx].source.lifespan, nil
}

// ViewOf reports the source and flattened byte offset of a view. ok is false
// for tensors that are not views.
func (p *Pool) ViewOf(name string) (source string, offset int, ok bool) {
	idx, found := p.names[name]
	if !found || p.specs[idx].dep == nil {
		return "", 0, false
	}
	d := p.specs[idx].dep
	return p.specs[d.parent].tensor.name, d.offset, true
}

func (p *Pool) register(s spec) *Tensor {
	p.specs = append(p.specs, s)
	p.names[s.tensor.name] = len(p.specs) - 1
	return s.tensor
}

func (p *Pool) checkNew(name string, dim Dim) error {
	if p.allocated {
		return newError(KindInvalidState, name, "cannot request tensors while memory is allocated")
	}
	if name == "" {
		return newError(KindInvalidName, name, "cannot request tensor with empty name")
	}
	if _, ok := p.names[name]; ok {
		return newError(KindDuplicateName, name, "cannot request tensor with same name")
	}
	if dim.Bytes() <= 0 {
		return newError(KindInvalidSize, name, "cannot request tensor of shape %s: size is 0 or overflows", dim)
	}
	return nil
}

// resolve walks a view to its source and returns the source index with the
// offset of idx inside it.
func (p *Pool) resolve(idx int) (int, int) {
	if d := p.specs[idx].dep; d != nil {
		return d.parent, d.offset
	}
	return idx, 0
}

// fits reports whether n bytes at base+off lie inside a source of total
// bytes. It never overflows for non-negative base <= total.
func fits(total, base, off, n int) bool {
	if off < 0 || n <= 0 || base < 0 || base > total {
		return false
	}
	room := total - base
	return off <= room && n <= room-off
}

func checkExecOrder(name string, order []int) error {
	for _, o := range order {
		if o < 0 {
			return newError(KindInvalidExecOrder, name, "negative execution order %d", o)
		}
	}
	return nil
}

func checkWiden(src spec, l Lifespan) error {
	cur := src.source.lifespan
	if cur != Unmanaged && l == Unmanaged {
		return newError(KindLifetimeMismatch, src.tensor.name, "cannot extend %s lifespan to unmanaged", cur)
	}
	if cur == Unmanaged && l != Unmanaged {
		return newError(KindLifetimeMismatch, src.tensor.name, "cannot widen unmanaged tensor to %s", l)
	}
	return nil
}

func widen(s *sourceDetails, order []int, l Lifespan) {
	s.lifespan = s.lifespan.Widen(l)
	s.execOrder = append(s.execOrder, order...)
}
