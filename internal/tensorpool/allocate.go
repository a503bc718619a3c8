package tensorpool

// Allocate obtains the arena block sized by the last Finalize and points every
// planned source tensor, and each of its views, into it. Either every planned
// tensor receives memory or none does.
func (p *Pool) Allocate() error {
	err := p.allocate()
	poolAllocationsTotal.WithLabelValues(p.name, resultLabel(err)).Inc()
	if err != nil {
		p.log.Debug().Err(err).Msg("allocate failed")
	}
	return err
}

func (p *Pool) allocate() error {
	if p.allocated {
		return newError(KindInvalidState, "", "memory is already allocated")
	}
	if err := p.arena.Allocate(); err != nil {
		return wrapError(KindAllocationFailure, "", err)
	}

	var bound []int
	rollback := func() {
		for _, i := range bound {
			p.specs[i].tensor.setData(nil)
			_ = p.syncDependents(i)
		}
		p.arena.Deallocate()
	}
	for i, s := range p.specs {
		if s.source == nil || s.source.token == 0 {
			continue
		}
		mem, err := p.arena.Memory(s.source.token)
		if err != nil {
			rollback()
			return wrapError(KindPlannerFailure, s.tensor.name, err)
		}
		if len(mem) < s.tensor.Bytes() {
			rollback()
			return newError(KindPlannerFailure, s.tensor.name,
				"planned %d bytes but tensor needs %d", len(mem), s.tensor.Bytes())
		}
		s.tensor.setData(mem)
		s.tensor.init.apply(s.tensor.data, s.tensor.dim.Type)
		bound = append(bound, i)
		if err := p.syncDependents(i); err != nil {
			rollback()
			return err
		}
	}
	p.allocated = true

	p.log.Debug().Int("arena_bytes", p.arena.Size()).Int("tensors", len(bound)).Msg("memory allocated")
	p.events.Publish(Event{Name: EventAllocate, Fields: map[string]any{
		"arena_bytes": p.arena.Size(),
		"tensors":     len(bound),
	}})
	return nil
}

// Deallocate releases the arena block and clears the memory of every tensor,
// including externally bound ones. Plans are kept, so Allocate can follow
// directly and reproduces the same layout.
func (p *Pool) Deallocate() {
	p.arena.Deallocate()
	for _, s := range p.specs {
		s.tensor.setData(nil)
		if s.source != nil {
			s.source.bound = nil
		}
	}
	wasAllocated := p.allocated
	p.allocated = false
	if wasAllocated {
		p.log.Debug().Msg("memory deallocated")
		p.events.Publish(Event{Name: EventDeallocate})
	}
}

// Allocated reports whether the arena block is held.
func (p *Pool) Allocated() bool { return p.allocated }

// Bind attaches caller-owned memory to an unmanaged tensor (or the unmanaged
// source of a view) and to every view of it. A buffer larger than the tensor
// is accepted; a nil buffer unbinds.
func (p *Pool) Bind(name string, buf []byte) error {
	idx, ok := p.names[name]
	if !ok {
		return newError(KindNotFound, name, "tensor does not exist")
	}
	srcIdx, _ := p.resolve(idx)
	src := p.specs[srcIdx]
	if src.source.lifespan != Unmanaged {
		return newError(KindLifetimeMismatch, name, "cannot bind external memory to %s tensor %s", src.source.lifespan, src.tensor.name)
	}
	if buf != nil && len(buf) < src.tensor.Bytes() {
		return newError(KindSizeMismatch, name,
			"external buffer of %d bytes is smaller than %d bytes of %s", len(buf), src.tensor.Bytes(), src.tensor.name)
	}
	src.source.bound = buf
	src.tensor.setData(buf)
	if err := p.syncDependents(srcIdx); err != nil {
		src.source.bound = nil
		src.tensor.setData(nil)
		_ = p.syncDependents(srcIdx)
		return err
	}
	p.events.Publish(Event{Name: EventBind, Tensor: src.tensor.name, Fields: map[string]any{"bytes": len(buf)}})
	return nil
}

// SetBatch rewrites the batch axis of name. The current plan is dropped, so
// Finalize must run again before Allocate. The change is refused, leaving the
// shape untouched, when a view would no longer fit its source or a bound
// external buffer would be too small.
func (p *Pool) SetBatch(name string, batch int) error {
	idx, ok := p.names[name]
	if !ok {
		return newError(KindNotFound, name, "requested tensor not found")
	}
	if p.allocated {
		return newError(KindInvalidState, name, "cannot change batch while memory is allocated")
	}
	if batch <= 0 {
		return newError(KindInvalidSize, name, "invalid batch size %d", batch)
	}
	s := p.specs[idx]
	next := s.tensor.dim
	next.Batch = batch
	n := next.Bytes()
	if n <= 0 {
		return newError(KindInvalidSize, name, "batch %d makes shape %s overflow", batch, next)
	}
	if err := p.checkResize(idx, n); err != nil {
		return err
	}

	s.tensor.dim = next
	p.resetPlan()

	srcIdx, _ := p.resolve(idx)
	src := p.specs[srcIdx]
	if src.source.bound != nil {
		src.tensor.setData(src.source.bound)
		return p.syncDependents(srcIdx)
	}
	return nil
}

// checkResize verifies that tensor idx can take n bytes without breaking any
// view relationship or external binding.
func (p *Pool) checkResize(idx, n int) error {
	s := p.specs[idx]
	if d := s.dep; d != nil {
		src := p.specs[d.parent]
		if !fits(src.tensor.Bytes(), d.offset, 0, n) {
			return newError(KindOutOfBounds, s.tensor.name,
				"view of %d bytes at offset %d would exceed %d bytes of %s", n, d.offset, src.tensor.Bytes(), src.tensor.name)
		}
		return nil
	}
	for _, di := range s.source.dependents {
		dep := p.specs[di]
		if !fits(n, dep.dep.offset, 0, dep.tensor.Bytes()) {
			return newError(KindOutOfBounds, s.tensor.name,
				"view %s of %d bytes at offset %d would exceed %d bytes", dep.tensor.name, dep.tensor.Bytes(), dep.dep.offset, n)
		}
	}
	if b := s.source.bound; b != nil && len(b) < n {
		return newError(KindSizeMismatch, s.tensor.name,
			"bound buffer of %d bytes is smaller than %d bytes", len(b), n)
	}
	return nil
}

func (p *Pool) resetPlan() {
	p.arena.Clear()
	for _, s := range p.specs {
		if s.source != nil {
			s.source.token = 0
		}
	}
	p.finalized = false
	p.efficiency = 0
}

// syncDependents points every view of the source at idx into its memory.
// Views are always direct dependents of a source, so no recursion is needed.
// A view that does not fit leaves every view of the source unset.
func (p *Pool) syncDependents(idx int) error {
	src := p.specs[idx]
	base := src.tensor.data
	for _, d := range src.source.dependents {
		dep := p.specs[d]
		if base == nil {
			dep.tensor.setData(nil)
			continue
		}
		if !fits(len(base), dep.dep.offset, 0, dep.tensor.Bytes()) {
			for _, u := range src.source.dependents {
				p.specs[u].tensor.setData(nil)
			}
			return newError(KindOutOfBounds, dep.tensor.name,
				"view of %d bytes at offset %d does not fit %d bytes of %s", dep.tensor.Bytes(), dep.dep.offset, len(base), src.tensor.name)
		}
		dep.tensor.setData(base[dep.dep.offset:])
	}
	return nil
}
