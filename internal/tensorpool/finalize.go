package tensorpool

import (
	"tensorpool/internal/arena"
	"tensorpool/internal/planner"
)

// Finalize plans memory for every managed source tensor live inside the
// window [start, end] of execution orders and returns the layout efficiency.
// Tensors outside the window get no memory this round. Finalize may be called
// again, with any window, as long as memory is not allocated; every call
// starts from a clean plan.
func (p *Pool) Finalize(pl planner.Planner, start, end int) (float64, error) {
	eff, err := p.finalize(pl, start, end)
	poolFinalizeTotal.WithLabelValues(p.name, resultLabel(err)).Inc()
	if err != nil {
		p.log.Debug().Err(err).Int("start", start).Int("end", end).Msg("finalize failed")
		return 0, err
	}
	return eff, nil
}

func (p *Pool) finalize(pl planner.Planner, start, end int) (float64, error) {
	if p.allocated {
		return 0, newError(KindInvalidState, "", "cannot finalize while memory is allocated")
	}
	if start < 0 || start > end {
		return 0, newError(KindInvalidWindow, "", "invalid window [%d,%d]", start, end)
	}
	if pl == nil {
		return 0, newError(KindPlannerFailure, "", "no planner")
	}

	a := arena.New(p.arenaCfg)
	tokens := make(map[int]arena.Token)
	requested := 0
	for i, s := range p.specs {
		src := s.source
		if src == nil || src.lifespan == Unmanaged || len(src.execOrder) == 0 {
			continue
		}
		from, to, ok := validity(src.execOrder, src.lifespan, start, end)
		if !ok {
			continue
		}
		// +1 makes the end exclusive so a tensor ending at step k never
		// conflicts with one starting at k+1.
		tok, err := a.RequestMemory(s.tensor.Bytes(), from, to+1)
		if err != nil {
			return 0, wrapError(KindPlannerFailure, s.tensor.name, err)
		}
		if tok == 0 {
			return 0, newError(KindPlannerFailure, s.tensor.name, "received invalid token")
		}
		tokens[i] = tok
		requested += s.tensor.Bytes()
	}

	eff := 0.0
	if requested > 0 {
		var err error
		eff, err = a.PlanLayout(pl)
		if err != nil {
			return 0, wrapError(KindPlannerFailure, "", err)
		}
	}

	for i, s := range p.specs {
		if s.source != nil {
			s.source.token = tokens[i]
		}
	}
	p.arena = a
	p.finalized = true
	p.plannerName = pl.Name()
	p.window = [2]int{start, end}
	p.efficiency = eff

	poolEfficiency.WithLabelValues(p.name, pl.Name()).Set(eff)
	poolArenaBytes.WithLabelValues(p.name).Set(float64(a.Size()))
	poolRequestedBytes.WithLabelValues(p.name).Set(float64(requested))
	p.log.Debug().
		Str("planner", pl.Name()).
		Int("start", start).
		Int("end", end).
		Int("tensors", len(tokens)).
		Int("requested_bytes", requested).
		Int("arena_bytes", a.Size()).
		Float64("efficiency", eff).
		Msg("memory layout planned")
	p.events.Publish(Event{Name: EventFinalize, Fields: map[string]any{
		"planner":         pl.Name(),
		"start":           start,
		"end":             end,
		"tensors":         len(tokens),
		"requested_bytes": requested,
		"arena_bytes":     a.Size(),
		"efficiency":      eff,
	}})
	return eff, nil
}

// Efficiency returns the efficiency of the last successful Finalize.
func (p *Pool) Efficiency() float64 { return p.efficiency }

// Token returns the arena token planned for name's source, 0 if none.
func (p *Pool) Token(name string) (arena.Token, error) {
	idx, ok := p.names[name]
	if !ok {
		return 0, newError(KindNotFound, name, "tensor does not exist")
	}
	srcIdx, _ := p.resolve(idx)
	return p.specs[srcIdx].source.token, nil
}

// Offset returns the byte offset of name inside the arena. ok is false when
// the tensor has no planned memory.
func (p *Pool) Offset(name string) (offset int, ok bool) {
	idx, found := p.names[name]
	if !found {
		return 0, false
	}
	srcIdx, rel := p.resolve(idx)
	tok := p.specs[srcIdx].source.token
	if tok == 0 {
		return 0, false
	}
	base, err := p.arena.Offset(tok)
	if err != nil {
		return 0, false
	}
	return base + rel, true
}
