package tensorpool

// Stats summarises the pool for reports.
type Stats struct {
	Sources        int
	Views          int
	Planned        int
	RequestedBytes int
	MinimumBytes   int
	ArenaBytes     int
	Efficiency     float64
	Planner        string
	WindowStart    int
	WindowEnd      int
	Finalized      bool
	Allocated      bool
}

func (p *Pool) Stats() Stats {
	st := Stats{
		RequestedBytes: p.arena.RequestedBytes(),
		MinimumBytes:   p.arena.MinimumBytes(),
		ArenaBytes:     p.arena.Size(),
		Efficiency:     p.efficiency,
		Planner:        p.plannerName,
		WindowStart:    p.window[0],
		WindowEnd:      p.window[1],
		Finalized:      p.finalized,
		Allocated:      p.allocated,
	}
	for _, s := range p.specs {
		if s.dep != nil {
			st.Views++
			continue
		}
		st.Sources++
		if s.source.token != 0 {
			st.Planned++
		}
	}
	return st
}
