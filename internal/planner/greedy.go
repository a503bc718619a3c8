package planner

import "sort"

// GreedyBySize places the largest requests first, each at the lowest offset
// that does not collide with an already placed request it is live alongside.
type GreedyBySize struct{}

func (GreedyBySize) Name() string { return "greedy-by-size" }

func (GreedyBySize) Plan(reqs []Request) (Layout, error) {
	if err := checkRequests(reqs); err != nil {
		return Layout{}, err
	}
	order := make([]int, len(reqs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := reqs[order[a]], reqs[order[b]]
		if ra.Size != rb.Size {
			return ra.Size > rb.Size
		}
		return ra.Start < rb.Start
	})

	type span struct{ lo, hi int }
	l := Layout{Offsets: make([]int, len(reqs))}
	placed := make([]int, 0, len(reqs))
	for _, idx := range order {
		r := reqs[idx]
		var busy []span
		for _, p := range placed {
			if reqs[p].Overlaps(r) {
				busy = append(busy, span{l.Offsets[p], l.Offsets[p] + reqs[p].Size})
			}
		}
		sort.Slice(busy, func(a, b int) bool { return busy[a].lo < busy[b].lo })
		off := 0
		for _, s := range busy {
			if off+r.Size <= s.lo {
				break
			}
			if s.hi > off {
				off = s.hi
			}
		}
		l.Offsets[idx] = off
		if off+r.Size > l.Size {
			l.Size = off + r.Size
		}
		placed = append(placed, idx)
	}
	return l, nil
}
