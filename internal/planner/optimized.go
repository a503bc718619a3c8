package planner

import "sort"

// OptimizedV1 walks requests in order of their start, recycling memory of
// requests that have already expired. A freed block that is larger than
// needed is reused in part; when no freed block fits, the arena grows.
type OptimizedV1 struct{}

func (OptimizedV1) Name() string { return "optimized-v1" }

type block struct {
	offset int
	size   int
	end    int // exclusive end of the interval currently occupying the block
}

func (OptimizedV1) Plan(reqs []Request) (Layout, error) {
	if err := checkRequests(reqs); err != nil {
		return Layout{}, err
	}
	order := make([]int, len(reqs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := reqs[order[a]], reqs[order[b]]
		if ra.Start != rb.Start {
			return ra.Start < rb.Start
		}
		if ra.End != rb.End {
			return ra.End > rb.End
		}
		return ra.Size > rb.Size
	})

	l := Layout{Offsets: make([]int, len(reqs))}
	var blocks []block
	for _, idx := range order {
		r := reqs[idx]
		best := -1
		for i, b := range blocks {
			if b.end > r.Start || b.size < r.Size {
				continue
			}
			if best < 0 || b.size < blocks[best].size {
				best = i
			}
		}
		if best < 0 {
			// extend the top-most expired block instead of leaving a hole
			top := -1
			for i, b := range blocks {
				if b.offset+b.size == l.Size && b.end <= r.Start {
					top = i
				}
			}
			if top >= 0 {
				l.Size += r.Size - blocks[top].size
				blocks[top].size = r.Size
				best = top
			} else {
				blocks = append(blocks, block{offset: l.Size, size: r.Size})
				l.Size += r.Size
				best = len(blocks) - 1
			}
		}
		b := blocks[best]
		l.Offsets[idx] = b.offset
		if b.size > r.Size {
			// keep the unused tail available as its own free block
			blocks = append(blocks, block{offset: b.offset + r.Size, size: b.size - r.Size, end: b.end})
		}
		blocks[best] = block{offset: b.offset, size: r.Size, end: r.End}
	}
	return l, nil
}
