// Package planner computes byte offsets for buffers whose validity intervals
// are known ahead of time. Requests whose intervals overlap never share bytes;
// requests with disjoint intervals may.
package planner

import (
	"sort"

	"github.com/pkg/errors"
)

// Request is one buffer to place. Start is inclusive and End is exclusive.
type Request struct {
	Size  int
	Start int
	End   int
}

// Overlaps reports whether the two validity intervals intersect.
func (r Request) Overlaps(o Request) bool {
	return r.Start < o.End && o.Start < r.End
}

// Layout is the result of planning: one offset per request, in request order,
// and the total arena size needed to hold them.
type Layout struct {
	Offsets []int
	Size    int
}

// Planner is a memory planning strategy.
type Planner interface {
	Name() string
	Plan(reqs []Request) (Layout, error)
}

// Efficiency is the theoretical minimum arena size (PeakUsage) divided by the
// planned size. A layout that wastes nothing scores 1.0.
func Efficiency(reqs []Request, l Layout) float64 {
	if l.Size == 0 {
		return 0
	}
	return float64(PeakUsage(reqs)) / float64(l.Size)
}

// PeakUsage is the largest sum of sizes live at any single point in time,
// the lower bound for any layout.
func PeakUsage(reqs []Request) int {
	type edge struct{ at, delta int }
	edges := make([]edge, 0, 2*len(reqs))
	for _, r := range reqs {
		edges = append(edges, edge{r.Start, r.Size}, edge{r.End, -r.Size})
	}
	// releases sort before acquisitions at the same time point
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at != edges[j].at {
			return edges[i].at < edges[j].at
		}
		return edges[i].delta < edges[j].delta
	})
	cur, peak := 0, 0
	for _, e := range edges {
		cur += e.delta
		if cur > peak {
			peak = cur
		}
	}
	return peak
}

// Validate checks a layout against the planning contract.
func Validate(reqs []Request, l Layout) error {
	if len(l.Offsets) != len(reqs) {
		return errors.Errorf("layout has %d offsets for %d requests", len(l.Offsets), len(reqs))
	}
	for i, r := range reqs {
		off := l.Offsets[i]
		if off < 0 || off+r.Size > l.Size {
			return errors.Errorf("request %d [%d,%d) does not fit arena of %d bytes", i, off, off+r.Size, l.Size)
		}
	}
	for i := range reqs {
		for j := i + 1; j < len(reqs); j++ {
			if !reqs[i].Overlaps(reqs[j]) {
				continue
			}
			a0, a1 := l.Offsets[i], l.Offsets[i]+reqs[i].Size
			b0, b1 := l.Offsets[j], l.Offsets[j]+reqs[j].Size
			if a0 < b1 && b0 < a1 {
				return errors.Errorf("requests %d and %d are live together but share bytes [%d,%d) and [%d,%d)", i, j, a0, a1, b0, b1)
			}
		}
	}
	return nil
}

func checkRequests(reqs []Request) error {
	for i, r := range reqs {
		if r.Size <= 0 {
			return errors.Errorf("request %d has invalid size %d", i, r.Size)
		}
		if r.Start < 0 || r.End <= r.Start {
			return errors.Errorf("request %d has invalid interval [%d,%d)", i, r.Start, r.End)
		}
	}
	return nil
}
