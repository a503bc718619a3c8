package planner

// Basic lays requests out back to back with no reuse at all.
type Basic struct{}

func (Basic) Name() string { return "basic" }

func (Basic) Plan(reqs []Request) (Layout, error) {
	if err := checkRequests(reqs); err != nil {
		return Layout{}, err
	}
	l := Layout{Offsets: make([]int, len(reqs))}
	for i, r := range reqs {
		l.Offsets[i] = l.Size
		l.Size += r.Size
	}
	return l, nil
}
