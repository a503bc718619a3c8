package planner

import (
	"sort"

	"github.com/pkg/errors"
)

// Default is the strategy used when none is named.
const Default = "optimized-v1"

var strategies = map[string]Planner{
	Basic{}.Name():        Basic{},
	OptimizedV1{}.Name():  OptimizedV1{},
	GreedyBySize{}.Name(): GreedyBySize{},
}

// Lookup returns the strategy registered under name. An empty name selects Default.
func Lookup(name string) (Planner, error) {
	if name == "" {
		name = Default
	}
	p, ok := strategies[name]
	if !ok {
		return nil, errors.Errorf("unknown planner %q (known: %v)", name, Names())
	}
	return p, nil
}

// Names lists the registered strategies in sorted order.
func Names() []string {
	out := make([]string, 0, len(strategies))
	for n := range strategies {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
