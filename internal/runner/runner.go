// Package runner plans graph manifests end to end: it builds a tensor pool,
// requests every tensor, finalizes, allocates, reports where each tensor
// landed and releases the memory again.
package runner

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tensorpool/internal/arena"
	"tensorpool/internal/manifest"
	"tensorpool/internal/planner"
	"tensorpool/internal/tensorpool"
	"tensorpool/pkg/types"
)

// DefaultMaxArenaBytes caps arenas when Config.MaxArenaBytes is 0.
const DefaultMaxArenaBytes = 1 << 30

// Config tunes a Runner.
type Config struct {
	// DefaultPlanner is used when a manifest names none.
	DefaultPlanner string
	// MaxArenaBytes caps each pool's arena. 0 selects DefaultMaxArenaBytes
	// and a negative value removes the cap.
	MaxArenaBytes int
	// Alloc replaces the arena allocator.
	Alloc arena.AllocFunc
	// Logger receives debug output; nil disables logging.
	Logger *zerolog.Logger
}

// Runner is safe for concurrent use; every call plans on its own pool.
type Runner struct {
	cfg Config
	log zerolog.Logger
}

// New validates cfg and returns a Runner.
func New(cfg Config) (*Runner, error) {
	if cfg.DefaultPlanner == "" {
		cfg.DefaultPlanner = planner.Default
	}
	if _, err := planner.Lookup(cfg.DefaultPlanner); err != nil {
		return nil, err
	}
	switch {
	case cfg.MaxArenaBytes == 0:
		cfg.MaxArenaBytes = DefaultMaxArenaBytes
	case cfg.MaxArenaBytes < 0:
		cfg.MaxArenaBytes = 0
	}
	r := &Runner{cfg: cfg, log: zerolog.Nop()}
	if cfg.Logger != nil {
		r.log = *cfg.Logger
	}
	return r, nil
}

// Ready reports whether the runner can serve requests.
func (r *Runner) Ready() bool { return r != nil }

// MaxArenaBytes is the arena cap in effect, 0 when there is none.
func (r *Runner) MaxArenaBytes() int { return r.cfg.MaxArenaBytes }

// Planners lists the available strategies.
func (r *Runner) Planners() types.PlannersResponse {
	return types.PlannersResponse{Planners: planner.Names(), Default: r.cfg.DefaultPlanner}
}

// Plan plans m with the strategy it names, or the default.
func (r *Runner) Plan(ctx context.Context, m types.Manifest) (types.PlanReport, error) {
	name := m.Planner
	if name == "" {
		name = r.cfg.DefaultPlanner
	}
	return r.planWith(ctx, m, name)
}

// Compare plans m once per strategy, concurrently, and returns the reports in
// the order of planner.Names.
func (r *Runner) Compare(ctx context.Context, m types.Manifest) (types.CompareReport, error) {
	names := planner.Names()
	reports := make([]types.PlanReport, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			rep, err := r.planWith(gctx, m, name)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.CompareReport{}, err
	}
	return types.CompareReport{Reports: reports}, nil
}

func (r *Runner) planWith(ctx context.Context, m types.Manifest, name string) (types.PlanReport, error) {
	if err := ctx.Err(); err != nil {
		return types.PlanReport{}, err
	}
	pl, err := planner.Lookup(name)
	if err != nil {
		return types.PlanReport{}, &Error{Code: http.StatusBadRequest, Err: err}
	}
	pool := tensorpool.NewWithConfig(tensorpool.PoolConfig{
		Name:          "runner",
		MaxArenaBytes: r.cfg.MaxArenaBytes,
		Alloc:         r.cfg.Alloc,
		Logger:        &r.log,
	})
	if err := manifest.Apply(pool, m); err != nil {
		return types.PlanReport{}, classify(err)
	}
	if _, err := pool.Finalize(pl, m.Window.Start, m.Window.End); err != nil {
		return types.PlanReport{}, classify(err)
	}
	if err := pool.Allocate(); err != nil {
		return types.PlanReport{}, classify(err)
	}
	defer pool.Deallocate()

	rep := report(pool, pl.Name())
	r.log.Info().
		Str("planner", rep.Planner).
		Int("tensors", len(rep.Tensors)).
		Int("arena_bytes", rep.ArenaBytes).
		Float64("efficiency", rep.Efficiency).
		Msg("manifest planned")
	return rep, nil
}

func report(p *tensorpool.Pool, plannerName string) types.PlanReport {
	st := p.Stats()
	rep := types.PlanReport{
		Planner:        plannerName,
		Window:         types.Window{Start: st.WindowStart, End: st.WindowEnd},
		ArenaBytes:     st.ArenaBytes,
		RequestedBytes: st.RequestedBytes,
		MinimumBytes:   st.MinimumBytes,
		Efficiency:     st.Efficiency,
		Planned:        st.Planned,
	}
	for _, t := range p.Tensors() {
		tp := types.TensorPlacement{Name: t.Name(), Bytes: t.Bytes(), Offset: -1}
		if off, ok := p.Offset(t.Name()); ok {
			tp.Offset = off
		}
		if l, err := p.Lifespan(t.Name()); err == nil {
			tp.Lifespan = l.String()
		}
		if src, _, ok := p.ViewOf(t.Name()); ok {
			tp.ViewOf = src
		}
		tp.ExecOrder, _ = p.ExecutionOrder(t.Name())
		rep.Tensors = append(rep.Tensors, tp)
	}
	return rep
}
