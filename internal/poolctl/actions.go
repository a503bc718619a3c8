package poolctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"tensorpool/internal/manifest"
	"tensorpool/internal/runner"
)

// Output formats accepted by --output.
const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

func newRunner(cfg *Config) (*runner.Runner, error) {
	return runner.New(runner.Config{
		DefaultPlanner: cfg.Planner,
		MaxArenaBytes:  cfg.MaxArenaBytes,
		Logger:         &cfg.Logger,
	})
}

func fnPlan(ctx context.Context, cfg *Config, uri string, out io.Writer) error {
	m, err := manifest.Open(cfg.Logger.WithContext(ctx), uri)
	if err != nil {
		return err
	}
	r, err := newRunner(cfg)
	if err != nil {
		return err
	}
	rep, err := r.Plan(ctx, m)
	if err != nil {
		return err
	}
	if cfg.Output == outputTable {
		return writePlanTable(out, rep.Planner, rep.ArenaBytes, rep.Efficiency, rep.Tensors)
	}
	return encode(out, cfg.Output, rep)
}

func fnCompare(ctx context.Context, cfg *Config, uri string, out io.Writer) error {
	m, err := manifest.Open(cfg.Logger.WithContext(ctx), uri)
	if err != nil {
		return err
	}
	r, err := newRunner(cfg)
	if err != nil {
		return err
	}
	rep, err := r.Compare(ctx, m)
	if err != nil {
		return err
	}
	if cfg.Output == outputTable {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PLANNER\tARENA\tMINIMUM\tEFFICIENCY\tPLANNED")
		for _, p := range rep.Reports {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%d\n", p.Planner, p.ArenaBytes, p.MinimumBytes, p.Efficiency, p.Planned)
		}
		return tw.Flush()
	}
	return encode(out, cfg.Output, rep)
}

func fnPlanners(cfg *Config, out io.Writer) error {
	r, err := newRunner(cfg)
	if err != nil {
		return err
	}
	resp := r.Planners()
	if cfg.Output == outputTable {
		for _, n := range resp.Planners {
			mark := ""
			if n == resp.Default {
				mark = " (default)"
			}
			fmt.Fprintf(out, "%s%s\n", n, mark)
		}
		return nil
	}
	return encode(out, cfg.Output, resp)
}

func encode(out io.Writer, format string, v any) error {
	switch format {
	case outputJSON, "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		// Round-trip through JSON so YAML keys follow the json tags.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := yaml.Unmarshal(b, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q: want json|yaml|table", format)
	}
}
