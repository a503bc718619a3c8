package runner

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tensorpool/internal/planner"
	"tensorpool/pkg/types"
)

func scenario() types.Manifest {
	return types.Manifest{
		Window: types.Window{Start: 0, End: 5},
		Tensors: []types.TensorSpec{
			{Name: "A", Dim: types.DimSpec{Width: 100}, DType: "uint8", Lifespan: "iteration", ExecOrder: []int{0, 2}},
			{Name: "B", Dim: types.DimSpec{Width: 100}, DType: "uint8", Lifespan: "iteration", ExecOrder: []int{3, 5}},
			{Name: "V", Dim: types.DimSpec{Width: 10}, DType: "uint8", View: &types.ViewSpec{Source: "B", Offset: 20}},
			{Name: "in", Dim: types.DimSpec{Width: 4}, Placeholder: true},
		},
	}
}

func TestNewRejectsUnknownPlanner(t *testing.T) {
	if _, err := New(Config{DefaultPlanner: "nope"}); err == nil {
		t.Fatalf("expected error")
	}
	r, err := New(Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := r.Planners(); got.Default != planner.Default || len(got.Planners) != 3 {
		t.Fatalf("planners: %+v", got)
	}
	if !r.Ready() {
		t.Fatalf("expected ready")
	}
}

func TestPlanReport(t *testing.T) {
	r, _ := New(Config{})
	rep, err := r.Plan(context.Background(), scenario())
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if rep.Planner != planner.Default || rep.ArenaBytes != 100 || rep.Efficiency != 1.0 || rep.Planned != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	want := []types.TensorPlacement{
		{Name: "A", Bytes: 100, Offset: 0, Lifespan: "iteration", ExecOrder: []int{0, 2}},
		{Name: "B", Bytes: 100, Offset: 0, Lifespan: "iteration", ExecOrder: []int{3, 5}},
		{Name: "V", Bytes: 10, Offset: 20, Lifespan: "iteration", ViewOf: "B", ExecOrder: []int{3, 5}},
		{Name: "in", Bytes: 16, Offset: -1, Lifespan: "unmanaged"},
	}
	if diff := cmp.Diff(want, rep.Tensors); diff != "" {
		t.Fatalf("placements (-want +got):\n%s", diff)
	}
}

func TestCompareRunsEveryPlanner(t *testing.T) {
	r, _ := New(Config{})
	cmpRep, err := r.Compare(context.Background(), scenario())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	names := planner.Names()
	if len(cmpRep.Reports) != len(names) {
		t.Fatalf("reports=%d", len(cmpRep.Reports))
	}
	for i, rep := range cmpRep.Reports {
		if rep.Planner != names[i] {
			t.Fatalf("report %d planner=%s want %s", i, rep.Planner, names[i])
		}
		if rep.MinimumBytes != 100 {
			t.Fatalf("%s minimum=%d", rep.Planner, rep.MinimumBytes)
		}
	}
	if cmpRep.Reports[0].Planner != "basic" || cmpRep.Reports[0].ArenaBytes != 200 {
		t.Fatalf("basic report: %+v", cmpRep.Reports[0])
	}
}

func TestPlanErrorsCarryStatus(t *testing.T) {
	r, _ := New(Config{MaxArenaBytes: 50})
	cases := []struct {
		name string
		m    types.Manifest
		code int
	}{
		{"unknown planner", types.Manifest{Planner: "nope"}, http.StatusBadRequest},
		{"invalid manifest", types.Manifest{Window: types.Window{Start: 2, End: 1}}, http.StatusBadRequest},
		{"view out of bounds", types.Manifest{Tensors: []types.TensorSpec{
			{Name: "a", Dim: types.DimSpec{Width: 4}, DType: "uint8", ExecOrder: []int{0}},
			{Name: "v", Dim: types.DimSpec{Width: 8}, DType: "uint8", View: &types.ViewSpec{Source: "a"}},
		}}, http.StatusUnprocessableEntity},
		{"arena too large", scenario(), http.StatusInsufficientStorage},
	}
	for _, c := range cases {
		_, err := r.Plan(context.Background(), c.m)
		var re *Error
		if !errors.As(err, &re) || re.StatusCode() != c.code {
			t.Fatalf("%s: got %v, want status %d", c.name, err, c.code)
		}
	}
}

func TestNewAppliesDefaultArenaCap(t *testing.T) {
	r, _ := New(Config{})
	if r.MaxArenaBytes() != DefaultMaxArenaBytes {
		t.Fatalf("default cap=%d", r.MaxArenaBytes())
	}
	unlimited, _ := New(Config{MaxArenaBytes: -1})
	if unlimited.MaxArenaBytes() != 0 {
		t.Fatalf("negative cap=%d, want unlimited", unlimited.MaxArenaBytes())
	}

	huge := types.Manifest{Tensors: []types.TensorSpec{
		{Name: "a", Dim: types.DimSpec{Height: 2, Width: 1 << 30}, DType: "uint8", ExecOrder: []int{0}},
	}}
	_, err := r.Plan(context.Background(), huge)
	var re *Error
	if !errors.As(err, &re) || re.StatusCode() != http.StatusInsufficientStorage {
		t.Fatalf("expected 507 under the default cap, got %v", err)
	}
}

func TestCompareRejectsOverflowingShapes(t *testing.T) {
	r, _ := New(Config{})
	m := scenario()
	m.Tensors = append(m.Tensors, types.TensorSpec{
		Name:  "huge",
		Dim:   types.DimSpec{Height: 2, Width: math.MaxInt/2 + 1},
		DType: "uint8",
		View:  &types.ViewSpec{Source: "A"},
	})
	_, err := r.Compare(context.Background(), m)
	var re *Error
	if !errors.As(err, &re) || re.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}

	m = scenario()
	m.Tensors[2].View.Offset = math.MaxInt - 4
	_, err = r.Compare(context.Background(), m)
	if !errors.As(err, &re) || re.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for offset near MaxInt, got %v", err)
	}
}

func TestPlanHonoursCanceledContext(t *testing.T) {
	r, _ := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Plan(ctx, scenario()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
