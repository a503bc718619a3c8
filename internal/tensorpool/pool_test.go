package tensorpool

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tensorpool/internal/planner"
)

func mustRequest(t *testing.T, p *Pool, name string, bytes int, order []int, l Lifespan) *Tensor {
	t.Helper()
	tn, err := p.Request(name, ByteDim(bytes), order, l, InitNone)
	if err != nil {
		t.Fatalf("request %s: %v", name, err)
	}
	return tn
}

func mustView(t *testing.T, p *Pool, name, source string, bytes, offset int, order []int, l Lifespan) *Tensor {
	t.Helper()
	tn, err := p.RequestView(name, source, ByteDim(bytes), offset, order, l, InitNone)
	if err != nil {
		t.Fatalf("view %s: %v", name, err)
	}
	return tn
}

func TestRequestRejectsInvalid(t *testing.T) {
	p := New()
	mustRequest(t, p, "a", 8, []int{0}, Iteration)

	if _, err := p.Request("b", ByteDim(0), []int{0}, Iteration, InitNone); !IsInvalidSize(err) {
		t.Fatalf("expected invalid size, got %v", err)
	}
	if _, err := p.Request("a", ByteDim(4), []int{0}, Iteration, InitNone); !IsDuplicateName(err) {
		t.Fatalf("expected duplicate name, got %v", err)
	}
	if _, err := p.Request("", ByteDim(4), []int{0}, Iteration, InitNone); !IsInvalidName(err) {
		t.Fatalf("expected invalid name, got %v", err)
	}
	if _, err := p.Request("c", ByteDim(4), []int{-1}, Iteration, InitNone); KindOf(err) != KindInvalidExecOrder {
		t.Fatalf("expected invalid exec order, got %v", err)
	}
	if len(p.Tensors()) != 1 || p.Exists("b") || p.Exists("c") {
		t.Fatalf("failed requests mutated pool: %v", p.Tensors())
	}
	got, err := p.ExecutionOrder("a")
	if err != nil {
		t.Fatalf("exec order: %v", err)
	}
	if diff := cmp.Diff([]int{0}, got); diff != "" {
		t.Fatalf("exec order changed (-want +got):\n%s", diff)
	}
}

func TestRequestRejectsOverflowingShapes(t *testing.T) {
	p := New()
	huge := Dim{Batch: 1, Channel: 1, Height: 2, Width: math.MaxInt/2 + 1, Type: Uint8}
	if _, err := p.Request("big", huge, []int{0}, Iteration, InitNone); !IsInvalidSize(err) {
		t.Fatalf("expected invalid size, got %v", err)
	}
	if _, err := p.Placeholder("big", Dim{Batch: -1, Channel: -1, Height: 1, Width: 1}); !IsInvalidSize(err) {
		t.Fatalf("expected invalid size for negative axes, got %v", err)
	}
	mustRequest(t, p, "a", 64, []int{0}, Iteration)
	if _, err := p.RequestView("v", "a", huge, 0, []int{0}, Iteration, InitNone); !IsInvalidSize(err) {
		t.Fatalf("expected invalid size for view, got %v", err)
	}
	if _, err := p.RequestView("v", "a", ByteDim(8), math.MaxInt-4, []int{0}, Iteration, InitNone); !IsOutOfBounds(err) {
		t.Fatalf("expected out of bounds for offset near MaxInt, got %v", err)
	}
	mustView(t, p, "v", "a", 32, 16, nil, Iteration)
	if _, err := p.RequestView("vv", "v", ByteDim(8), math.MaxInt-8, nil, Iteration, InitNone); !IsOutOfBounds(err) {
		t.Fatalf("expected out of bounds for chained offset near MaxInt, got %v", err)
	}
	if p.Exists("big") || p.Exists("vv") {
		t.Fatalf("rejected requests registered tensors")
	}
}

func TestGetAndExists(t *testing.T) {
	p := New()
	a := mustRequest(t, p, "a", 8, []int{0}, Iteration)
	if !p.Exists("a") || p.Exists("x") {
		t.Fatalf("exists mismatch")
	}
	got, err := p.Get("a")
	if err != nil || got != a {
		t.Fatalf("get returned %v, %v", got, err)
	}
	if _, err := p.Get("x"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestViewBounds(t *testing.T) {
	p := New()
	mustRequest(t, p, "a", 64, []int{0, 1}, ForwardFunc)
	if _, err := p.RequestView("v", "a", ByteDim(32), 40, nil, ForwardFunc, InitNone); !IsOutOfBounds(err) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
	mustView(t, p, "v", "a", 32, 16, nil, ForwardFunc)
	// v sits at 16, so a view of v may use at most 48 bytes
	if _, err := p.RequestView("vv", "v", ByteDim(40), 10, nil, ForwardFunc, InitNone); !IsOutOfBounds(err) {
		t.Fatalf("expected out of bounds for chained view, got %v", err)
	}
	mustView(t, p, "vv", "v", 16, 32, nil, ForwardFunc)
	src, off, ok := p.ViewOf("vv")
	if !ok || src != "a" || off != 48 {
		t.Fatalf("ViewOf(vv) = %q, %d, %v", src, off, ok)
	}
	if _, _, ok := p.ViewOf("a"); ok {
		t.Fatalf("source reported as view")
	}
	if _, err := p.RequestView("w", "missing", ByteDim(4), 0, nil, ForwardFunc, InitNone); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := p.RequestView("w", "a", ByteDim(4), -1, nil, ForwardFunc, InitNone); !IsOutOfBounds(err) {
		t.Fatalf("expected out of bounds for negative offset, got %v", err)
	}
}

func TestViewInitializerConflict(t *testing.T) {
	p := New()
	if _, err := p.Request("a", ByteDim(16), []int{0}, Iteration, InitZeros); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := p.RequestView("v", "a", ByteDim(8), 0, []int{3}, Iteration, InitOnes); !IsLifetimeMismatch(err) {
		t.Fatalf("expected lifetime mismatch, got %v", err)
	}
	order, _ := p.ExecutionOrder("a")
	if len(order) != 1 {
		t.Fatalf("failed view mutated source exec order: %v", order)
	}
	if _, err := p.RequestView("v", "a", ByteDim(8), 0, []int{3}, Iteration, InitZeros); err != nil {
		t.Fatalf("matching initializer rejected: %v", err)
	}
	if _, err := p.RequestView("w", "a", ByteDim(8), 8, nil, Iteration, InitNone); err != nil {
		t.Fatalf("default initializer rejected: %v", err)
	}
}

func TestLifespanNeverNarrows(t *testing.T) {
	p := New()
	mustRequest(t, p, "a", 16, []int{0}, Epoch)
	mustView(t, p, "v", "a", 8, 0, []int{2}, ForwardFunc)
	if _, err := p.Extend("a", []int{5}, ForwardFunc); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if _, err := p.Extend("v", []int{6}, BackwardFunc); err != nil {
		t.Fatalf("extend via view: %v", err)
	}
	l, _ := p.Lifespan("a")
	if l != Epoch {
		t.Fatalf("lifespan narrowed to %s", l)
	}
	order, _ := p.ExecutionOrder("v")
	if diff := cmp.Diff([]int{0, 2, 5, 6}, order); diff != "" {
		t.Fatalf("exec order (-want +got):\n%s", diff)
	}

	mustRequest(t, p, "b", 16, []int{0}, ForwardFunc)
	if _, err := p.Extend("b", nil, BackwardFunc); err != nil {
		t.Fatalf("extend: %v", err)
	}
	if l, _ := p.Lifespan("b"); l != Iteration {
		t.Fatalf("forward|backward = %s, want iteration", l)
	}
}

func TestExtendUnmanagedRules(t *testing.T) {
	p := New()
	mustRequest(t, p, "a", 16, []int{0}, Iteration)
	if _, err := p.Extend("a", []int{1}, Unmanaged); !IsLifetimeMismatch(err) {
		t.Fatalf("expected lifetime mismatch, got %v", err)
	}
	if _, err := p.Placeholder("in", ByteDim(16)); err != nil {
		t.Fatalf("placeholder: %v", err)
	}
	if _, err := p.Extend("in", []int{1}, Iteration); !IsLifetimeMismatch(err) {
		t.Fatalf("expected lifetime mismatch, got %v", err)
	}
	if _, err := p.Extend("missing", nil, Iteration); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := p.RequestView("inv", "in", ByteDim(8), 0, []int{1}, Unmanaged, InitNone); err != nil {
		t.Fatalf("unmanaged view of placeholder: %v", err)
	}
}

func TestFinalizeFullReuse(t *testing.T) {
	p := New()
	mustRequest(t, p, "A", 100, []int{0, 2}, Iteration)
	mustRequest(t, p, "B", 100, []int{3, 5}, Iteration)
	eff, err := p.Finalize(planner.OptimizedV1{}, 0, 5)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	st := p.Stats()
	if st.ArenaBytes != 100 || eff != 1.0 || st.Efficiency != 1.0 {
		t.Fatalf("arena=%d eff=%v", st.ArenaBytes, eff)
	}
	if st.Planned != 2 || st.Planner != "optimized-v1" {
		t.Fatalf("stats: %+v", st)
	}
}

func TestFinalizeSkipsTensorsOutsideWindow(t *testing.T) {
	p := New()
	mustRequest(t, p, "early", 64, []int{0, 1}, ForwardFunc)
	mustRequest(t, p, "inside", 32, []int{2, 3}, ForwardFunc)
	if _, err := p.Finalize(planner.Basic{}, 2, 4); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if tok, _ := p.Token("early"); tok != 0 {
		t.Fatalf("tensor outside window got token %d", tok)
	}
	if tok, _ := p.Token("inside"); tok == 0 {
		t.Fatalf("tensor inside window got no token")
	}
	if st := p.Stats(); st.ArenaBytes != 32 {
		t.Fatalf("arena=%d, want 32", st.ArenaBytes)
	}
	if err := p.Allocate(); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	early, _ := p.Get("early")
	if early.Allocated() {
		t.Fatalf("tensor outside window was allocated")
	}
}

func TestFinalizeLongTermSpansWindow(t *testing.T) {
	p := New()
	mustRequest(t, p, "w", 16, []int{3}, Max)
	mustRequest(t, p, "x", 16, []int{0}, ForwardFunc)
	mustRequest(t, p, "y", 16, []int{6}, ForwardFunc)
	if _, err := p.Finalize(planner.OptimizedV1{}, 0, 6); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	// w is live from 0 to 6 so x and y can share, but not with w
	if st := p.Stats(); st.ArenaBytes != 32 {
		t.Fatalf("arena=%d, want 32", st.ArenaBytes)
	}
	wOff, _ := p.Offset("w")
	xOff, _ := p.Offset("x")
	yOff, _ := p.Offset("y")
	if wOff == xOff || wOff == yOff {
		t.Fatalf("long-term tensor shares memory: w=%d x=%d y=%d", wOff, xOff, yOff)
	}
}

func TestFinalizeIgnoresUnmanagedAndUntouched(t *testing.T) {
	p := New()
	if _, err := p.Placeholder("in", ByteDim(64)); err != nil {
		t.Fatalf("placeholder: %v", err)
	}
	mustRequest(t, p, "idle", 64, nil, Iteration)
	eff, err := p.Finalize(planner.OptimizedV1{}, 0, 10)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if eff != 0 || p.Stats().ArenaBytes != 0 || p.Stats().Planned != 0 {
		t.Fatalf("unexpected plan: eff=%v %+v", eff, p.Stats())
	}
}

func TestFinalizeInvalidWindow(t *testing.T) {
	p := New()
	if _, err := p.Finalize(planner.Basic{}, 3, 2); KindOf(err) != KindInvalidWindow {
		t.Fatalf("expected invalid window, got %v", err)
	}
	if _, err := p.Finalize(nil, 0, 2); !IsPlannerFailure(err) {
		t.Fatalf("expected planner failure, got %v", err)
	}
}

type overlappingPlanner struct{}

func (overlappingPlanner) Name() string { return "overlapping" }
func (overlappingPlanner) Plan(reqs []planner.Request) (planner.Layout, error) {
	l := planner.Layout{Offsets: make([]int, len(reqs))}
	for _, r := range reqs {
		if r.Size > l.Size {
			l.Size = r.Size
		}
	}
	return l, nil
}

func TestFinalizePlannerFailureLeavesPlan(t *testing.T) {
	p := New()
	mustRequest(t, p, "a", 8, []int{0, 1}, Iteration)
	mustRequest(t, p, "b", 8, []int{1, 2}, Iteration)
	if _, err := p.Finalize(planner.Basic{}, 0, 2); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	before, _ := p.Token("b")
	if _, err := p.Finalize(overlappingPlanner{}, 0, 2); !IsPlannerFailure(err) {
		t.Fatalf("expected planner failure, got %v", err)
	}
	after, _ := p.Token("b")
	if before != after || p.Stats().Planner != "basic" {
		t.Fatalf("failed finalize changed plan")
	}
}

func TestRefinalizeStartsClean(t *testing.T) {
	p := New()
	mustRequest(t, p, "a", 10, []int{0}, ForwardFunc)
	mustRequest(t, p, "b", 20, []int{4}, ForwardFunc)
	if _, err := p.Finalize(planner.Basic{}, 0, 4); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if st := p.Stats(); st.ArenaBytes != 30 {
		t.Fatalf("arena=%d", st.ArenaBytes)
	}
	if _, err := p.Finalize(planner.Basic{}, 3, 4); err != nil {
		t.Fatalf("refinalize: %v", err)
	}
	st := p.Stats()
	if st.ArenaBytes != 20 || st.RequestedBytes != 20 || st.Planned != 1 {
		t.Fatalf("stale state after refinalize: %+v", st)
	}
	if tok, _ := p.Token("a"); tok != 0 {
		t.Fatalf("token carried over: %d", tok)
	}
}
