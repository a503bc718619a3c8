package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func TestJoinContexts_CancelsWhenEitherDone(t *testing.T) {
	for _, first := range []bool{true, false} {
		a, ac := context.WithCancel(context.Background())
		b, bc := context.WithCancel(context.Background())
		j, cancelJ := joinContexts(a, b)
		if first {
			ac()
		} else {
			bc()
		}
		select {
		case <-j.Done():
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("joined context did not cancel (first=%v)", first)
		}
		cancelJ()
		ac()
		bc()
	}
}

func TestRequestContext_AppliesTimeout(t *testing.T) {
	SetBaseContext(nil)
	defer SetPlanTimeout(0)
	SetPlanTimeout(time.Minute)
	ctx, cancel := requestContext(httptest.NewRequest("POST", "/plan", nil))
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Fatalf("expected a deadline")
	}
	SetPlanTimeout(0)
	ctx2, cancel2 := requestContext(httptest.NewRequest("POST", "/plan", nil))
	defer cancel2()
	if _, ok := ctx2.Deadline(); ok {
		t.Fatalf("expected no deadline")
	}
}
