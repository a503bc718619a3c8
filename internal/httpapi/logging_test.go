package httpapi

import (
	"bytes"
	"errors"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"weird": LevelInfo, // default
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	r := httptest.NewRequest("POST", "/plan?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("query override failed: %v", got)
	}
	r = httptest.NewRequest("POST", "/plan", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("header override failed: %v", got)
	}
	// query wins over header
	r = httptest.NewRequest("POST", "/plan?log=info", nil)
	r.Header.Set("X-Log-Level", "off")
	if got := requestLogLevel(r); got != LevelInfo {
		t.Fatalf("query precedence failed: %v", got)
	}
}

func TestPlanLog_StdlibFallback(t *testing.T) {
	zlog = nil
	var buf bytes.Buffer
	orig := log.Writer()
	defer log.SetOutput(orig)
	log.SetOutput(&buf)

	pl := startPlanLog(httptest.NewRequest("POST", "/plan?log=debug", nil), "plan")
	pl.debug(map[string]any{"arena_bytes": 64}, "plan summary")
	pl.end(422, errors.New("out of bounds"))

	out := buf.String()
	for _, want := range []string{"plan start path=/plan", "plan summary", "arena_bytes", "plan end status=422", "out of bounds"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestPlanLog_ErrorLevelSkipsSuccess(t *testing.T) {
	zlog = nil
	var buf bytes.Buffer
	orig := log.Writer()
	defer log.SetOutput(orig)
	log.SetOutput(&buf)

	pl := startPlanLog(httptest.NewRequest("POST", "/plan?log=error", nil), "plan")
	pl.end(200, nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	pl.end(500, errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected failure to be logged, got %q", buf.String())
	}
}
