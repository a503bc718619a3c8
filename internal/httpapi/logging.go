package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("TENSORPOOL_LOG_LEVEL"))

func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// planLog records the start and end of one planning request.
type planLog struct {
	r     *http.Request
	lvl   LogLevel
	op    string
	start time.Time
}

func startPlanLog(r *http.Request, op string) *planLog {
	pl := &planLog{r: r, lvl: requestLogLevel(r), op: op, start: time.Now()}
	if pl.lvl >= LevelInfo {
		if zlog != nil {
			z := zlog.Info().Str("path", r.URL.Path)
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg(op + " start")
		} else {
			log.Printf("%s start path=%s", op, r.URL.Path)
		}
	}
	return pl
}

// end logs the outcome. Failures are logged from LevelError, successes from
// LevelInfo.
func (pl *planLog) end(status int, err error) {
	want := LevelInfo
	if err != nil {
		want = LevelError
	}
	if pl.lvl < want {
		return
	}
	dur := time.Since(pl.start)
	if zlog == nil {
		if err != nil {
			log.Printf("%s end status=%d dur=%s err=%v", pl.op, status, dur, err)
		} else {
			log.Printf("%s end status=%d dur=%s", pl.op, status, dur)
		}
		return
	}
	z := zlog.Info().Int("status", status).Dur("dur", dur)
	if rid := middleware.GetReqID(pl.r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg(pl.op + " end")
}

// debug logs a summary line when the request asked for debug output.
func (pl *planLog) debug(fields map[string]any, msg string) {
	if pl.lvl < LevelDebug {
		return
	}
	if zlog != nil {
		zlog.Debug().Fields(fields).Msg(msg)
		return
	}
	log.Printf("%s %v", msg, fields)
}
