package httpapi

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tensorpool/internal/manifest"
	"tensorpool/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Planners() types.PlannersResponse
	Plan(ctx context.Context, m types.Manifest) (types.PlanReport, error)
	Compare(ctx context.Context, m types.Manifest) (types.CompareReport, error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/planners", plannersHandler(svc))
	r.Post("/plan", planHandler(svc))
	r.Post("/compare", compareHandler(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// plannersHandler lists the planning strategies.
//
// @Summary  List planners
// @Tags     planning
// @Produce  json
// @Success  200  {object}  types.PlannersResponse
// @Router   /planners [get]
func plannersHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Planners())
	}
}

// planHandler plans one manifest.
//
// @Summary  Plan a manifest
// @Tags     planning
// @Accept   json,application/yaml,application/toml
// @Produce  json
// @Param    manifest  body      types.Manifest  true  "graph manifest"
// @Success  200       {object}  types.PlanReport
// @Failure  400       {object}  types.ErrorResponse
// @Failure  415       {object}  types.ErrorResponse
// @Failure  422       {object}  types.ErrorResponse
// @Failure  507       {object}  types.ErrorResponse
// @Router   /plan [post]
func planHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveManifest(w, r, "plan", func(ctx context.Context, m types.Manifest) (any, map[string]any, error) {
			rep, err := svc.Plan(ctx, m)
			return rep, map[string]any{
				"planner":     rep.Planner,
				"arena_bytes": rep.ArenaBytes,
				"efficiency":  rep.Efficiency,
			}, err
		})
	}
}

// compareHandler plans one manifest with every planner.
//
// @Summary  Compare planners on a manifest
// @Tags     planning
// @Accept   json,application/yaml,application/toml
// @Produce  json
// @Param    manifest  body      types.Manifest  true  "graph manifest"
// @Success  200       {object}  types.CompareReport
// @Failure  400       {object}  types.ErrorResponse
// @Failure  415       {object}  types.ErrorResponse
// @Router   /compare [post]
func compareHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveManifest(w, r, "compare", func(ctx context.Context, m types.Manifest) (any, map[string]any, error) {
			rep, err := svc.Compare(ctx, m)
			return rep, map[string]any{"reports": len(rep.Reports)}, err
		})
	}
}

type manifestFunc func(ctx context.Context, m types.Manifest) (body any, summary map[string]any, err error)

func serveManifest(w http.ResponseWriter, r *http.Request, op string, fn manifestFunc) {
	format, ok := manifestFormat(r.Header.Get("Content-Type"))
	if !ok {
		incrementRejected("content_type")
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json, application/yaml or application/toml")
		return
	}
	// Limit body size (configurable, default 1MiB)
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		// Still 400 to avoid leaking size details
		incrementRejected("body")
		writeJSONError(w, http.StatusBadRequest, "invalid manifest body")
		return
	}
	m, err := manifest.Decode(b, format)
	if err != nil {
		incrementRejected("decode")
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	pl := startPlanLog(r, op)
	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := requestContext(r)
	defer cancel()
	body, summary, err := fn(ctx, m)
	if err != nil {
		// Client went away; nobody is listening.
		if r.Context().Err() != nil {
			return
		}
		status := statusFor(err)
		writeJSONError(w, status, err.Error())
		pl.end(status, err)
		return
	}
	pl.debug(summary, op+" summary")
	writeJSON(w, http.StatusOK, body)
	pl.end(http.StatusOK, nil)
}

// manifestFormat maps a request content type to a manifest encoding.
func manifestFormat(ct string) (manifest.Format, bool) {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(mt) {
	case "application/json":
		return manifest.FormatJSON, true
	case "application/yaml", "application/x-yaml", "text/yaml":
		return manifest.FormatYAML, true
	case "application/toml":
		return manifest.FormatTOML, true
	}
	return "", false
}
