package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/freshness/pkg/domain/interfaces"
	"github.com/m-mizutani/freshness/pkg/domain/model"
	"github.com/m-mizutani/freshness/pkg/domain/types"
	"github.com/m-mizutani/freshness/pkg/utils/errutil"
	"github.com/m-mizutani/freshness/pkg/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	mux *chi.Mux
}

func safeWrite(w http.ResponseWriter, code int, body []byte) {
	w.WriteHeader(code)

	// nosemgrep: go.lang.security.audit.xss.no-direct-write-to-responsewriter.no-direct-write-to-responsewriter
	// Why: The response data is JSON encoded and served as application/json
	if _, err := w.Write(body); err != nil {
		logging.Default().Error("fail to write response", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logging.Default().Error("fail to marshal response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		safeWrite(w, http.StatusInternalServerError, []byte(`{"error":"Internal","message":"failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	safeWrite(w, code, body)
}

type config struct {
	registry *prometheus.Registry
}

type Option func(*config)

// WithRegistry sets the registry that badge metrics are registered to and
// served from at /metrics
func WithRegistry(registry *prometheus.Registry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

func New(uc interfaces.UseCase, options ...Option) *Server {
	cfg := &config{}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}
	m := newMetrics(cfg.registry)

	r := chi.NewRouter()
	r.Use(preProcess)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "hello there!"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safeWrite(w, http.StatusOK, []byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{}))
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		handleBadge(w, r, uc, m)
	})

	return &Server{
		mux: r,
	}
}

func (x *Server) Mux() *chi.Mux {
	return x.mux
}

func handleBadge(w http.ResponseWriter, r *http.Request, uc interfaces.UseCase, m *metrics) {
	ref, err := model.ParseRepositoryRef(chi.URLParam(r, "*"))
	if err != nil {
		m.observeResult(types.KindOf(err))
		writeError(w, r, err)
		return
	}

	// The upstream call is not cancelled when the caller goes away
	ctx := DetachContext(r.Context())

	requestedAt := time.Now()
	badge, err := uc.ResolveFreshness(ctx, ref)
	m.upstreamDuration.Observe(time.Since(requestedAt).Seconds())
	if err != nil {
		m.observeResult(types.KindOf(err))
		writeError(w, r, err)
		return
	}

	m.observeResult(resultOK)
	writeJSON(w, http.StatusOK, badge)
}

var statusByKind = map[types.ErrorKind]int{
	types.ErrKindMalformed:           http.StatusBadRequest,
	types.ErrKindNotFound:            http.StatusNotFound,
	types.ErrKindUpstreamAuthFailed:  http.StatusBadGateway,
	types.ErrKindRateLimited:         http.StatusTooManyRequests,
	types.ErrKindUpstreamUnavailable: http.StatusBadGateway,
	types.ErrKindMissingTimestamp:    http.StatusBadGateway,
}

var messageByKind = map[types.ErrorKind]string{
	types.ErrKindMalformed:           "path must be /{owner}/{name}",
	types.ErrKindNotFound:            "repository not found or not accessible",
	types.ErrKindUpstreamAuthFailed:  "upstream rejected the configured credential",
	types.ErrKindRateLimited:         "upstream rate limit exceeded",
	types.ErrKindUpstreamUnavailable: "upstream is unavailable",
	types.ErrKindMissingTimestamp:    "community profile has no usable timestamp",
	types.ErrKindInternal:            "internal server error",
}

func statusOf(kind types.ErrorKind) int {
	if code, ok := statusByKind[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := types.KindOf(err)
	code := statusOf(kind)

	if code >= http.StatusInternalServerError {
		errutil.HandleError(r.Context(), "fail to resolve badge", err)
	} else {
		logging.From(r.Context()).Warn("badge request rejected",
			slog.Any("error", err),
			slog.String("error_kind", string(kind)),
			slog.Int("status", code),
		)
	}

	writeJSON(w, code, model.ErrorResponse{
		Error:   kind,
		Message: messageByKind[kind],
	})
}
