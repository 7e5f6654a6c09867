package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/freshness/pkg/controller/server"
	"github.com/m-mizutani/freshness/pkg/domain/mock"
	"github.com/m-mizutani/freshness/pkg/domain/model"
	"github.com/m-mizutani/freshness/pkg/domain/types"
	"github.com/m-mizutani/freshness/pkg/infra"
	"github.com/m-mizutani/freshness/pkg/usecase"
	"github.com/m-mizutani/freshness/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

func serve(t *testing.T, srv *server.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRouterSmokeTests(t *testing.T) {
	t.Run("GET / returns greeting", func(t *testing.T) {
		srv := server.New(&mock.UseCaseMock{})
		rec := serve(t, srv, "/")

		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Header().Get("Content-Type")).Equal("application/json")
		gt.V(t, rec.Body.String()).Equal(`{"message":"hello there!"}`)
	})

	t.Run("GET /health returns 200", func(t *testing.T) {
		srv := server.New(&mock.UseCaseMock{})
		rec := serve(t, srv, "/health")

		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Body.String()).Equal("ok")
	})
}

func TestBadge(t *testing.T) {
	t.Run("returns badge for owner/name", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{
			ResolveFreshnessFunc: func(ctx context.Context, ref model.RepositoryRef) (*model.Badge, error) {
				gt.V(t, ref).Equal(model.RepositoryRef{Owner: "m-mizutani", Name: "freshness"})
				return model.NewBadge("3 months"), nil
			},
		}
		srv := server.New(mockUC)
		rec := serve(t, srv, "/m-mizutani/freshness")

		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Header().Get("Content-Type")).Equal("application/json")
		gt.V(t, rec.Body.String()).Equal(`{"schemaVersion":1,"label":"⏱","labelColor":"blue","message":"3 months"}`)
		gt.A(t, mockUC.ResolveFreshnessCalls()).Length(1)
	})

	t.Run("greedy path keeps remainder in name", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{
			ResolveFreshnessFunc: func(ctx context.Context, ref model.RepositoryRef) (*model.Badge, error) {
				return nil, goerr.Wrap(types.ErrNotFound, "no such repo")
			},
		}
		srv := server.New(mockUC)
		serve(t, srv, "/owner/name/extra")

		calls := mockUC.ResolveFreshnessCalls()
		gt.A(t, calls).Length(1)
		gt.V(t, calls[0].Ref.Owner).Equal("owner")
		gt.V(t, calls[0].Ref.Name).Equal("name/extra")
	})

	t.Run("path without slash is malformed and makes no upstream call", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{}
		srv := server.New(mockUC)
		rec := serve(t, srv, "/onlyowner")

		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
		gt.V(t, decodeError(t, rec).Error).Equal(types.ErrKindMalformed)
		gt.A(t, mockUC.ResolveFreshnessCalls()).Length(0)
	})

	t.Run("dot segments are malformed and make no upstream call", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{}
		srv := server.New(mockUC)

		for _, path := range []string{
			"/b/../../../orgs/x",
			"/owner/%2e%2e/%2e%2e/orgs/x",
		} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL = gt.R1(url.Parse(path)).NoError(t)
			rec := httptest.NewRecorder()
			srv.Mux().ServeHTTP(rec, req)

			gt.V(t, rec.Code).Equal(http.StatusBadRequest)
			gt.V(t, decodeError(t, rec).Error).Equal(types.ErrKindMalformed)
		}
		gt.A(t, mockUC.ResolveFreshnessCalls()).Length(0)
	})

	t.Run("trailing slash is malformed", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{}
		srv := server.New(mockUC)
		rec := serve(t, srv, "/owner/")

		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
		gt.A(t, mockUC.ResolveFreshnessCalls()).Length(0)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		kind   types.ErrorKind
	}{
		{"not found", types.ErrNotFound, http.StatusNotFound, types.ErrKindNotFound},
		{"auth failed", types.ErrUpstreamAuthFailed, http.StatusBadGateway, types.ErrKindUpstreamAuthFailed},
		{"rate limited", types.ErrRateLimited, http.StatusTooManyRequests, types.ErrKindRateLimited},
		{"unavailable", types.ErrUpstreamUnavailable, http.StatusBadGateway, types.ErrKindUpstreamUnavailable},
		{"missing timestamp", types.ErrMissingTimestamp, http.StatusBadGateway, types.ErrKindMissingTimestamp},
		{"unknown", goerr.New("unexpected"), http.StatusInternalServerError, types.ErrKindInternal},
	}
	for _, tc := range errorCases {
		t.Run("maps "+tc.name, func(t *testing.T) {
			mockUC := &mock.UseCaseMock{
				ResolveFreshnessFunc: func(ctx context.Context, ref model.RepositoryRef) (*model.Badge, error) {
					return nil, goerr.Wrap(tc.err, "resolve failed", goerr.V("repo", ref.String()))
				},
			}
			srv := server.New(mockUC)
			rec := serve(t, srv, "/owner/ghost-repo")

			gt.V(t, rec.Code).Equal(tc.status)
			resp := decodeError(t, rec)
			gt.V(t, resp.Error).Equal(tc.kind)
			gt.V(t, resp.Message).NotEqual("")
			gt.False(t, strings.Contains(rec.Body.String(), "ghost-repo"))
		})
	}

	t.Run("upstream call is not cancelled with the request", func(t *testing.T) {
		mockUC := &mock.UseCaseMock{
			ResolveFreshnessFunc: func(ctx context.Context, ref model.RepositoryRef) (*model.Badge, error) {
				gt.NoError(t, ctx.Err())
				return model.NewBadge("a day"), nil
			},
		}
		srv := server.New(mockUC)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodGet, "/owner/name", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)
	})
}

func TestBadgeEndToEnd(t *testing.T) {
	updatedAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	mockGH := &mock.GitHubMock{
		GetCommunityMetricsFunc: func(ctx context.Context, ref model.RepositoryRef) (*model.CommunityMetrics, error) {
			if ref.Name == "ghost-repo" {
				return nil, goerr.Wrap(types.ErrNotFound, "repository not found")
			}
			return &model.CommunityMetrics{UpdatedAt: &updatedAt}, nil
		},
	}
	srv := server.New(usecase.New(infra.New(infra.WithGitHub(mockGH))))

	request := func(path string) *httptest.ResponseRecorder {
		ctx := logging.CtxWithTime(context.Background(), func() time.Time {
			return time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
		})
		req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)
		return rec
	}

	t.Run("renders relative time from upstream timestamp", func(t *testing.T) {
		first := request("/m-mizutani/freshness")
		gt.V(t, first.Code).Equal(http.StatusOK)
		gt.V(t, first.Body.String()).Equal(`{"schemaVersion":1,"label":"⏱","labelColor":"blue","message":"3 months"}`)

		second := request("/m-mizutani/freshness")
		gt.V(t, second.Body.String()).Equal(first.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		rec := request("/owner/ghost-repo")
		gt.V(t, rec.Code).Equal(http.StatusNotFound)
		gt.V(t, decodeError(t, rec).Error).Equal(types.ErrKindNotFound)
	})

	t.Run("malformed path makes no upstream call", func(t *testing.T) {
		before := len(mockGH.GetCommunityMetricsCalls())
		rec := request("/onlyowner")
		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
		gt.V(t, len(mockGH.GetCommunityMetricsCalls())).Equal(before)
	})
}

func TestMetrics(t *testing.T) {
	mockUC := &mock.UseCaseMock{
		ResolveFreshnessFunc: func(ctx context.Context, ref model.RepositoryRef) (*model.Badge, error) {
			if ref.Owner == "missing" {
				return nil, goerr.Wrap(types.ErrNotFound, "repository not found")
			}
			return model.NewBadge("5 days"), nil
		},
	}
	registry := prometheus.NewRegistry()
	srv := server.New(mockUC, server.WithRegistry(registry))

	serve(t, srv, "/owner/name")
	serve(t, srv, "/owner/name")
	serve(t, srv, "/missing/name")
	serve(t, srv, "/onlyowner")

	rec := serve(t, srv, "/metrics")
	gt.V(t, rec.Code).Equal(http.StatusOK)

	var parser expfmt.TextParser
	families := gt.R1(parser.TextToMetricFamilies(rec.Body)).NoError(t)

	requests, ok := families["freshness_badge_requests_total"]
	gt.True(t, ok)

	counts := map[string]float64{}
	for _, m := range requests.GetMetric() {
		counts[labelValue(m, "result")] = m.GetCounter().GetValue()
	}
	gt.V(t, counts["OK"]).Equal(2.0)
	gt.V(t, counts["NotFound"]).Equal(1.0)
	gt.V(t, counts["Malformed"]).Equal(1.0)

	duration, ok := families["freshness_upstream_duration_seconds"]
	gt.True(t, ok)
	gt.V(t, duration.GetMetric()[0].GetHistogram().GetSampleCount()).Equal(uint64(3))
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}
