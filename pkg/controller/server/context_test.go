package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/freshness/pkg/controller/server"
	"github.com/m-mizutani/freshness/pkg/domain/mock"
	"github.com/m-mizutani/freshness/pkg/domain/model"
	"github.com/m-mizutani/freshness/pkg/domain/types"
	"github.com/m-mizutani/freshness/pkg/infra"
	"github.com/m-mizutani/freshness/pkg/usecase"
	"github.com/m-mizutani/freshness/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestDetachContext(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	ctx = logging.CtxWithRequestID(ctx, types.RequestID("req-1"))
	ctx = logging.CtxWithTime(ctx, func() time.Time { return now })

	detached := server.DetachContext(ctx)
	cancel()

	gt.V(t, ctx.Err()).Equal(context.Canceled)
	gt.V(t, detached.Err()).Equal(nil)
	gt.V(t, logging.CtxTime(detached)).Equal(now)

	reqID, _ := logging.CtxRequestID(detached)
	gt.V(t, reqID).Equal(types.RequestID("req-1"))
}

func TestBadgeRunsOnDetachedContext(t *testing.T) {
	updatedAt := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	mockGH := &mock.GitHubMock{
		GetCommunityMetricsFunc: func(ctx context.Context, ref model.RepositoryRef) (*model.CommunityMetrics, error) {
			gt.NoError(t, ctx.Err())
			return &model.CommunityMetrics{UpdatedAt: &updatedAt}, nil
		},
	}
	srv := server.New(usecase.New(infra.New(infra.WithGitHub(mockGH))))

	// client already gone when the handler runs
	ctx, cancel := context.WithCancel(context.Background())
	ctx = logging.CtxWithTime(ctx, func() time.Time { return now })
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/m-mizutani/freshness", nil).WithContext(ctx)
	req.Header.Set("X-Request-Id", "badge-req")
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	gt.V(t, rec.Code).Equal(http.StatusOK)
	gt.V(t, rec.Body.String()).Equal(`{"schemaVersion":1,"label":"⏱","labelColor":"blue","message":"5 days"}`)

	calls := mockGH.GetCommunityMetricsCalls()
	gt.A(t, calls).Length(1)
	reqID, _ := logging.CtxRequestID(calls[0].Ctx)
	gt.V(t, reqID).Equal(types.RequestID("badge-req"))
	gt.V(t, logging.CtxTime(calls[0].Ctx)).Equal(now)
}
