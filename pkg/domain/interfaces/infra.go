package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . GitHub

import (
	"context"

	"github.com/m-mizutani/freshness/pkg/domain/model"
)

type GitHub interface {
	// GetCommunityMetrics retrieves the community profile metrics of the repository. Failures are wrapped with one of types.ErrNotFound, types.ErrUpstreamAuthFailed, types.ErrRateLimited or types.ErrUpstreamUnavailable.
	GetCommunityMetrics(ctx context.Context, ref model.RepositoryRef) (*model.CommunityMetrics, error)
}
