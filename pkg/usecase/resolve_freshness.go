package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/freshness/pkg/domain/model"
	"github.com/m-mizutani/freshness/pkg/domain/types"
	"github.com/m-mizutani/freshness/pkg/utils/logging"
	"github.com/m-mizutani/freshness/pkg/utils/reltime"
	"github.com/m-mizutani/goerr/v2"
)

// ResolveFreshness fetches the community profile of the repository and
// renders the time since its last update as a badge. Exactly one upstream
// call is made and failures are returned as is.
func (x *UseCase) ResolveFreshness(ctx context.Context, ref model.RepositoryRef) (*model.Badge, error) {
	gh := x.clients.GitHub()
	if gh == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "GitHub client is not configured")
	}

	metrics, err := gh.GetCommunityMetrics(ctx, ref)
	if err != nil {
		return nil, err
	}

	if metrics == nil || metrics.UpdatedAt == nil {
		return nil, goerr.Wrap(types.ErrMissingTimestamp, "community profile has no updated_at", goerr.V("repo", ref.String()))
	}

	now := logging.CtxTime(ctx)
	message := reltime.Since(*metrics.UpdatedAt, now)

	logging.From(ctx).Debug("freshness resolved",
		slog.Any("repo", ref),
		slog.Int("health_percentage", metrics.HealthPercentage),
		slog.Any("files", metrics.Files),
		slog.String("message", message),
	)

	return model.NewBadge(message), nil
}
