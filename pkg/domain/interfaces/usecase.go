package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

import (
	"context"

	"github.com/m-mizutani/freshness/pkg/domain/model"
)

type UseCase interface {
	ResolveFreshness(ctx context.Context, ref model.RepositoryRef) (*model.Badge, error)
}
