package server

import (
	"context"

	"github.com/m-mizutani/freshness/pkg/utils/logging"
)

// DetachContext returns a context that is not cancelled with the request but
// keeps its logger, request ID and time function. The upstream GitHub call
// runs on it so that a client disconnect does not abort the call midway.
func DetachContext(ctx context.Context) context.Context {
	bgCtx := logging.With(context.Background(), logging.From(ctx))
	return logging.InheritContextValues(bgCtx, ctx)
}
