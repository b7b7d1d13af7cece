package service

import (
	"context"

	"github.com/noah-isme/teaching-load-api/internal/models"
)

type actorKey struct{}

// WithActor attaches the authenticated caller to ctx.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller attached by WithActor.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(models.Actor)
	return actor, ok
}
