package internal

import (
	"context"

	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
)

type actorKey struct{}

// ActorFromContext returns the authenticated actor set by the auth middleware.
func ActorFromContext(ctx context.Context) (*coreUser.Actor, bool) {
	if ctx == nil {
		return nil, false
	}
	actor, ok := ctx.Value(actorKey{}).(*coreUser.Actor)
	return actor, ok && actor != nil
}

func ContextWithActor(ctx context.Context, actor *coreUser.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}
