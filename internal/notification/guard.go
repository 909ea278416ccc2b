package notification

import (
	"context"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

// ReadGuard limits ToDos to their owner.
func ReadGuard(ctx context.Context, rec docservice.Record) bool {
	actor, ok := errors.ActorFromContext(ctx)
	if !ok {
		return false
	}
	return actor.IsAdministrator() || rec.String("owner") == actor.ID
}
