package approval

import (
	"context"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

// ReadGuard shows approval rows to their approver. Only Administrator sees
// every row.
func ReadGuard(ctx context.Context, rec docservice.Record) bool {
	actor, ok := errors.ActorFromContext(ctx)
	if !ok {
		return false
	}
	return actor.IsAdministrator() || rec.String("approver") == actor.ID
}
