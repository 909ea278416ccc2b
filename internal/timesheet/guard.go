package timesheet

import (
	"context"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

// ReadGuard applies CanRead to timesheet documents served through the
// generic document service.
func ReadGuard(ctx context.Context, rec docservice.Record) bool {
	actor, ok := errors.ActorFromContext(ctx)
	if !ok {
		return false
	}
	return CanRead(actor, &Timesheet{
		Employee: rec.String("employee"),
		Approver: rec.String("approver"),
		Status:   Status(rec.String("status")),
	})
}

// DeleteGuard lets employees delete their own drafts. Once submitted, only
// privileged actors may delete a timesheet.
func DeleteGuard(ctx context.Context, rec docservice.Record) error {
	actor, ok := errors.ActorFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if actor.IsPrivileged() {
		return nil
	}
	if rec.Int("docstatus") != DocStatusDraft {
		return ErrDeleteSubmitted
	}
	if actor.Employee == "" || rec.String("employee") != actor.Employee {
		return ErrUnauthorized
	}
	return nil
}
