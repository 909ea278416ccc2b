package approval

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/custom-timesheet/internal/docservice"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
)

// Future is the result of an asynchronous check, resolved exactly once.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the future resolves.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}

// Wait is Result bounded by ctx.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Workflow is the approver's side of a timesheet, driven through a
// document-service client.
type Workflow struct {
	client docservice.Client
	logger *slog.Logger
}

func NewWorkflow(client docservice.Client, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{client: client, logger: logger}
}

// IsApprover reports whether the current actor is listed as approver on any
// project referenced by entries.
func (w *Workflow) IsApprover(ctx context.Context, entries []timesheet.Entry) (bool, error) {
	projects := timesheet.DistinctProjects(entries)
	if len(projects) == 0 {
		return false, nil
	}

	records, err := w.client.List(ctx, docservice.DoctypeProject, docservice.ListQuery{
		Filters: []docservice.Filter{docservice.In("name", projects)},
		Fields:  []string{"name", "approver"},
	})
	if err != nil {
		w.logger.Warn("failed to load project approvers", "error", err, "projects", projects)
		return false, err
	}
	identity, err := w.client.CurrentActor(ctx)
	if err != nil {
		return false, err
	}

	for _, rec := range records {
		if containsApprover(rec.String("approver"), identity) {
			return true, nil
		}
	}
	return false, nil
}

// CheckEligibility runs IsApprover in the background and returns at once.
func (w *Workflow) CheckEligibility(ctx context.Context, entries []timesheet.Entry) *Future[bool] {
	entries = append([]timesheet.Entry(nil), entries...)
	return newFuture(ctx, func(ctx context.Context) (bool, error) {
		return w.IsApprover(ctx, entries)
	})
}

// Actions resolves to Approve and Reject once the record is submitted,
// pending approval and the actor turns out to be an approver; otherwise to
// no actions.
func (w *Workflow) Actions(ctx context.Context, ts *timesheet.Timesheet) *Future[[]Action] {
	if ts == nil || !ts.IsPendingApproval() {
		return newFuture(ctx, func(context.Context) ([]Action, error) { return nil, nil })
	}
	eligibility := w.CheckEligibility(ctx, ts.TimeLogs)
	return newFuture(ctx, func(ctx context.Context) ([]Action, error) {
		ok, err := eligibility.Wait(ctx)
		if err != nil || !ok {
			return nil, err
		}
		return []Action{ActionApprove, ActionReject}, nil
	})
}

// OpenDialog starts a decision dialog for the named timesheet.
func (w *Workflow) OpenDialog(action Action, timesheetName string) *Dialog {
	return &Dialog{workflow: w, action: action, timesheet: timesheetName, state: DialogOpen}
}
