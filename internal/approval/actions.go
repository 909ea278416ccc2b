package approval

import (
	"context"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

// RegisterActions exposes the workflow as named document-service actions.
func (s *Service) RegisterActions(actions *docservice.Actions) {
	actions.Register(ActionApproveTimesheet, s.withActor(func(ctx context.Context, actor *coreUser.Actor, args docservice.Record) (any, error) {
		ts, err := s.Approve(ctx, actor, args.String("timesheet_name"), args.String("comments"))
		if err != nil {
			return nil, err
		}
		return ts, nil
	}))

	actions.Register(ActionRejectTimesheet, s.withActor(func(ctx context.Context, actor *coreUser.Actor, args docservice.Record) (any, error) {
		ts, err := s.Reject(ctx, actor, args.String("timesheet_name"), args.String("comments"))
		if err != nil {
			return nil, err
		}
		return ts, nil
	}))

	actions.Register(ActionBulkApprove, s.withActor(func(ctx context.Context, actor *coreUser.Actor, args docservice.Record) (any, error) {
		return s.BulkApprove(ctx, actor, BulkApproveDTO{Approvals: args.Strings("approvals")})
	}))

	actions.Register(ActionBulkReject, s.withActor(func(ctx context.Context, actor *coreUser.Actor, args docservice.Record) (any, error) {
		return s.BulkReject(ctx, actor, BulkRejectDTO{Approvals: args.Strings("approvals"), Comments: args.String("comments")})
	}))

	actions.Register(ActionCreateForTimesheet, s.withActor(func(ctx context.Context, _ *coreUser.Actor, args docservice.Record) (any, error) {
		approvers, err := s.CreateApprovalsForTimesheet(ctx, args.String("timesheet_name"))
		if err != nil {
			return map[string]any{"status": "error", "message": err.Error()}, nil
		}
		return map[string]any{"status": "success", "approvers": approvers}, nil
	}))

	actions.Register(ActionCanUserApprove, s.withActor(func(ctx context.Context, actor *coreUser.Actor, args docservice.Record) (any, error) {
		if name := args.String("approval"); name != "" {
			a, err := s.repo.GetByName(ctx, name)
			if err != nil {
				return nil, ErrApprovalNotFound
			}
			ok, err := s.canApproveRow(ctx, actor, a)
			if err != nil {
				return nil, err
			}
			return map[string]bool{"can_approve": ok}, nil
		}

		ts, err := s.loadTimesheet(ctx, args.String("timesheet_name"))
		if err != nil {
			return nil, err
		}
		ok, err := s.CanApprove(ctx, actor, ts)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"can_approve": ok}, nil
	}))
}

func (s *Service) withActor(fn func(ctx context.Context, actor *coreUser.Actor, args docservice.Record) (any, error)) docservice.ActionFunc {
	return func(ctx context.Context, args docservice.Record) (any, error) {
		actor, ok := errors.ActorFromContext(ctx)
		if !ok {
			return nil, ErrUnauthenticated
		}
		return fn(ctx, actor, args)
	}
}
