package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/custom-timesheet/internal/core/events"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
)

// ListScope narrows the approvals listing. An empty Approver lists all rows.
type ListScope struct {
	Approver string
	Status   string
}

type Repository interface {
	Create(ctx context.Context, a *Approval) error
	Exists(ctx context.Context, timesheetName, approver string) (bool, error)
	GetByName(ctx context.Context, name string) (*Approval, error)
	ListByTimesheet(ctx context.Context, timesheetName string) ([]*Approval, error)
	List(ctx context.Context, scope ListScope, limit, offset int) ([]*Approval, error)
	// Decide updates the given row, or every pending row of the timesheet when
	// name is empty.
	Decide(ctx context.Context, timesheetName, status, comments string, at time.Time) error
	// ProjectApprovers returns the raw approver list of each project.
	ProjectApprovers(ctx context.Context, projects []string) (map[string]string, error)
}

type TimesheetStore interface {
	GetByName(ctx context.Context, name string) (*timesheet.Timesheet, error)
	ApplyDecision(ctx context.Context, name string, d timesheet.Decision) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo       Repository
	timesheets TimesheetStore
	events     EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, timesheets TimesheetStore, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		timesheets: timesheets,
		events:     publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// CanApprove reports whether actor may decide on ts: privileged actors, the
// assigned approver, an actor holding an approval row, or anyone listed as
// approver on one of its projects.
func (s *Service) CanApprove(ctx context.Context, actor *coreUser.Actor, ts *timesheet.Timesheet) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if actor.IsPrivileged() {
		return true, nil
	}
	if ts.Approver != "" && (ts.Approver == actor.ID || ts.Approver == actor.Employee) {
		return true, nil
	}

	approvals, err := s.repo.ListByTimesheet(ctx, ts.Name)
	if err != nil {
		return false, fmt.Errorf("list approvals: %w", err)
	}
	for _, a := range approvals {
		if a.Approver == actor.ID {
			return true, nil
		}
	}
	return s.isProjectApprover(ctx, actor, ts.Projects())
}

func (s *Service) canApproveRow(ctx context.Context, actor *coreUser.Actor, a *Approval) (bool, error) {
	if actor.IsPrivileged() || a.Approver == actor.ID {
		return true, nil
	}
	if a.Project == "" {
		return false, nil
	}
	return s.isProjectApprover(ctx, actor, []string{a.Project})
}

func (s *Service) isProjectApprover(ctx context.Context, actor *coreUser.Actor, projects []string) (bool, error) {
	if len(projects) == 0 {
		return false, nil
	}
	approvers, err := s.repo.ProjectApprovers(ctx, projects)
	if err != nil {
		return false, fmt.Errorf("load project approvers: %w", err)
	}
	for _, raw := range approvers {
		if containsApprover(raw, actor.ID) {
			return true, nil
		}
	}
	return false, nil
}

// View returns the approval state of a timesheet and the actions open to actor.
func (s *Service) View(ctx context.Context, actor *coreUser.Actor, name string) (*ApprovalView, error) {
	ts, err := s.loadTimesheet(ctx, name)
	if err != nil {
		return nil, err
	}
	canApprove, err := s.CanApprove(ctx, actor, ts)
	if err != nil {
		s.logger.Error("failed to check approver", "error", err, "timesheet", name)
		return nil, err
	}
	if !canApprove && !timesheet.CanRead(actor, ts) {
		return nil, timesheet.ErrUnauthorized
	}

	approvals, err := s.repo.ListByTimesheet(ctx, name)
	if err != nil {
		s.logger.Error("failed to list approvals", "error", err, "timesheet", name)
		return nil, err
	}

	view := &ApprovalView{
		Timesheet:      ts.Name,
		Status:         ts.Status,
		DocStatus:      ts.DocStatus,
		ApprovalStatus: ts.ApprovalStatus,
		CanApprove:     canApprove,
		Actions:        []Action{},
		Approvals:      approvals,
	}
	if canApprove && ts.IsPendingApproval() {
		view.Actions = []Action{ActionApprove, ActionReject}
	}
	return view, nil
}

func (s *Service) Approve(ctx context.Context, actor *coreUser.Actor, name, comments string) (*timesheet.Timesheet, error) {
	return s.Decide(ctx, actor, name, DecisionDTO{Action: ActionApprove, Comments: comments})
}

func (s *Service) Reject(ctx context.Context, actor *coreUser.Actor, name, comments string) (*timesheet.Timesheet, error) {
	return s.Decide(ctx, actor, name, DecisionDTO{Action: ActionReject, Comments: comments})
}

// Decide applies an approve or reject decision to a pending timesheet and
// closes its pending approval rows.
func (s *Service) Decide(ctx context.Context, actor *coreUser.Actor, name string, dto DecisionDTO) (*timesheet.Timesheet, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ts, err := s.loadTimesheet(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ts.IsPendingApproval() {
		return nil, ErrNotPending
	}
	canApprove, err := s.CanApprove(ctx, actor, ts)
	if err != nil {
		s.logger.Error("failed to check approver", "error", err, "timesheet", name)
		return nil, err
	}
	if !canApprove {
		s.logger.Warn("approval refused", "timesheet", name, "actor", actor.ID)
		return nil, ErrNotApprover
	}

	if err := s.apply(ctx, actor, ts, dto.Action, dto.Comments); err != nil {
		return nil, err
	}
	return s.loadTimesheet(ctx, name)
}

// apply records the decision on the timesheet, closes its pending approval
// rows and publishes the outcome.
func (s *Service) apply(ctx context.Context, actor *coreUser.Actor, ts *timesheet.Timesheet, action Action, comments string) error {
	decision := timesheet.Decision{
		Status:         timesheet.StatusApproved,
		ApprovalStatus: timesheet.ApprovalApproved,
		ApprovedBy:     actor.ID,
		Comments:       comments,
		DecidedAt:      s.now(),
	}
	if action == ActionReject {
		decision.Status = timesheet.StatusRejected
		decision.ApprovalStatus = timesheet.ApprovalRejected
	}

	if err := s.repo.Decide(ctx, ts.Name, decision.ApprovalStatus, comments, decision.DecidedAt); err != nil {
		s.logger.Error("failed to update approval rows", "error", err, "timesheet", ts.Name)
		return fmt.Errorf("update approvals: %w", err)
	}
	if err := s.timesheets.ApplyDecision(ctx, ts.Name, decision); err != nil {
		s.logger.Error("failed to apply decision", "error", err, "timesheet", ts.Name)
		return fmt.Errorf("apply decision: %w", err)
	}

	s.logger.Info("timesheet decided",
		"timesheet", ts.Name,
		"decision", decision.ApprovalStatus,
		"actor", actor.ID)

	if s.events != nil {
		var event events.Event
		if action == ActionReject {
			event = events.NewTimesheetRejectedEvent(ts.Name, ts.Employee, ts.Owner, actor.ID, comments)
		} else {
			event = events.NewTimesheetApprovedEvent(ts.Name, ts.Employee, ts.Owner, actor.ID, comments)
		}
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish decision event", "error", err, "timesheet", ts.Name)
		}
	}
	return nil
}

func (s *Service) BulkApprove(ctx context.Context, actor *coreUser.Actor, dto BulkApproveDTO) (*BulkResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return &BulkResult{Approved: s.bulk(ctx, actor, dto.Approvals, ActionApprove, "")}, nil
}

func (s *Service) BulkReject(ctx context.Context, actor *coreUser.Actor, dto BulkRejectDTO) (*BulkResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return &BulkResult{Rejected: s.bulk(ctx, actor, dto.Approvals, ActionReject, dto.Comments)}, nil
}

// bulk decides each approval row independently; failures are logged and
// skipped.
func (s *Service) bulk(ctx context.Context, actor *coreUser.Actor, names []string, action Action, comments string) int {
	count := 0
	for _, name := range names {
		if err := s.decideRow(ctx, actor, name, action, comments); err != nil {
			s.logger.Warn("bulk decision skipped", "error", err, "approval", name, "action", action, "actor", actor.ID)
			continue
		}
		count++
	}
	s.logger.Info("bulk decision finished", "action", action, "requested", len(names), "decided", count)
	return count
}

func (s *Service) decideRow(ctx context.Context, actor *coreUser.Actor, name string, action Action, comments string) error {
	a, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return ErrApprovalNotFound
	}
	if !a.IsPending() {
		return ErrNotPending
	}
	ok, err := s.canApproveRow(ctx, actor, a)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotApprover
	}
	ts, err := s.loadTimesheet(ctx, a.Timesheet)
	if err != nil {
		return err
	}
	if !ts.IsPendingApproval() {
		return ErrNotPending
	}
	return s.apply(ctx, actor, ts, action, comments)
}

// CreateApprovalsForTimesheet opens one pending row per approver of every
// project the timesheet references, skipping rows that already exist. It
// returns every approver of the timesheet.
func (s *Service) CreateApprovalsForTimesheet(ctx context.Context, name string) ([]string, error) {
	ts, err := s.loadTimesheet(ctx, name)
	if err != nil {
		return nil, err
	}
	projects := ts.Projects()
	if len(projects) == 0 {
		return nil, nil
	}
	approvers, err := s.repo.ProjectApprovers(ctx, projects)
	if err != nil {
		return nil, fmt.Errorf("load project approvers: %w", err)
	}

	timesheetDate := ts.CreatedAt
	if timesheetDate.IsZero() {
		timesheetDate = s.now()
	}
	timesheetDate = time.Date(timesheetDate.Year(), timesheetDate.Month(), timesheetDate.Day(), 0, 0, 0, 0, timesheetDate.Location())

	seen := make(map[string]bool)
	var all []string
	created := 0
	for _, project := range projects {
		for _, approver := range SplitApprovers(approvers[project]) {
			if seen[approver] {
				continue
			}
			seen[approver] = true
			all = append(all, approver)

			exists, err := s.repo.Exists(ctx, ts.Name, approver)
			if err != nil {
				return nil, fmt.Errorf("check approval: %w", err)
			}
			if exists {
				continue
			}
			err = s.repo.Create(ctx, &Approval{
				Name:           uuid.New().String(),
				Timesheet:      ts.Name,
				Employee:       ts.Employee,
				Project:        project,
				Approver:       approver,
				ApprovalStatus: timesheet.ApprovalPending,
				TotalHours:     ts.TotalHours,
				TimesheetDate:  &timesheetDate,
				CreatedAt:      s.now(),
			})
			if err != nil {
				s.logger.Error("failed to create approval", "error", err, "timesheet", ts.Name, "approver", approver)
				return nil, fmt.Errorf("create approval: %w", err)
			}
			created++
		}
	}

	s.logger.Info("approvals opened", "timesheet", ts.Name, "approvers", len(all), "created", created)
	return all, nil
}

// List returns approval rows; only Administrator sees other approvers' rows.
func (s *Service) List(ctx context.Context, actor *coreUser.Actor, status string, limit, offset int) ([]*Approval, error) {
	scope := ListScope{Status: status}
	if !actor.IsAdministrator() {
		scope.Approver = actor.ID
	}
	approvals, err := s.repo.List(ctx, scope, limit, offset)
	if err != nil {
		s.logger.Error("failed to list approvals", "error", err, "actor", actor.ID)
		return nil, err
	}
	return approvals, nil
}

func (s *Service) loadTimesheet(ctx context.Context, name string) (*timesheet.Timesheet, error) {
	ts, err := s.timesheets.GetByName(ctx, name)
	if err != nil {
		s.logger.Error("failed to get timesheet", "error", err, "timesheet", name)
		return nil, timesheet.ErrTimesheetNotFound
	}
	return ts, nil
}
