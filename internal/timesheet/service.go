package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/custom-timesheet/internal/core/events"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
)

// Scope restricts which timesheets a listing returns. All disables filtering.
type Scope struct {
	All      bool
	Employee string
}

type Repository interface {
	Create(ctx context.Context, ts *Timesheet) error
	Update(ctx context.Context, ts *Timesheet) error
	GetByName(ctx context.Context, name string) (*Timesheet, error)
	List(ctx context.Context, scope Scope, limit, offset int) ([]*Timesheet, error)
}

// ProjectDirectory resolves the employee who owns a project.
type ProjectDirectory interface {
	OwnerEmployee(ctx context.Context, project string) (string, error)
}

// ApprovalRequester opens approval rows for a submitted timesheet.
type ApprovalRequester interface {
	CreateApprovalsForTimesheet(ctx context.Context, name string) ([]string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	projects  ProjectDirectory
	approvals ApprovalRequester
	events    EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, projects ProjectDirectory, approvals ApprovalRequester, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		projects:  projects,
		approvals: approvals,
		events:    publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// SetApprovalRequester wires the approval service after construction; the two
// services reference each other.
func (s *Service) SetApprovalRequester(approvals ApprovalRequester) {
	s.approvals = approvals
}

func (s *Service) Check(entries []Entry) ValidationView {
	form := NewForm(entries...)
	return ValidationView{
		Valid:       form.Result().Valid,
		SaveEnabled: form.SaveEnabled(),
		Banner:      form.Banner(),
		Result:      form.Result(),
	}
}

func (s *Service) Create(ctx context.Context, actor *coreUser.Actor, dto SaveTimesheetDTO) (*SaveResult, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("timesheet payload validation failed", "error", err, "actor", actor.ID)
		return nil, err
	}

	now := s.now()
	ts := &Timesheet{
		Name:      uuid.New().String(),
		Employee:  dto.Employee,
		Owner:     actor.ID,
		Approver:  dto.Approver,
		DocStatus: DocStatusDraft,
		TimeLogs:  dto.TimeLogs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	notices, err := s.prepare(ctx, actor, ts, "", dto.Status)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, ts); err != nil {
		s.logger.Error("failed to create timesheet", "error", err, "actor", actor.ID)
		return nil, fmt.Errorf("create timesheet: %w", err)
	}

	s.logger.Info("timesheet created",
		"timesheet", ts.Name,
		"employee", ts.Employee,
		"entries", len(ts.TimeLogs),
		"total_hours", ts.TotalHours)

	if ts.Status == StatusSubmitted {
		if err := s.submit(ctx, actor, ts); err != nil {
			return nil, err
		}
	}

	return &SaveResult{Timesheet: ts, Notices: notices}, nil
}

func (s *Service) Update(ctx context.Context, actor *coreUser.Actor, name string, dto SaveTimesheetDTO) (*SaveResult, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("timesheet payload validation failed", "error", err, "timesheet", name)
		return nil, err
	}

	ts, err := s.load(ctx, actor, name)
	if err != nil {
		return nil, err
	}
	if ts.IsSubmitted() && !actor.IsPrivileged() {
		s.logger.Warn("edit of submitted timesheet denied", "timesheet", name, "actor", actor.ID)
		return nil, ErrAlreadySubmitted
	}

	current := ts.Status
	ts.TimeLogs = dto.TimeLogs
	if dto.Employee != "" {
		ts.Employee = dto.Employee
	}
	if dto.Approver != "" {
		ts.Approver = dto.Approver
	}
	ts.UpdatedAt = s.now()

	notices, err := s.prepare(ctx, actor, ts, current, dto.Status)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ts); err != nil {
		s.logger.Error("failed to update timesheet", "error", err, "timesheet", name)
		return nil, fmt.Errorf("update timesheet: %w", err)
	}

	s.logger.Info("timesheet updated", "timesheet", name, "status", ts.Status, "total_hours", ts.TotalHours)

	if ts.Status == StatusSubmitted && !ts.IsSubmitted() {
		if err := s.submit(ctx, actor, ts); err != nil {
			return nil, err
		}
	}

	return &SaveResult{Timesheet: ts, Notices: notices}, nil
}

// prepare runs the save gate and the server-side derivations shared by create
// and update.
func (s *Service) prepare(ctx context.Context, actor *coreUser.Actor, ts *Timesheet, current, requested Status) ([]Notice, error) {
	normalizeEntries(ts.TimeLogs)
	if err := NewForm(ts.TimeLogs...).BeforeSave(); err != nil {
		s.logger.Warn("timesheet rejected by validation", "error", err, "timesheet", ts.Name)
		return nil, err
	}

	var notices []Notice
	status, notice := EnforceStatus(actor, current, requested)
	if notice != nil {
		s.logger.Warn("status corrected by policy",
			"timesheet", ts.Name,
			"requested", notice.Requested,
			"applied", notice.Applied,
			"actor", actor.ID)
		notices = append(notices, *notice)
	}
	ts.Status = status

	if !actor.IsAdministrator() && actor.HasRole(coreUser.RoleEmployee) {
		if actor.Employee == "" {
			s.logger.Error("no employee linked to actor", "actor", actor.ID)
			return nil, ErrNoEmployee
		}
		ts.Employee = actor.Employee
	}

	if ts.Approver == "" && s.projects != nil {
		if projects := ts.Projects(); len(projects) > 0 {
			approver, err := s.projects.OwnerEmployee(ctx, projects[0])
			if err != nil {
				s.logger.Warn("could not resolve project owner", "error", err, "project", projects[0])
			} else {
				ts.Approver = approver
			}
		}
	}

	ts.TotalHours = ApplyHours(ts.TimeLogs)
	return notices, nil
}

func (s *Service) Submit(ctx context.Context, actor *coreUser.Actor, name string) (*Timesheet, error) {
	ts, err := s.load(ctx, actor, name)
	if err != nil {
		return nil, err
	}
	if ts.IsSubmitted() {
		return nil, ErrAlreadySubmitted
	}
	if err := NewForm(ts.TimeLogs...).BeforeSave(); err != nil {
		return nil, err
	}
	if err := s.submit(ctx, actor, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *Service) submit(ctx context.Context, actor *coreUser.Actor, ts *Timesheet) error {
	ts.Status = StatusSubmitted
	ts.DocStatus = DocStatusSubmitted
	ts.ApprovalStatus = ApprovalPending
	ts.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, ts); err != nil {
		s.logger.Error("failed to submit timesheet", "error", err, "timesheet", ts.Name)
		return fmt.Errorf("submit timesheet: %w", err)
	}

	var approvers []string
	if s.approvals != nil {
		created, err := s.approvals.CreateApprovalsForTimesheet(ctx, ts.Name)
		if err != nil {
			s.logger.Error("failed to create approvals", "error", err, "timesheet", ts.Name)
			return fmt.Errorf("create approvals: %w", err)
		}
		approvers = created
	}

	s.logger.Info("timesheet submitted", "timesheet", ts.Name, "employee", ts.Employee, "approvers", len(approvers))

	if s.events != nil {
		event := events.NewTimesheetSubmittedEvent(ts.Name, ts.Employee, ts.Owner, actor.ID, approvers)
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish submitted event", "error", err, "timesheet", ts.Name)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, actor *coreUser.Actor, name string) (*Timesheet, error) {
	return s.load(ctx, actor, name)
}

func (s *Service) List(ctx context.Context, actor *coreUser.Actor, limit, offset int) ([]*Timesheet, error) {
	scope := Scope{All: actor.IsPrivileged(), Employee: actor.Employee}
	if !scope.All && scope.Employee == "" {
		return []*Timesheet{}, nil
	}
	timesheets, err := s.repo.List(ctx, scope, limit, offset)
	if err != nil {
		s.logger.Error("failed to list timesheets", "error", err, "actor", actor.ID)
		return nil, err
	}
	return timesheets, nil
}

func (s *Service) load(ctx context.Context, actor *coreUser.Actor, name string) (*Timesheet, error) {
	ts, err := s.repo.GetByName(ctx, name)
	if err != nil {
		s.logger.Error("failed to get timesheet", "error", err, "timesheet", name)
		return nil, ErrTimesheetNotFound
	}
	if !CanRead(actor, ts) {
		s.logger.Warn("unauthorized access to timesheet", "timesheet", name, "actor", actor.ID)
		return nil, ErrUnauthorized
	}
	return ts, nil
}

// CanRead reports whether actor may see ts. Approvers only see records that
// have left Draft.
func CanRead(actor *coreUser.Actor, ts *Timesheet) bool {
	if actor.IsPrivileged() {
		return true
	}
	if actor == nil || actor.Employee == "" {
		return false
	}
	if ts.Employee == actor.Employee {
		return true
	}
	if ts.Approver == actor.Employee {
		switch ts.Status {
		case StatusSubmitted, StatusApproved, StatusRejected:
			return true
		}
	}
	return false
}
