package project

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
)

type RepositoryAPI interface {
	List(ctx context.Context, includeClosed bool) ([]*Project, error)
	GetByName(ctx context.Context, name string) (*Project, error)
	Create(ctx context.Context, p *Project) error
	UpdateApprovers(ctx context.Context, name, approvers string) error
	ListTasks(ctx context.Context, project string) ([]*Task, error)
	CreateTask(ctx context.Context, t *Task) error
	// OwnerEmployee maps the project's owner identity to its employee id.
	OwnerEmployee(ctx context.Context, project string) (string, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func canManage(actor *coreUser.Actor) bool {
	return actor.IsPrivileged() || actor.HasRole(coreUser.RoleProjectsManager)
}

func (s *Service) List(ctx context.Context, includeClosed bool) ([]*Project, error) {
	projects, err := s.repo.List(ctx, includeClosed)
	if err != nil {
		s.logger.Error("failed to get projects from repository", "error", err)
		return nil, err
	}
	s.logger.Debug("retrieved projects", "count", len(projects))
	return projects, nil
}

func (s *Service) Get(ctx context.Context, name string) (*Project, error) {
	p, err := s.repo.GetByName(ctx, name)
	if err != nil {
		s.logger.Warn("project lookup failed", "error", err, "project", name)
		return nil, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, actor *coreUser.Actor, dto CreateProjectDTO) (*Project, error) {
	if !canManage(actor) {
		return nil, ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := dto.Name
	if name == "" {
		name = "PROJ-" + uuid.New().String()[:8]
	}
	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, ErrProjectExists
	}

	owner := dto.Owner
	if owner == "" {
		owner = actor.ID
	}
	p := NewProject(name, dto.ProjectName, owner)
	p.SetApprovers(dto.Approvers)

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create project", "error", err, "project", name)
		return nil, err
	}
	s.logger.Info("project created", "project", name, "owner", owner, "actor", actor.ID)
	return p, nil
}

func (s *Service) SetApprovers(ctx context.Context, actor *coreUser.Actor, name string, dto SetApproversDTO) (*Project, error) {
	if !canManage(actor) {
		return nil, ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	p.SetApprovers(dto.Approvers)
	if err := s.repo.UpdateApprovers(ctx, name, p.Approver); err != nil {
		s.logger.Error("failed to update approvers", "error", err, "project", name)
		return nil, err
	}
	s.logger.Info("project approvers updated", "project", name, "approvers", len(p.Approvers()), "actor", actor.ID)
	return p, nil
}

func (s *Service) ListTasks(ctx context.Context, name string) ([]*Task, error) {
	if _, err := s.Get(ctx, name); err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasks(ctx, name)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "project", name)
		return nil, err
	}
	return tasks, nil
}

func (s *Service) CreateTask(ctx context.Context, actor *coreUser.Actor, name string, dto CreateTaskDTO) (*Task, error) {
	if !canManage(actor) {
		return nil, ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, name); err != nil {
		return nil, err
	}

	task := &Task{
		Name:      "TASK-" + uuid.New().String()[:8],
		Project:   name,
		Subject:   dto.Subject,
		Status:    StatusOpen,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		s.logger.Error("failed to create task", "error", err, "project", name)
		return nil, err
	}
	return task, nil
}

// OwnerEmployee resolves the employee id of the project's owner, used to
// assign a default approver to new timesheets.
func (s *Service) OwnerEmployee(ctx context.Context, name string) (string, error) {
	return s.repo.OwnerEmployee(ctx, name)
}
