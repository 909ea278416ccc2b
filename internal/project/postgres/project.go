package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	projectDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/user"
	"github.com/frahmantamala/custom-timesheet/internal/project"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List(ctx context.Context, includeClosed bool) ([]*project.Project, error) {
	var models []*projectDatamodel.Project
	query := r.db.WithContext(ctx).Order("project_name ASC")
	if !includeClosed {
		query = query.Where("status = ? OR status = '' OR status IS NULL", project.StatusOpen)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	projects := make([]*project.Project, 0, len(models))
	for _, m := range models {
		projects = append(projects, project.FromDataModel(m))
	}
	return projects, nil
}

func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*project.Project, error) {
	var model projectDatamodel.Project
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, err
	}
	return project.FromDataModel(&model), nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	model := project.ToDataModel(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *ProjectRepository) UpdateApprovers(ctx context.Context, name, approvers string) error {
	result := r.db.WithContext(ctx).
		Model(&projectDatamodel.Project{}).
		Where("name = ?", name).
		Update("approver", approvers)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) ListTasks(ctx context.Context, projectName string) ([]*project.Task, error) {
	var models []*projectDatamodel.Task
	err := r.db.WithContext(ctx).
		Where("project = ?", projectName).
		Order("subject ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	tasks := make([]*project.Task, 0, len(models))
	for _, m := range models {
		tasks = append(tasks, project.TaskFromDataModel(m))
	}
	return tasks, nil
}

func (r *ProjectRepository) CreateTask(ctx context.Context, t *project.Task) error {
	return r.db.WithContext(ctx).Create(project.TaskToDataModel(t)).Error
}

// OwnerEmployee joins the project owner to the users table.
// A project whose owner has no employee record resolves to "".
func (r *ProjectRepository) OwnerEmployee(ctx context.Context, name string) (string, error) {
	p, err := r.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	if p.Owner == "" {
		return "", nil
	}

	var owner userDatamodel.User
	err = r.db.WithContext(ctx).
		Select("employee").
		Where("email = ?", p.Owner).
		First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return owner.Employee, nil
}
