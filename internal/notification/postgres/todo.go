package postgres

import (
	"context"

	"gorm.io/gorm"

	notificationDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/notification"
	"github.com/frahmantamala/custom-timesheet/internal/notification"
)

type ToDoRepository struct {
	db *gorm.DB
}

func NewToDoRepository(db *gorm.DB) *ToDoRepository {
	return &ToDoRepository{db: db}
}

func (r *ToDoRepository) Create(ctx context.Context, todo *notification.ToDo) error {
	return r.db.WithContext(ctx).Create(notification.ToDataModel(todo)).Error
}

func (r *ToDoRepository) CloseOpen(ctx context.Context, referenceType, referenceName string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationDatamodel.ToDo{}).
		Where("reference_type = ? AND reference_name = ? AND status = ?", referenceType, referenceName, notification.StatusOpen).
		Update("status", notification.StatusClosed)
	return result.RowsAffected, result.Error
}

func (r *ToDoRepository) ListByOwner(ctx context.Context, owner, status string, limit, offset int) ([]*notification.ToDo, error) {
	var models []*notificationDatamodel.ToDo
	err := r.db.WithContext(ctx).
		Where("owner = ? AND status = ?", owner, status).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	todos := make([]*notification.ToDo, 0, len(models))
	for _, m := range models {
		todos = append(todos, notification.FromDataModel(m))
	}
	return todos, nil
}

func (r *ToDoRepository) Close(ctx context.Context, name, owner string) error {
	result := r.db.WithContext(ctx).
		Model(&notificationDatamodel.ToDo{}).
		Where("name = ? AND owner = ?", name, owner).
		Update("status", notification.StatusClosed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notification.ErrToDoNotFound
	}
	return nil
}
