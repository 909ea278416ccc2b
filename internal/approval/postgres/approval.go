package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/custom-timesheet/internal/approval"
	projectDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/project"
	timesheetDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
)

type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) Create(ctx context.Context, a *approval.Approval) error {
	return r.db.WithContext(ctx).Create(approval.ToDataModel(a)).Error
}

func (r *ApprovalRepository) Exists(ctx context.Context, timesheetName, approver string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&timesheetDatamodel.TimesheetApproval{}).
		Where("timesheet = ? AND approver = ?", timesheetName, approver).
		Count(&count).Error
	return count > 0, err
}

func (r *ApprovalRepository) GetByName(ctx context.Context, name string) (*approval.Approval, error) {
	var model timesheetDatamodel.TimesheetApproval
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrApprovalNotFound
		}
		return nil, err
	}
	return approval.FromDataModel(&model), nil
}

func (r *ApprovalRepository) ListByTimesheet(ctx context.Context, timesheetName string) ([]*approval.Approval, error) {
	var models []*timesheetDatamodel.TimesheetApproval
	err := r.db.WithContext(ctx).
		Where("timesheet = ?", timesheetName).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return approval.FromDataModelSlice(models), nil
}

func (r *ApprovalRepository) List(ctx context.Context, scope approval.ListScope, limit, offset int) ([]*approval.Approval, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if scope.Approver != "" {
		query = query.Where("approver = ?", scope.Approver)
	}
	if scope.Status != "" {
		query = query.Where("approval_status = ?", scope.Status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var models []*timesheetDatamodel.TimesheetApproval
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return approval.FromDataModelSlice(models), nil
}

// Decide closes every pending approval row of a timesheet.
func (r *ApprovalRepository) Decide(ctx context.Context, timesheetName, status, comments string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&timesheetDatamodel.TimesheetApproval{}).
		Where("timesheet = ? AND approval_status = ?", timesheetName, timesheet.ApprovalPending).
		Updates(map[string]interface{}{
			"approval_status":   status,
			"approval_comments": comments,
			"approval_date":     &at,
		}).Error
}

func (r *ApprovalRepository) ProjectApprovers(ctx context.Context, projects []string) (map[string]string, error) {
	var models []projectDatamodel.Project
	err := r.db.WithContext(ctx).
		Select("name", "approver").
		Where("name IN ?", projects).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(models))
	for _, p := range models {
		out[p.Name] = p.Approver
	}
	return out, nil
}
