package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	timesheetDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
)

type TimesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

// Create stores the parent record and its rows in one transaction.
func (r *TimesheetRepository) Create(ctx context.Context, ts *timesheet.Timesheet) error {
	model := timesheet.ToDataModel(ts)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("TimeLogs").Create(model).Error; err != nil {
			return err
		}
		return insertRows(tx, model.TimeLogs)
	})
}

// Update rewrites the parent record and replaces its rows.
func (r *TimesheetRepository) Update(ctx context.Context, ts *timesheet.Timesheet) error {
	model := timesheet.ToDataModel(ts)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&timesheetDatamodel.CustomTimesheet{}).
			Where("name = ?", model.Name).
			Updates(map[string]interface{}{
				"employee":          model.Employee,
				"approver":          model.Approver,
				"status":            model.Status,
				"docstatus":         model.DocStatus,
				"approval_status":   model.ApprovalStatus,
				"approved_by":       model.ApprovedBy,
				"approval_date":     model.ApprovalDate,
				"approval_comments": model.ApprovalComments,
				"total_hours":       model.TotalHours,
				"updated_at":        model.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return timesheet.ErrTimesheetNotFound
		}
		if err := tx.Where("parent = ?", model.Name).Delete(&timesheetDatamodel.TimesheetDetail{}).Error; err != nil {
			return err
		}
		return insertRows(tx, model.TimeLogs)
	})
}

func insertRows(tx *gorm.DB, rows []timesheetDatamodel.TimesheetDetail) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func (r *TimesheetRepository) GetByName(ctx context.Context, name string) (*timesheet.Timesheet, error) {
	var model timesheetDatamodel.CustomTimesheet
	err := r.db.WithContext(ctx).
		Preload("TimeLogs", func(db *gorm.DB) *gorm.DB { return db.Order("idx ASC") }).
		Where("name = ?", name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timesheet.ErrTimesheetNotFound
		}
		return nil, err
	}
	return timesheet.FromDataModel(&model), nil
}

func (r *TimesheetRepository) List(ctx context.Context, scope timesheet.Scope, limit, offset int) ([]*timesheet.Timesheet, error) {
	query := r.db.WithContext(ctx).
		Preload("TimeLogs", func(db *gorm.DB) *gorm.DB { return db.Order("idx ASC") }).
		Order("created_at DESC")
	if !scope.All {
		query = query.Where("employee = ? OR (approver = ? AND status IN ?)",
			scope.Employee, scope.Employee,
			[]string{string(timesheet.StatusSubmitted), string(timesheet.StatusApproved), string(timesheet.StatusRejected)})
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var models []*timesheetDatamodel.CustomTimesheet
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(models), nil
}

// ApplyDecision records an approval outcome on the timesheet.
func (r *TimesheetRepository) ApplyDecision(ctx context.Context, name string, d timesheet.Decision) error {
	decidedAt := d.DecidedAt
	res := r.db.WithContext(ctx).
		Model(&timesheetDatamodel.CustomTimesheet{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"status":            string(d.Status),
			"approval_status":   d.ApprovalStatus,
			"approved_by":       d.ApprovedBy,
			"approval_date":     &decidedAt,
			"approval_comments": d.Comments,
			"updated_at":        decidedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}
