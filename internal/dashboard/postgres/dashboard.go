package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/custom-timesheet/internal/dashboard"
)

const totalsQuery = `
SELECT COUNT(*) AS total_timesheets,
       COALESCE(SUM(total_hours), 0) AS total_hours,
       COALESCE(SUM(CASE WHEN docstatus = 0 THEN 1 ELSE 0 END), 0) AS pending
FROM custom_timesheets
WHERE employee = $1`

const recentQuery = `
SELECT t.name,
       COALESCE(u.full_name, '') AS employee_name,
       t.total_hours,
       t.docstatus,
       (SELECT MIN(d.start_date_time) FROM custom_timesheet_details d WHERE d.parent = t.name) AS from_date,
       (SELECT MAX(d.end_date_time) FROM custom_timesheet_details d WHERE d.parent = t.name) AS to_date
FROM custom_timesheets t
LEFT JOIN users u ON u.employee = t.employee
WHERE t.employee = $1
ORDER BY t.created_at DESC
LIMIT $2`

// DashboardRepository runs read-only aggregate queries over timesheets.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Totals(ctx context.Context, employee string) (dashboard.Totals, error) {
	var totals dashboard.Totals
	if err := r.db.GetContext(ctx, &totals, totalsQuery, employee); err != nil {
		return dashboard.Totals{}, err
	}
	return totals, nil
}

func (r *DashboardRepository) Recent(ctx context.Context, employee string, limit int) ([]dashboard.RecentRow, error) {
	rows := []dashboard.RecentRow{}
	if err := r.db.SelectContext(ctx, &rows, recentQuery, employee, limit); err != nil {
		return nil, err
	}
	return rows, nil
}
