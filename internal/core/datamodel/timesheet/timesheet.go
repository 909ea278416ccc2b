package timesheet

import "time"

type CustomTimesheet struct {
	Name             string     `gorm:"column:name;primaryKey"`
	Employee         string     `gorm:"column:employee;index"`
	Owner            string     `gorm:"column:owner;not null"`
	Approver         string     `gorm:"column:approver;index"`
	Status           string     `gorm:"column:status;default:Draft"`
	DocStatus        int        `gorm:"column:docstatus;default:0"`
	ApprovalStatus   string     `gorm:"column:approval_status"`
	ApprovedBy       string     `gorm:"column:approved_by"`
	ApprovalDate     *time.Time `gorm:"column:approval_date"`
	ApprovalComments string     `gorm:"column:approval_comments"`
	TotalHours       float64    `gorm:"column:total_hours;default:0"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	TimeLogs []TimesheetDetail `gorm:"foreignKey:Parent;references:Name"`
}

func (CustomTimesheet) TableName() string {
	return "custom_timesheets"
}

type TimesheetDetail struct {
	ID            int64      `gorm:"primaryKey"`
	Parent        string     `gorm:"column:parent;index;not null"`
	Idx           int        `gorm:"column:idx;not null"`
	Project       string     `gorm:"column:project"`
	Task          string     `gorm:"column:task"`
	StartDateTime *time.Time `gorm:"column:start_date_time"`
	EndDateTime   *time.Time `gorm:"column:end_date_time"`
	TakenHours    float64    `gorm:"column:taken_hours;default:0"`
}

func (TimesheetDetail) TableName() string {
	return "custom_timesheet_details"
}

type TimesheetApproval struct {
	Name             string     `gorm:"column:name;primaryKey"`
	Timesheet        string     `gorm:"column:timesheet;index;not null"`
	Employee         string     `gorm:"column:employee"`
	Project          string     `gorm:"column:project"`
	Approver         string     `gorm:"column:approver;index;not null"`
	ApprovalStatus   string     `gorm:"column:approval_status;default:Pending"`
	ApprovalDate     *time.Time `gorm:"column:approval_date"`
	ApprovalComments string     `gorm:"column:approval_comments"`
	TotalHours       float64    `gorm:"column:total_hours;default:0"`
	TimesheetDate    *time.Time `gorm:"column:timesheet_date"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (TimesheetApproval) TableName() string {
	return "timesheet_approvals"
}
