package project

import "time"

type Project struct {
	Name        string    `gorm:"column:name;primaryKey"`
	ProjectName string    `gorm:"column:project_name;not null"`
	Status      string    `gorm:"column:status;default:Open"`
	Owner       string    `gorm:"column:owner"`
	Approver    string    `gorm:"column:approver"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

type Task struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Project   string    `gorm:"column:project;index;not null"`
	Subject   string    `gorm:"column:subject;not null"`
	Status    string    `gorm:"column:status;default:Open"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Task) TableName() string {
	return "tasks"
}
