package notification

import "time"

type ToDo struct {
	Name          string    `gorm:"column:name;primaryKey"`
	Owner         string    `gorm:"column:owner;index;not null"`
	AssignedBy    string    `gorm:"column:assigned_by"`
	ReferenceType string    `gorm:"column:reference_type"`
	ReferenceName string    `gorm:"column:reference_name;index"`
	Description   string    `gorm:"column:description"`
	Status        string    `gorm:"column:status;default:Open"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ToDo) TableName() string {
	return "todos"
}
