package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	FullName     string    `gorm:"column:full_name;not null"`
	Employee     string    `gorm:"column:employee"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserRole struct {
	ID     int64  `gorm:"primaryKey"`
	UserID int64  `gorm:"column:user_id;not null;index"`
	Role   string `gorm:"column:role;not null"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
