package file

import "time"

type File struct {
	Name              string    `gorm:"column:name;primaryKey"`
	FileName          string    `gorm:"column:file_name;not null"`
	FileURL           string    `gorm:"column:file_url;not null"`
	FileSize          int64     `gorm:"column:file_size;default:0"`
	IsPrivate         bool      `gorm:"column:is_private;default:false"`
	AttachedToDoctype string    `gorm:"column:attached_to_doctype;index:idx_files_attached"`
	AttachedToName    string    `gorm:"column:attached_to_name;index:idx_files_attached"`
	Owner             string    `gorm:"column:owner"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (File) TableName() string {
	return "files"
}
