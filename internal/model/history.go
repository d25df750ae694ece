package model

import "time"

// MaintenanceHistory is one logged maintenance event. Records are immutable
// after creation; they can only be deleted, which also removes their files.
type MaintenanceHistory struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	MachineID       int64     `gorm:"index;not null" json:"machine_id"`
	MaintenanceDate time.Time `gorm:"not null" json:"maintenance_date"`
	MaintenanceType string    `gorm:"size:100;not null" json:"maintenance_type"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	TechnicianName  string    `gorm:"size:255" json:"technician_name,omitempty"`
	UserID          int64     `gorm:"index;not null" json:"-"`
	CreatedAt       time.Time `json:"created_at"`

	// Associations
	Files []MaintenanceFile `gorm:"foreignKey:MaintenanceHistoryID" json:"files"`
}

// MaintenanceFile is the stored metadata of a blob previously uploaded to
// object storage and attached to a history record at creation time.
type MaintenanceFile struct {
	ID                   int64     `gorm:"primaryKey" json:"id"`
	MaintenanceHistoryID int64     `gorm:"index;not null" json:"maintenance_history_id"`
	FileKey              string    `gorm:"size:500;not null" json:"file_key"`
	FileURL              string    `gorm:"size:1000;not null" json:"file_url"`
	FileName             string    `gorm:"size:255;not null" json:"file_name"`
	MimeType             string    `gorm:"size:100" json:"mime_type,omitempty"`
	FileSize             int64     `json:"file_size,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}
