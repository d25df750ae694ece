package model

import "time"

// AlertTypeOverdue is currently the only alert type the system generates.
const AlertTypeOverdue = "overdue"

// Alert is a notification tied to one machine. The only mutation after
// creation is flipping IsRead from false to true.
type Alert struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	MachineID int64     `gorm:"index;not null" json:"machine_id"`
	AlertType string    `gorm:"size:50;not null" json:"alert_type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
