package model

import "time"

// MaintenanceSchedule holds the recurring interval and computed dates for one
// machine. The unique index on MachineID enforces the one-to-one relationship
// even under concurrent schedule writes.
type MaintenanceSchedule struct {
	ID                  int64      `gorm:"primaryKey" json:"id"`
	MachineID           int64      `gorm:"uniqueIndex;not null" json:"machine_id"`
	IntervalDays        int        `gorm:"not null" json:"interval_days"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
