package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"machinery-maintenance-backend/internal/model"
	"machinery-maintenance-backend/internal/schedule"
)

// Store defines the interface for all database operations. Every operation
// takes the acting user's id explicitly; rows belonging to other users are
// reported as absent, never as forbidden.
type Store interface {
	DB() *gorm.DB

	CreateMachine(ctx context.Context, userID int64, m *model.Machine, intervalDays int, now time.Time) error
	ListMachines(ctx context.Context, userID int64) ([]model.Machine, error)
	GetMachine(ctx context.Context, userID, id int64) (*model.Machine, error)
	UpdateMachine(ctx context.Context, userID, id int64, upd MachineUpdate) error
	DeleteMachine(ctx context.Context, userID, id int64) error

	UpsertSchedule(ctx context.Context, userID, machineID int64, intervalDays int, lastDate, nextDate *time.Time) error
	GetSchedule(ctx context.Context, userID, machineID int64) (*model.MaintenanceSchedule, error)
	SchedulesByMachineIDs(ctx context.Context, machineIDs []int64) (map[int64]model.MaintenanceSchedule, error)

	CreateHistory(ctx context.Context, userID int64, h *model.MaintenanceHistory, files []model.MaintenanceFile) error
	ListHistory(ctx context.Context, userID, machineID int64) ([]model.MaintenanceHistory, error)
	DeleteHistory(ctx context.Context, userID, historyID int64) error

	ListAlerts(ctx context.Context, userID int64) ([]model.Alert, error)
	MarkAlertRead(ctx context.Context, userID, alertID int64) error
	CreateOverdueAlertIfAbsent(ctx context.Context, machineID int64, message string) (bool, error)
	CountUnreadAlerts(ctx context.Context, userID int64) (int64, error)
}

// MachineUpdate carries the optional fields of a machine update. Nil fields
// are left untouched.
type MachineUpdate struct {
	Code        *string
	Name        *string
	Location    *string
	Description *string
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for collaborators that manage their
// own queries (push subscription handlers, the alert push worker).
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// CreateMachine inserts a machine and, when a positive interval is supplied,
// bootstraps its schedule in the same transaction with lastDate=now and
// nextDate=now+interval.
func (s *gormStore) CreateMachine(ctx context.Context, userID int64, m *model.Machine, intervalDays int, now time.Time) error {
	m.UserID = userID
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create machine: %w", err)
		}
		if intervalDays > 0 {
			next := schedule.Next(now, intervalDays)
			sched := model.MaintenanceSchedule{
				MachineID:           m.ID,
				IntervalDays:        intervalDays,
				LastMaintenanceDate: &now,
				NextMaintenanceDate: &next,
			}
			if err := tx.Create(&sched).Error; err != nil {
				return fmt.Errorf("failed to create schedule for machine %d: %w", m.ID, err)
			}
		}
		return nil
	})
}

func (s *gormStore) ListMachines(ctx context.Context, userID int64) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}

func (s *gormStore) GetMachine(ctx context.Context, userID, id int64) (*model.Machine, error) {
	var m model.Machine
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) UpdateMachine(ctx context.Context, userID, id int64, upd MachineUpdate) error {
	updates := map[string]any{}
	if upd.Code != nil {
		updates["code"] = *upd.Code
	}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Location != nil {
		updates["location"] = *upd.Location
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&model.Machine{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update machine %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteMachine removes a machine together with its schedule, history,
// history files, alerts and subscription mappings in one transaction.
func (s *gormStore) DeleteMachine(ctx context.Context, userID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Machine
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
			return err
		}

		historyIDs := tx.Model(&model.MaintenanceHistory{}).Select("id").Where("machine_id = ?", id)
		if err := tx.Where("maintenance_history_id IN (?)", historyIDs).Delete(&model.MaintenanceFile{}).Error; err != nil {
			return fmt.Errorf("failed to delete files for machine %d: %w", id, err)
		}
		if err := tx.Where("machine_id = ?", id).Delete(&model.MaintenanceHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete history for machine %d: %w", id, err)
		}
		if err := tx.Where("machine_id = ?", id).Delete(&model.MaintenanceSchedule{}).Error; err != nil {
			return fmt.Errorf("failed to delete schedule for machine %d: %w", id, err)
		}
		if err := tx.Where("machine_id = ?", id).Delete(&model.Alert{}).Error; err != nil {
			return fmt.Errorf("failed to delete alerts for machine %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM subscription_machine_mapping WHERE machine_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete subscription mappings for machine %d: %w", id, err)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return fmt.Errorf("failed to delete machine %d: %w", id, err)
		}
		return nil
	})
}

// UpsertSchedule creates or replaces the schedule row keyed by machine_id.
// Editing the interval alone deliberately leaves the computed dates as the
// caller supplied them; no recomputation happens here.
func (s *gormStore) UpsertSchedule(ctx context.Context, userID, machineID int64, intervalDays int, lastDate, nextDate *time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Machine
		if err := tx.Where("id = ? AND user_id = ?", machineID, userID).First(&m).Error; err != nil {
			return err
		}

		sched := model.MaintenanceSchedule{
			MachineID:           machineID,
			IntervalDays:        intervalDays,
			LastMaintenanceDate: lastDate,
			NextMaintenanceDate: nextDate,
		}
		// Dates not supplied by the caller stay as they are; editing the
		// interval alone never recomputes or clears them.
		assign := []string{"interval_days", "updated_at"}
		if lastDate != nil {
			assign = append(assign, "last_maintenance_date")
		}
		if nextDate != nil {
			assign = append(assign, "next_maintenance_date")
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "machine_id"}},
			DoUpdates: clause.AssignmentColumns(assign),
		}).Create(&sched).Error; err != nil {
			return fmt.Errorf("failed to upsert schedule for machine %d: %w", machineID, err)
		}
		return nil
	})
}

func (s *gormStore) GetSchedule(ctx context.Context, userID, machineID int64) (*model.MaintenanceSchedule, error) {
	if _, err := s.GetMachine(ctx, userID, machineID); err != nil {
		return nil, err
	}
	var sched model.MaintenanceSchedule
	if err := s.db.WithContext(ctx).Where("machine_id = ?", machineID).First(&sched).Error; err != nil {
		return nil, err
	}
	return &sched, nil
}

// SchedulesByMachineIDs batch-fetches schedules and returns them keyed by
// machine id. Machines without a schedule are simply absent from the map.
func (s *gormStore) SchedulesByMachineIDs(ctx context.Context, machineIDs []int64) (map[int64]model.MaintenanceSchedule, error) {
	schedMap := make(map[int64]model.MaintenanceSchedule, len(machineIDs))
	if len(machineIDs) == 0 {
		return schedMap, nil
	}
	var scheds []model.MaintenanceSchedule
	if err := s.db.WithContext(ctx).Where("machine_id IN ?", machineIDs).Find(&scheds).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", err)
	}
	for _, sc := range scheds {
		schedMap[sc.MachineID] = sc
	}
	return schedMap, nil
}
