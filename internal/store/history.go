package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"machinery-maintenance-backend/internal/model"
	"machinery-maintenance-backend/internal/schedule"
)

// CreateHistory inserts a history record with its attached files and, when a
// schedule exists for the machine, recomputes it from the event date. All of
// it runs in one transaction; this is the only automatic schedule mutation.
func (s *gormStore) CreateHistory(ctx context.Context, userID int64, h *model.MaintenanceHistory, files []model.MaintenanceFile) error {
	h.UserID = userID
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Machine
		if err := tx.Where("id = ? AND user_id = ?", h.MachineID, userID).First(&m).Error; err != nil {
			return err
		}

		if err := tx.Create(h).Error; err != nil {
			return fmt.Errorf("failed to create history record: %w", err)
		}

		for i := range files {
			files[i].MaintenanceHistoryID = h.ID
		}
		if len(files) > 0 {
			if err := tx.Create(&files).Error; err != nil {
				return fmt.Errorf("failed to attach files to history %d: %w", h.ID, err)
			}
			h.Files = files
		}

		var sched model.MaintenanceSchedule
		err := tx.Where("machine_id = ?", h.MachineID).First(&sched).Error
		if err == gorm.ErrRecordNotFound {
			return nil // No schedule to recompute.
		}
		if err != nil {
			return fmt.Errorf("failed to fetch schedule for machine %d: %w", h.MachineID, err)
		}

		next := schedule.Next(h.MaintenanceDate, sched.IntervalDays)
		updates := map[string]any{
			"last_maintenance_date": h.MaintenanceDate,
			"next_maintenance_date": next,
		}
		if err := tx.Model(&sched).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to recompute schedule for machine %d: %w", h.MachineID, err)
		}
		return nil
	})
}

// ListHistory returns a machine's history records, newest first, each with
// its attached files preloaded.
func (s *gormStore) ListHistory(ctx context.Context, userID, machineID int64) ([]model.MaintenanceHistory, error) {
	if _, err := s.GetMachine(ctx, userID, machineID); err != nil {
		return nil, err
	}
	var records []model.MaintenanceHistory
	if err := s.db.WithContext(ctx).Preload("Files").
		Where("machine_id = ?", machineID).
		Order("maintenance_date DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list history for machine %d: %w", machineID, err)
	}
	return records, nil
}

// DeleteHistory removes one history record and its files in one transaction.
func (s *gormStore) DeleteHistory(ctx context.Context, userID, historyID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h model.MaintenanceHistory
		if err := tx.Where("id = ? AND user_id = ?", historyID, userID).First(&h).Error; err != nil {
			return err
		}
		if err := tx.Where("maintenance_history_id = ?", historyID).Delete(&model.MaintenanceFile{}).Error; err != nil {
			return fmt.Errorf("failed to delete files for history %d: %w", historyID, err)
		}
		if err := tx.Delete(&h).Error; err != nil {
			return fmt.Errorf("failed to delete history %d: %w", historyID, err)
		}
		return nil
	})
}
