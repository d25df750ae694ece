package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"machinery-maintenance-backend/internal/model"
)

// ListAlerts returns all alerts across a user's machines, newest first.
func (s *gormStore) ListAlerts(ctx context.Context, userID int64) ([]model.Alert, error) {
	var alerts []model.Alert
	if err := s.db.WithContext(ctx).
		Joins("JOIN machines ON machines.id = alerts.machine_id").
		Where("machines.user_id = ?", userID).
		Order("alerts.created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// MarkAlertRead flips an alert's read flag. This is the alert's only legal
// transition; there is no way back to unread.
func (s *gormStore) MarkAlertRead(ctx context.Context, userID, alertID int64) error {
	machineIDs := s.db.Model(&model.Machine{}).Select("id").Where("user_id = ?", userID)
	res := s.db.WithContext(ctx).Model(&model.Alert{}).
		Where("id = ? AND machine_id IN (?)", alertID, machineIDs).
		Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark alert %d read: %w", alertID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateOverdueAlertIfAbsent inserts an unread overdue alert for a machine
// unless one already exists. The existence check and the insert share a
// transaction; at read committed two overlapping checks can still both
// insert, so callers get at-least-once rather than exactly-once alerts.
// Returns whether a new alert was created.
func (s *gormStore) CreateOverdueAlertIfAbsent(ctx context.Context, machineID int64, message string) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Alert{}).
			Where("machine_id = ? AND alert_type = ? AND is_read = ?", machineID, model.AlertTypeOverdue, false).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing alerts for machine %d: %w", machineID, err)
		}
		if count > 0 {
			return nil
		}
		alert := model.Alert{
			MachineID: machineID,
			AlertType: model.AlertTypeOverdue,
			Message:   message,
		}
		if err := tx.Create(&alert).Error; err != nil {
			return fmt.Errorf("failed to create alert for machine %d: %w", machineID, err)
		}
		created = true
		return nil
	})
	return created, err
}

func (s *gormStore) CountUnreadAlerts(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Alert{}).
		Joins("JOIN machines ON machines.id = alerts.machine_id").
		Where("machines.user_id = ? AND alerts.is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread alerts: %w", err)
	}
	return count, nil
}
