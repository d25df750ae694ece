// Package alerting runs the overdue classification over a user's machines,
// creates deduplicated overdue alerts, and aggregates the dashboard summary.
package alerting

import (
	"context"
	"fmt"
	"time"

	"machinery-maintenance-backend/internal/schedule"
	"machinery-maintenance-backend/internal/store"
)

// Service coordinates overdue detection and alert creation. It holds no
// state between invocations; classification is recomputed on every call.
type Service struct {
	store      store.Store
	windowDays int
	workerPool *WorkerPool // nil when push notifications are disabled
}

// NewService creates an alerting service. workerPool may be nil; alert
// creation then skips push dispatch.
func NewService(s store.Store, windowDays int, workerPool *WorkerPool) *Service {
	if windowDays <= 0 {
		windowDays = schedule.DefaultUpcomingWindowDays
	}
	return &Service{
		store:      s,
		windowDays: windowDays,
		workerPool: workerPool,
	}
}

// Stats is the dashboard summary for one user.
type Stats struct {
	TotalMachines int   `json:"total_machines"`
	OverdueCount  int   `json:"overdue_count"`
	UpcomingCount int   `json:"upcoming_count"`
	UnreadAlerts  int64 `json:"unread_alerts"`
}

// CheckOverdue classifies every machine of the user against now and ensures
// each overdue machine has exactly one unread overdue alert. Returns the
// number of alerts created by this invocation.
func (s *Service) CheckOverdue(ctx context.Context, userID int64, now time.Time) (int, error) {
	machines, err := s.store.ListMachines(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("overdue check: %w", err)
	}

	machineIDs := make([]int64, len(machines))
	for i, m := range machines {
		machineIDs[i] = m.ID
	}
	schedMap, err := s.store.SchedulesByMachineIDs(ctx, machineIDs)
	if err != nil {
		return 0, fmt.Errorf("overdue check: %w", err)
	}

	alertsCreated := 0
	for _, m := range machines {
		sched, ok := schedMap[m.ID]
		if !ok {
			continue
		}
		if schedule.Classify(sched.NextMaintenanceDate, now, s.windowDays) != schedule.StatusOverdue {
			continue
		}

		message := fmt.Sprintf("Maintenance overdue for %s (%s)", m.Name, m.Code)
		created, err := s.store.CreateOverdueAlertIfAbsent(ctx, m.ID, message)
		if err != nil {
			return alertsCreated, fmt.Errorf("overdue check: %w", err)
		}
		if created {
			alertsCreated++
			if s.workerPool != nil {
				s.workerPool.Dispatch(m.ID)
			}
		}
	}
	return alertsCreated, nil
}

// DashboardStats composes the summary counts for one user. Pure read-side;
// it never writes alerts.
func (s *Service) DashboardStats(ctx context.Context, userID int64, now time.Time) (*Stats, error) {
	machines, err := s.store.ListMachines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	machineIDs := make([]int64, len(machines))
	for i, m := range machines {
		machineIDs[i] = m.ID
	}
	schedMap, err := s.store.SchedulesByMachineIDs(ctx, machineIDs)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	stats := &Stats{TotalMachines: len(machines)}
	for _, m := range machines {
		sched, ok := schedMap[m.ID]
		if !ok {
			continue
		}
		switch schedule.Classify(sched.NextMaintenanceDate, now, s.windowDays) {
		case schedule.StatusOverdue:
			stats.OverdueCount++
		case schedule.StatusUpcoming:
			stats.UpcomingCount++
		}
	}

	unread, err := s.store.CountUnreadAlerts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	stats.UnreadAlerts = unread
	return stats, nil
}
