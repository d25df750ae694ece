package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueCheckEndToEnd(t *testing.T) {
	router, _ := setupTestRouter(t, 1)

	// A machine whose next maintenance date is already in the past.
	w := doJSON(t, router, "POST", "/api/machines", gin.H{"code": "OV-1", "name": "Boiler"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		MachineID int64 `json:"machine_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	past := time.Now().AddDate(0, 0, -3).Format(time.RFC3339)
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/machines/%d/schedule", created.MachineID), gin.H{
		"interval_days":         30,
		"next_maintenance_date": past,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/alerts/check-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"alerts_created":1}`, w.Body.String())

	// The second invocation is a no-op while the alert is unread.
	w = doJSON(t, router, "POST", "/api/alerts/check-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"alerts_created":0}`, w.Body.String())

	w = doJSON(t, router, "GET", "/api/alerts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var alerts []struct {
		ID      int64  `json:"id"`
		Message string `json:"message"`
		IsRead  bool   `json:"is_read"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "Boiler")
	assert.False(t, alerts[0].IsRead)

	w = doJSON(t, router, "POST", fmt.Sprintf("/api/alerts/%d/read", alerts[0].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A fresh cycle after the read creates exactly one new alert.
	w = doJSON(t, router, "POST", "/api/alerts/check-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"alerts_created":1}`, w.Body.String())
}

func TestDashboardStatsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, 1)

	now := time.Now()

	addMachineWithSchedule := func(code, name string, next time.Time) {
		w := doJSON(t, router, "POST", "/api/machines", gin.H{"code": code, "name": name})
		require.Equal(t, http.StatusCreated, w.Code)
		var created struct {
			MachineID int64 `json:"machine_id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		w = doJSON(t, router, "PUT", fmt.Sprintf("/api/machines/%d/schedule", created.MachineID), gin.H{
			"interval_days":         30,
			"next_maintenance_date": next.Format(time.RFC3339),
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	addMachineWithSchedule("D-1", "Overdue machine", now.AddDate(0, 0, -5))
	addMachineWithSchedule("D-2", "Upcoming machine", now.AddDate(0, 0, 3))
	w := doJSON(t, router, "POST", "/api/machines", gin.H{"code": "D-3", "name": "Unscheduled machine"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "POST", "/api/alerts/check-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_machines":3,"overdue_count":1,"upcoming_count":1,"unread_alerts":1}`, w.Body.String())
}

func TestAlertsAreTenantScoped(t *testing.T) {
	routerUser1, s := setupTestRouter(t, 1)

	w := doJSON(t, routerUser1, "POST", "/api/machines", gin.H{"code": "T-1", "name": "Tank"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		MachineID int64 `json:"machine_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	past := time.Now().AddDate(0, 0, -1).Format(time.RFC3339)
	w = doJSON(t, routerUser1, "PUT", fmt.Sprintf("/api/machines/%d/schedule", created.MachineID), gin.H{
		"interval_days":         7,
		"next_maintenance_date": past,
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, routerUser1, "POST", "/api/alerts/check-overdue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Another user sees no machines and cannot read the alert.
	routerUser2 := routerAsUser(t, s, 2)
	w = doJSON(t, routerUser2, "GET", "/api/machines", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doJSON(t, routerUser2, "GET", "/api/alerts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
