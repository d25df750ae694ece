package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"machinery-maintenance-backend/internal/alerting"
	"machinery-maintenance-backend/internal/db"
	"machinery-maintenance-backend/internal/mw"
	"machinery-maintenance-backend/internal/store"
)

// setupTestRouter wires the handlers against an in-memory database with a
// stubbed identity (every request acts as the given user).
func setupTestRouter(t *testing.T, userID int64) (*gin.Engine, store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(testDB))

	s := store.NewGormStore(testDB)
	return routerAsUser(t, s, userID), s
}

// routerAsUser builds a router over an existing store acting as another user.
func routerAsUser(t *testing.T, s store.Store, userID int64) *gin.Engine {
	t.Helper()
	alerts := alerting.NewService(s, 7, nil)
	handler := NewHandler(s, alerts, nil, nil, 16<<20)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(mw.UserIDKey, userID)
		c.Next()
	})

	api := r.Group("/api")
	{
		api.POST("/machines", handler.CreateMachine)
		api.GET("/machines", handler.ListMachines)
		api.GET("/machines/:id", handler.GetMachine)
		api.PATCH("/machines/:id", handler.UpdateMachine)
		api.DELETE("/machines/:id", handler.DeleteMachine)
		api.GET("/machines/:id/schedule", handler.GetSchedule)
		api.PUT("/machines/:id/schedule", handler.PutSchedule)
		api.POST("/machines/:id/history", handler.AddHistory)
		api.GET("/machines/:id/history", handler.ListHistory)
		api.DELETE("/history/:id", handler.DeleteHistory)
		api.GET("/alerts", handler.ListAlerts)
		api.POST("/alerts/:id/read", handler.MarkAlertRead)
		api.POST("/alerts/check-overdue", handler.CheckOverdue)
		api.GET("/dashboard/stats", handler.DashboardStats)
	}
	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateMachineValidation(t *testing.T) {
	router, _ := setupTestRouter(t, 1)

	// Missing required name.
	w := doJSON(t, router, "POST", "/api/machines", gin.H{"code": "CNC-001"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Negative interval is rejected at the boundary.
	w = doJSON(t, router, "POST", "/api/machines", gin.H{
		"code": "CNC-001", "name": "Lathe", "interval_days": -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/api/machines", gin.H{
		"code": "CNC-001", "name": "Lathe", "interval_days": 30,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		MachineID int64 `json:"machine_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.MachineID)
}

func TestMachineLifecycle(t *testing.T) {
	router, _ := setupTestRouter(t, 1)

	w := doJSON(t, router, "POST", "/api/machines", gin.H{
		"code": "CNC-002", "name": "Mill", "location": "Hall B", "interval_days": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		MachineID int64 `json:"machine_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// The bootstrap schedule is retrievable.
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/machines/%d/schedule", created.MachineID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"interval_days":30`)

	w = doJSON(t, router, "PATCH", fmt.Sprintf("/api/machines/%d", created.MachineID), gin.H{"name": "Mill II"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/machines/%d", created.MachineID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mill II")

	w = doJSON(t, router, "DELETE", fmt.Sprintf("/api/machines/%d", created.MachineID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/machines/%d", created.MachineID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/machines/%d/schedule", created.MachineID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMachineRejectsBadID(t *testing.T) {
	router, _ := setupTestRouter(t, 1)

	w := doJSON(t, router, "GET", "/api/machines/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMachinesEmpty(t *testing.T) {
	router, _ := setupTestRouter(t, 1)

	w := doJSON(t, router, "GET", "/api/machines", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestPutScheduleValidation(t *testing.T) {
	router, _ := setupTestRouter(t, 1)

	w := doJSON(t, router, "POST", "/api/machines", gin.H{"code": "S-1", "name": "Press"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		MachineID int64 `json:"machine_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Zero interval is a caller error.
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/machines/%d/schedule", created.MachineID), gin.H{"interval_days": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/machines/%d/schedule", created.MachineID), gin.H{"interval_days": 14})
	assert.Equal(t, http.StatusOK, w.Code)

	// Schedule for an unknown machine is absent.
	w = doJSON(t, router, "PUT", "/api/machines/99999/schedule", gin.H{"interval_days": 14})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
