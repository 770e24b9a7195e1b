package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/lo-board/config"
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/router"
	"github.com/yeremiapane/lo-board/services"
	"github.com/yeremiapane/lo-board/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

type integrationClock struct {
	instant time.Time
}

func (c *integrationClock) Now() time.Time { return c.instant }

// TestEndToEndIntegration walks the main evening flow:
// 0. seed a staff user and the tables, login -> token
// 1. create a reservation on a seeded table
// 2. check one LO on the checklist sheet
// 3. drag the bar 30 minutes to the right
// 4. read the timeline and the dashboard stats back
func TestEndToEndIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB(t)

	clock := &integrationClock{instant: time.Date(2025, 11, 1, 19, 5, 0, 0, time.Local)}
	cfg := config.BoardConfig{OpenHour: 17, CloseHour: 23, NotificationsEnabled: true}
	notifier := services.NewNotificationService(db, clock, cfg.NotificationsEnabled)
	r := router.SetupRouterWith(db, clock, notifier, cfg)

	token := loginTest(t, r)
	tableID := firstTableTest(t, r, token)
	reservationID := createReservationTest(t, r, token, tableID)
	checkDonabeLOTest(t, r, token, reservationID)
	dragReservationTest(t, r, token, reservationID)
	checkTimelineTest(t, r, token, reservationID)
	checkDashboardTest(t, r, token)
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Table{}, &models.Reservation{}, &models.Notification{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	if err := services.SeedTablesIfNeeded(db); err != nil {
		t.Fatalf("failed to seed tables: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Staff",
		Email:    "staff@example.com",
		Password: string(hashed),
		Role:     "staff",
	})
	return db
}

func loginTest(t *testing.T, r *gin.Engine) string {
	body, _ := json.Marshal(map[string]string{
		"email":    "staff@example.com",
		"password": "secret123",
	})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	token := data["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func firstTableTest(t *testing.T, r *gin.Engine, token string) string {
	req, _ := http.NewRequest("GET", "/tables", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 12)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "イノイチ", first["Name"])
	return first["ID"].(string)
}

func createReservationTest(t *testing.T, r *gin.Engine, token, tableID string) string {
	startAt := time.Date(2025, 11, 1, 18, 0, 0, 0, time.Local)
	body, _ := json.Marshal(map[string]interface{}{
		"note":     "4名 コース",
		"start_at": startAt.Format(time.RFC3339),
		"table_id": tableID,
	})
	req, _ := http.NewRequest("POST", "/reservations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	reservation := data["reservation"].(map[string]interface{})

	// Default stay: 18:00 + 2h. At 19:05 the donabe LO (19:00) has passed.
	endAt, err := time.Parse(time.RFC3339, reservation["EndAt"].(string))
	assert.NoError(t, err)
	assert.True(t, endAt.Equal(startAt.Add(2*time.Hour)))
	assert.Equal(t, "warn60", data["phase"])

	return reservation["ID"].(string)
}

func checkDonabeLOTest(t *testing.T, r *gin.Engine, token, reservationID string) {
	body, _ := json.Marshal(map[string]interface{}{"did_donabe_lo": true})
	req, _ := http.NewRequest("PATCH", "/reservations/"+reservationID+"/checklist", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	reservation := data["reservation"].(map[string]interface{})
	assert.Equal(t, true, reservation["DidDonabeLO"])
	assert.NotNil(t, reservation["DonabeLOAt"])

	// With donabe checked the next LO becomes food.
	nextLO := data["next_lo"].(map[string]interface{})
	assert.Equal(t, "food", nextLO["kind"])
}

func dragReservationTest(t *testing.T, r *gin.Engine, token, reservationID string) {
	// 60px at 120px/hour is 30 raw minutes, exactly two snap steps.
	body, _ := json.Marshal(map[string]interface{}{"delta_x": 60.0, "delta_y": 0.0})
	req, _ := http.NewRequest("POST", "/reservations/"+reservationID+"/drag", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	reservation := response["data"].(map[string]interface{})["reservation"].(map[string]interface{})

	startAt, err := time.Parse(time.RFC3339, reservation["StartAt"].(string))
	assert.NoError(t, err)
	assert.True(t, startAt.Equal(time.Date(2025, 11, 1, 18, 30, 0, 0, time.Local)))
}

func checkTimelineTest(t *testing.T, r *gin.Engine, token, reservationID string) {
	req, _ := http.NewRequest("GET", "/timeline?date=2025-11-01", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})

	rows := data["rows"].([]interface{})
	assert.Len(t, rows, 12)

	bars := data["bars"].([]interface{})
	assert.Len(t, bars, 1)
	bar := bars[0].(map[string]interface{})
	reservation := bar["reservation"].(map[string]interface{})
	assert.Equal(t, reservationID, reservation["ID"])
	// 18:30 start after the drag: 1.5h past open.
	assert.Equal(t, float64(180), bar["x"])
	assert.Equal(t, float64(240), bar["width"])
	assert.Equal(t, float64(0), bar["row_index"])
}

func checkDashboardTest(t *testing.T, r *gin.Engine, token string) {
	req, _ := http.NewRequest("GET", "/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	// After the drag the reservation ends 20:30; at 19:05 that is normal.
	assert.Equal(t, float64(1), data["normal"])
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(0), data["checked_out"])
}
