package Controllers_test

import (
	"strings"
	"time"

	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// boardTime places test times on a fixed service day so computed phases
// do not depend on when the suite runs.
func boardTime(hour, minute int) time.Time {
	return time.Date(2025, 11, 1, hour, minute, 0, 0, time.Local)
}

type fixedClock struct {
	instant time.Time
}

func (c fixedClock) Now() time.Time { return c.instant }

type recordingNotifier struct {
	scheduled map[string]services.AlertRequest
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{scheduled: make(map[string]services.AlertRequest)}
}

func (n *recordingNotifier) Schedule(req services.AlertRequest) error {
	n.scheduled[req.Identifier] = req
	return nil
}

func (n *recordingNotifier) CancelPrefix(prefix string) {
	for id := range n.scheduled {
		if strings.HasPrefix(id, prefix) {
			delete(n.scheduled, id)
		}
	}
}

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.User{}, &models.Table{}, &models.Reservation{}, &models.Notification{})
	if err != nil {
		panic(err)
	}
	return db
}
