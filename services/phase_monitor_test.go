package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/lo-board/models"
)

func TestPhaseMonitorTracksPhaseChanges(t *testing.T) {
	db := newServiceTestDB(t)
	clock := &testClock{instant: at(19, 0)}
	pm := NewPhaseMonitor(db, clock)

	r := models.Reservation{StartAt: at(18, 0), EndAt: at(20, 0), TableID: mustCreateTable(t, db, "T1", 0).ID}
	assert.NoError(t, db.Create(&r).Error)

	pm.Tick()
	assert.Equal(t, models.PhaseWarn60, pm.lastPhase[r.ID])

	// Same phase on the next tick; the entry just stays put.
	clock.instant = at(19, 10)
	pm.Tick()
	assert.Equal(t, models.PhaseWarn60, pm.lastPhase[r.ID])

	clock.instant = at(19, 30)
	pm.Tick()
	assert.Equal(t, models.PhaseWarn30, pm.lastPhase[r.ID])

	clock.instant = at(20, 0)
	pm.Tick()
	assert.Equal(t, models.PhasePassed, pm.lastPhase[r.ID])
}

func TestPhaseMonitorIgnoresCheckedOut(t *testing.T) {
	db := newServiceTestDB(t)
	clock := &testClock{instant: at(19, 0)}
	pm := NewPhaseMonitor(db, clock)

	r := models.Reservation{StartAt: at(18, 0), EndAt: at(20, 0), TableID: mustCreateTable(t, db, "T1", 0).ID}
	assert.NoError(t, db.Create(&r).Error)

	pm.Tick()
	assert.Contains(t, pm.lastPhase, r.ID)

	// After manual checkout the reservation leaves the live set.
	assert.NoError(t, db.Model(&r).Update("is_checked_out", true).Error)
	pm.Tick()
	assert.NotContains(t, pm.lastPhase, r.ID)
}
