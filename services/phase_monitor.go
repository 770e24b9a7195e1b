package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/lo-board/board"
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/utils"
	"gorm.io/gorm"
)

// PhaseMonitor is the minute tick behind the live board: it re-evaluates
// the LO phase of today's active reservations and broadcasts only the ones
// that crossed into a new phase since the previous tick.
type PhaseMonitor struct {
	DB       *gorm.DB
	Clock    Clock
	Interval time.Duration
	StopChan chan struct{}

	lastPhase map[uuid.UUID]models.LOPhase
}

func NewPhaseMonitor(db *gorm.DB, clock Clock) *PhaseMonitor {
	return &PhaseMonitor{
		DB:        db,
		Clock:     clock,
		Interval:  1 * time.Minute,
		StopChan:  make(chan struct{}),
		lastPhase: make(map[uuid.UUID]models.LOPhase),
	}
}

func (pm *PhaseMonitor) Start() {
	go func() {
		ticker := time.NewTicker(pm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				pm.Tick()
			case <-pm.StopChan:
				return
			}
		}
	}()
}

func (pm *PhaseMonitor) Stop() {
	close(pm.StopChan)
}

// Tick runs one re-evaluation pass. Checked-out reservations are skipped
// and forgotten; nothing here ever mutates reservation state.
func (pm *PhaseMonitor) Tick() {
	now := pm.Clock.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var reservations []models.Reservation
	if err := pm.DB.
		Where("start_at >= ? AND start_at < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Where("is_checked_out = ?", false).
		Order("start_at ASC").
		Find(&reservations).Error; err != nil {
		utils.ErrorLogger.Printf("Phase monitor query failed: %v", err)
		return
	}

	seen := make(map[uuid.UUID]struct{}, len(reservations))
	changed := 0
	for _, r := range reservations {
		seen[r.ID] = struct{}{}
		phase := ComputeLOPhase(r.EndAt, r.ExtendMinutes, now)
		if prev, ok := pm.lastPhase[r.ID]; ok && prev == phase {
			continue
		}
		pm.lastPhase[r.ID] = phase
		board.BroadcastPhaseUpdate(r, phase)
		changed++
	}

	for id := range pm.lastPhase {
		if _, ok := seen[id]; !ok {
			delete(pm.lastPhase, id)
		}
	}

	if changed > 0 {
		utils.InfoLogger.Printf("Phase monitor: %d reservation(s) changed phase", changed)
	}
}
