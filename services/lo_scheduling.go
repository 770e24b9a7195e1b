package services

import (
	"time"

	"github.com/yeremiapane/lo-board/models"
)

// LOBaseTimes holds the scheduled instant of each LO milestone plus the
// effective leave time for one reservation.
type LOBaseTimes struct {
	Donabe  time.Time
	Food    time.Time
	Drink   time.Time
	EndBase time.Time
}

// ComputeLOBaseTimes derives the milestone instants from the reservation's
// end time and extension. The offsets are fixed (60/30/15 minutes before
// the effective end), so Donabe < Food < Drink < EndBase holds for any
// extension.
func ComputeLOBaseTimes(endAt time.Time, extendMinutes int) LOBaseTimes {
	endBase := endAt.Add(time.Duration(extendMinutes) * time.Minute)
	return LOBaseTimes{
		Donabe:  endBase.Add(-60 * time.Minute),
		Food:    endBase.Add(-30 * time.Minute),
		Drink:   endBase.Add(-15 * time.Minute),
		EndBase: endBase,
	}
}

// Scheduled returns the instant of one milestone kind.
func (b LOBaseTimes) Scheduled(kind models.LOKind) time.Time {
	switch kind {
	case models.LODonabe:
		return b.Donabe
	case models.LOFood:
		return b.Food
	case models.LODrink:
		return b.Drink
	}
	return b.EndBase
}

// NextLOInfo summarizes the first unchecked milestone for display.
type NextLOInfo struct {
	Kind        models.LOKind `json:"kind"`
	Label       string        `json:"label"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	MinutesLeft int           `json:"minutes_left"` // negative when overdue
}

// NextLOSummary reports the next LO still to take for the reservation, or
// ok == false once all three are checked.
func NextLOSummary(r *models.Reservation, now time.Time) (NextLOInfo, bool) {
	kind, ok := r.NextPendingLO()
	if !ok {
		return NextLOInfo{}, false
	}
	scheduled := ComputeLOBaseTimes(r.EndAt, r.ExtendMinutes).Scheduled(kind)
	return NextLOInfo{
		Kind:        kind,
		Label:       kind.Label(),
		ScheduledAt: scheduled,
		MinutesLeft: int(scheduled.Sub(now).Minutes()),
	}, true
}

// ComputeLOPhase buckets now against the milestone instants. Buckets are
// half-open on the upper bound: an instant exactly on a milestone already
// belongs to the more urgent bucket, and now == EndBase is passed.
func ComputeLOPhase(endAt time.Time, extendMinutes int, now time.Time) models.LOPhase {
	base := ComputeLOBaseTimes(endAt, extendMinutes)
	switch {
	case now.Before(base.Donabe):
		return models.PhaseNormal
	case now.Before(base.Food):
		return models.PhaseWarn60
	case now.Before(base.Drink):
		return models.PhaseWarn30
	case now.Before(base.EndBase):
		return models.PhaseWarn15
	default:
		return models.PhasePassed
	}
}
