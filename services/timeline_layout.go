package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/lo-board/models"
)

// TimelineLayout maps instants to horizontal offsets and tables to rows on
// the board grid. It holds only configuration; geometry is recomputed from
// current state on every request.
type TimelineLayout struct {
	OpenHour    int
	CloseHour   int
	HourWidth   float64
	RowHeight   float64
	MinBarWidth float64
}

const (
	DefaultOpenHour    = 17
	DefaultCloseHour   = 23
	DefaultHourWidth   = 120
	DefaultRowHeight   = 56
	DefaultMinBarWidth = 32
)

func NewTimelineLayout() *TimelineLayout {
	return &TimelineLayout{
		OpenHour:    DefaultOpenHour,
		CloseHour:   DefaultCloseHour,
		HourWidth:   DefaultHourWidth,
		RowHeight:   DefaultRowHeight,
		MinBarWidth: DefaultMinBarWidth,
	}
}

// TimeToPosition converts an instant's time of day to a horizontal offset
// from the open hour. Instants outside the open/close window extrapolate
// linearly; clipping is the renderer's concern.
func (tl *TimelineLayout) TimeToPosition(t time.Time) float64 {
	totalMin := (t.Hour()-tl.OpenHour)*60 + t.Minute()
	return float64(totalMin) / 60.0 * tl.HourWidth
}

// Width is the horizontal extent of the open/close window.
func (tl *TimelineLayout) Width() float64 {
	return float64(tl.CloseHour-tl.OpenHour) * tl.HourWidth
}

// BarSpan returns the x offset and width of a reservation's bar. The span
// runs from startAt to the effective end; the width is floored at
// MinBarWidth purely so short stays stay tappable.
func (tl *TimelineLayout) BarSpan(r *models.Reservation) (x, width float64) {
	startX := tl.TimeToPosition(r.StartAt)
	endX := tl.TimeToPosition(r.EffectiveEnd())
	width = endX - startX
	if width < tl.MinBarWidth {
		width = tl.MinBarWidth
	}
	return startX, width
}

// RowIndex is the zero-based rank of the table among tables ordered by
// sortIndex, or -1 if the table is not in the list.
func (tl *TimelineLayout) RowIndex(tableID uuid.UUID, tables []models.Table) int {
	for i, t := range tables {
		if t.ID == tableID {
			return i
		}
	}
	return -1
}

// NowInRange reports whether the live position marker falls inside the
// visible window.
func (tl *TimelineLayout) NowInRange(now time.Time) bool {
	hour := now.Hour()
	return hour >= tl.OpenHour && hour < tl.CloseHour
}
