package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/services"
	"github.com/yeremiapane/lo-board/utils"
	"gorm.io/gorm"
)

type TimelineController struct {
	DB      *gorm.DB
	Service *services.ReservationService
	Layout  *services.TimelineLayout
	Clock   services.Clock
}

func NewTimelineController(db *gorm.DB, svc *services.ReservationService, layout *services.TimelineLayout, clock services.Clock) *TimelineController {
	return &TimelineController{DB: db, Service: svc, Layout: layout, Clock: clock}
}

// GetTimeline renders the board geometry for one day: a row per table and
// a positioned bar per reservation, plus the live "now" marker. Geometry
// only; the client draws it.
func (tc *TimelineController) GetTimeline(c *gin.Context) {
	now := tc.Clock.Now()
	day := now
	if q := c.Query("date"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, time.Local)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	var tables []models.Table
	if err := tc.DB.Order("sort_index ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	reservations, err := tc.Service.ListByDate(day)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rows := make([]gin.H, 0, len(tables))
	for i, table := range tables {
		rows = append(rows, gin.H{
			"table":     table,
			"row_index": i,
			"y":         float64(i) * tc.Layout.RowHeight,
		})
	}

	bars := make([]gin.H, 0, len(reservations))
	for i := range reservations {
		r := &reservations[i]
		rowIndex := tc.Layout.RowIndex(r.TableID, tables)
		if rowIndex < 0 {
			continue // table was deleted out from under the reservation
		}
		x, width := tc.Layout.BarSpan(r)

		bar := gin.H{
			"reservation": r,
			"row_index":   rowIndex,
			"x":           x,
			"y":           float64(rowIndex) * tc.Layout.RowHeight,
			"width":       width,
			"phase":       tc.Service.PhaseOf(r),
		}
		if next, ok := services.NextLOSummary(r, now); ok {
			bar["next_lo"] = next
		}
		bars = append(bars, bar)
	}

	payload := gin.H{
		"date":         day.Format("2006-01-02"),
		"open_hour":    tc.Layout.OpenHour,
		"close_hour":   tc.Layout.CloseHour,
		"hour_width":   tc.Layout.HourWidth,
		"row_height":   tc.Layout.RowHeight,
		"width":        tc.Layout.Width(),
		"rows":         rows,
		"bars":         bars,
		"now_in_range": tc.Layout.NowInRange(now),
	}
	if tc.Layout.NowInRange(now) {
		payload["now_x"] = tc.Layout.TimeToPosition(now)
	}

	utils.RespondJSON(c, http.StatusOK, "Timeline", payload)
}

// DragReservation commits a released drag gesture. The horizontal delta
// snaps to 15-minute steps, the vertical delta to whole clamped rows; both
// can apply at once, and a drag that snaps to nothing is a no-op.
func (tc *TimelineController) DragReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	var body struct {
		DeltaX float64 `json:"delta_x"`
		DeltaY float64 `json:"delta_y"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	r, err := tc.Service.CommitDrag(id, body.DeltaX, body.DeltaY, tc.Layout)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation remapped", gin.H{
		"reservation": r,
		"phase":       tc.Service.PhaseOf(r),
	})
}
