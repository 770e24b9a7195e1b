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

type ReservationController struct {
	DB      *gorm.DB
	Service *services.ReservationService
	Planner *services.ReminderPlanner
	Clock   services.Clock
}

func NewReservationController(db *gorm.DB, svc *services.ReservationService, planner *services.ReminderPlanner, clock services.Clock) *ReservationController {
	return &ReservationController{DB: db, Service: svc, Planner: planner, Clock: clock}
}

// CreateReservation books a table. end_at may be given directly, derived
// from stay_minutes, or left out for the default 2-hour stay.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		Note          string     `json:"note"`
		StartAt       time.Time  `json:"start_at" binding:"required"`
		EndAt         *time.Time `json:"end_at"`
		StayMinutes   *int       `json:"stay_minutes"`
		TableID       uuid.UUID  `json:"table_id" binding:"required"`
		ExtendMinutes int        `json:"extend_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	r := models.Reservation{
		Note:          req.Note,
		StartAt:       req.StartAt,
		TableID:       req.TableID,
		ExtendMinutes: req.ExtendMinutes,
	}
	switch {
	case req.EndAt != nil:
		r.EndAt = *req.EndAt
	case req.StayMinutes != nil:
		if *req.StayMinutes <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("stay_minutes must be positive"))
			return
		}
		r.EndAt = req.StartAt.Add(time.Duration(*req.StayMinutes) * time.Minute)
	}

	if err := rc.Service.Create(&r); err != nil {
		rc.respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", rc.detail(&r))
}

// GetAllReservations lists a day's reservations ordered by start time.
// The date query defaults to today.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	day := rc.Clock.Now()
	if q := c.Query("date"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, time.Local)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	reservations, err := rc.Service.ListByDate(day)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	list := make([]gin.H, 0, len(reservations))
	for i := range reservations {
		list = append(list, rc.detail(&reservations[i]))
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", list)
}

// GetReservationByID returns one reservation with its phase, milestone
// records and next pending LO.
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, ok := rc.parseID(c)
	if !ok {
		return
	}
	r, err := rc.Service.Get(id)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", rc.detail(r))
}

// UpdateChecklist is the LO checklist sheet: LO toggles, extension and the
// manual checkout flag in one request. Each field is optional; validation
// failures leave the reservation untouched.
func (rc *ReservationController) UpdateChecklist(c *gin.Context) {
	id, ok := rc.parseID(c)
	if !ok {
		return
	}

	var body struct {
		DidDonabeLO   *bool `json:"did_donabe_lo"`
		DidFoodLO     *bool `json:"did_food_lo"`
		DidDrinkLO    *bool `json:"did_drink_lo"`
		ExtendMinutes *int  `json:"extend_minutes"`
		IsCheckedOut  *bool `json:"is_checked_out"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Extension first so it fails closed before any flag is stamped.
	r, err := rc.Service.Get(id)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}
	if body.ExtendMinutes != nil {
		if r, err = rc.Service.SetExtension(id, *body.ExtendMinutes); err != nil {
			rc.respondServiceError(c, err)
			return
		}
	}

	toggles := []struct {
		kind  models.LOKind
		value *bool
	}{
		{models.LODonabe, body.DidDonabeLO},
		{models.LOFood, body.DidFoodLO},
		{models.LODrink, body.DidDrinkLO},
	}
	for _, t := range toggles {
		if t.value == nil {
			continue
		}
		if r, err = rc.Service.SetLOFlag(id, t.kind, *t.value); err != nil {
			rc.respondServiceError(c, err)
			return
		}
	}

	if body.IsCheckedOut != nil {
		if r, err = rc.Service.SetCheckout(id, *body.IsCheckedOut); err != nil {
			rc.respondServiceError(c, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Checklist updated", rc.detail(r))
}

// DeleteReservation removes a reservation and its pending reminders.
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := rc.parseID(c)
	if !ok {
		return
	}
	if err := rc.Service.Delete(id); err != nil {
		rc.respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", gin.H{"reservation_id": id})
}

// GetReservationReminders shows the reminder plan for the reservation's
// current state (what is or would be registered with the notifier).
func (rc *ReservationController) GetReservationReminders(c *gin.Context) {
	id, ok := rc.parseID(c)
	if !ok {
		return
	}
	r, err := rc.Service.Get(id)
	if err != nil {
		rc.respondServiceError(c, err)
		return
	}

	plan := rc.Planner.PlanReminders(r)
	list := make([]gin.H, 0, len(plan))
	for _, req := range plan {
		list = append(list, gin.H{
			"identifier": req.Identifier,
			"title":      req.Title,
			"body":       req.Body,
			"fire_at":    req.FireAt,
		})
	}
	utils.RespondJSON(c, http.StatusOK, "Planned reminders", list)
}

// GetDashboardStats counts today's reservations per phase.
func (rc *ReservationController) GetDashboardStats(c *gin.Context) {
	now := rc.Clock.Now()
	reservations, err := rc.Service.ListByDate(now)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	counts := map[models.LOPhase]int{}
	checkedOut := 0
	for i := range reservations {
		if reservations[i].IsCheckedOut {
			checkedOut++
			continue
		}
		counts[rc.Service.PhaseOf(&reservations[i])]++
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"normal":      counts[models.PhaseNormal],
		"warn60":      counts[models.PhaseWarn60],
		"warn30":      counts[models.PhaseWarn30],
		"warn15":      counts[models.PhaseWarn15],
		"passed":      counts[models.PhasePassed],
		"checked_out": checkedOut,
		"total":       len(reservations),
	})
}

func (rc *ReservationController) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return uuid.Nil, false
	}
	return id, true
}

func (rc *ReservationController) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReservationNotFound), errors.Is(err, services.ErrTableNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrNegativeExtension):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// detail is the reservation payload shared by every endpoint: the entity
// plus derived phase, milestone times and next LO summary.
func (rc *ReservationController) detail(r *models.Reservation) gin.H {
	now := rc.Clock.Now()
	base := services.ComputeLOBaseTimes(r.EndAt, r.ExtendMinutes)

	payload := gin.H{
		"reservation":   r,
		"phase":         services.ComputeLOPhase(r.EndAt, r.ExtendMinutes, now),
		"effective_end": base.EndBase,
		"lo_times": gin.H{
			"donabe": base.Donabe,
			"food":   base.Food,
			"drink":  base.Drink,
		},
		"milestones": r.Milestones(),
	}
	if next, ok := services.NextLOSummary(r, now); ok {
		payload["next_lo"] = next
	}
	return payload
}
