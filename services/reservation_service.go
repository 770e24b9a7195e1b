package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/lo-board/board"
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/utils"
	"gorm.io/gorm"
)

// ReservationService owns every reservation mutation and enforces the
// entity invariants: fail-closed validation before any change, reminder
// re-planning after any change that moves a milestone, and a board
// broadcast after every successful write.
type ReservationService struct {
	DB      *gorm.DB
	Clock   Clock
	Planner *ReminderPlanner
}

func NewReservationService(db *gorm.DB, clock Clock, planner *ReminderPlanner) *ReservationService {
	return &ReservationService{DB: db, Clock: clock, Planner: planner}
}

// Create stores a new reservation. The table must exist; a missing end
// time defaults to start + 2 hours (the BeforeCreate hook).
func (rs *ReservationService) Create(r *models.Reservation) error {
	if err := rs.requireTable(r.TableID); err != nil {
		return err
	}
	if r.ExtendMinutes < 0 {
		return ErrNegativeExtension
	}

	if err := rs.DB.Create(r).Error; err != nil {
		return err
	}

	rs.Planner.Replan(r)
	board.BroadcastReservationCreate(*r)
	utils.InfoLogger.Printf("Reservation created: %s (table=%s, start=%s)",
		r.ID, r.TableID, r.StartAt.Format("15:04"))
	return nil
}

// Get loads one reservation.
func (rs *ReservationService) Get(id uuid.UUID) (*models.Reservation, error) {
	var r models.Reservation
	if err := rs.DB.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &r, nil
}

// ListByDate returns the reservations starting on the given local day,
// ordered by start time.
func (rs *ReservationService) ListByDate(day time.Time) ([]models.Reservation, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var reservations []models.Reservation
	err := rs.DB.
		Where("start_at >= ? AND start_at < ?", start, end).
		Order("start_at ASC").
		Find(&reservations).Error
	return reservations, err
}

// SetLOFlag toggles one milestone. A false→true transition stamps the
// current instant only if the milestone was never stamped; true→false
// clears the stamp. Same-value toggles change nothing and skip the write.
func (rs *ReservationService) SetLOFlag(id uuid.UUID, kind models.LOKind, value bool) (*models.Reservation, error) {
	r, err := rs.Get(id)
	if err != nil {
		return nil, err
	}

	if !r.SetMilestone(kind, value, rs.Clock.Now()) {
		return r, nil
	}

	if err := rs.DB.Save(r).Error; err != nil {
		return r, err
	}
	rs.Planner.Replan(r)
	board.BroadcastReservationUpdate(*r)
	return r, nil
}

// SetExtension updates the stay extension. Negative minutes are rejected
// before anything is touched. The extension shifts every milestone and
// the effective end together; endAt itself never changes.
func (rs *ReservationService) SetExtension(id uuid.UUID, minutes int) (*models.Reservation, error) {
	if minutes < 0 {
		return nil, ErrNegativeExtension
	}

	r, err := rs.Get(id)
	if err != nil {
		return nil, err
	}
	if r.ExtendMinutes == minutes {
		return r, nil
	}

	r.ExtendMinutes = minutes
	if err := rs.DB.Save(r).Error; err != nil {
		return r, err
	}
	rs.Planner.Replan(r)
	board.BroadcastReservationUpdate(*r)
	return r, nil
}

// SetCheckout flips the manual checkout flag. Nothing time-based ever
// calls this; a stay that has run past its end stays "in" until staff
// check it out here.
func (rs *ReservationService) SetCheckout(id uuid.UUID, value bool) (*models.Reservation, error) {
	r, err := rs.Get(id)
	if err != nil {
		return nil, err
	}
	if r.IsCheckedOut == value {
		return r, nil
	}

	r.IsCheckedOut = value
	if err := rs.DB.Save(r).Error; err != nil {
		return r, err
	}
	if value {
		rs.Planner.CancelAll(r)
	} else {
		rs.Planner.Replan(r)
	}
	board.BroadcastReservationUpdate(*r)
	return r, nil
}

// ApplyTimeShift moves startAt and endAt by the same delta, preserving the
// duration. A zero delta is a no-op with no write.
func (rs *ReservationService) ApplyTimeShift(id uuid.UUID, minutesDelta int) (*models.Reservation, error) {
	r, err := rs.Get(id)
	if err != nil {
		return nil, err
	}
	if minutesDelta == 0 {
		return r, nil
	}

	delta := time.Duration(minutesDelta) * time.Minute
	r.StartAt = r.StartAt.Add(delta)
	r.EndAt = r.EndAt.Add(delta)

	if err := rs.DB.Save(r).Error; err != nil {
		return r, err
	}
	rs.Planner.Replan(r)
	board.BroadcastReservationUpdate(*r)
	return r, nil
}

// ReassignTable repoints the reservation to another table. The target must
// exist; on NotFound the reservation is untouched.
func (rs *ReservationService) ReassignTable(id uuid.UUID, tableID uuid.UUID) (*models.Reservation, error) {
	r, err := rs.Get(id)
	if err != nil {
		return nil, err
	}
	if err := rs.requireTable(tableID); err != nil {
		return nil, err
	}
	if r.TableID == tableID {
		return r, nil
	}

	r.TableID = tableID
	if err := rs.DB.Save(r).Error; err != nil {
		return r, err
	}
	board.BroadcastReservationUpdate(*r)
	return r, nil
}

// CommitDrag resolves a released drag gesture against the layout: the
// horizontal displacement snaps to a 15-minute time shift, the vertical
// one to a clamped row move, and both may apply from one diagonal drag.
// A drag that snaps to nothing on both axes writes nothing.
func (rs *ReservationService) CommitDrag(id uuid.UUID, deltaX, deltaY float64, layout *TimelineLayout) (*models.Reservation, error) {
	r, err := rs.Get(id)
	if err != nil {
		return nil, err
	}

	var tables []models.Table
	if err := rs.DB.Order("sort_index ASC").Find(&tables).Error; err != nil {
		return nil, err
	}

	minutes := PlanTimeShift(deltaX, layout.HourWidth, DragStepMinutes)

	currentRank := layout.RowIndex(r.TableID, tables)
	var target models.Table
	moved := false
	if currentRank >= 0 {
		target, moved = PlanTableMove(deltaY, layout.RowHeight, currentRank, tables)
	}

	if minutes == 0 && !moved {
		return r, nil
	}

	if minutes != 0 {
		delta := time.Duration(minutes) * time.Minute
		r.StartAt = r.StartAt.Add(delta)
		r.EndAt = r.EndAt.Add(delta)
	}
	if moved {
		r.TableID = target.ID
	}

	if err := rs.DB.Save(r).Error; err != nil {
		return r, err
	}
	if minutes != 0 {
		rs.Planner.Replan(r)
	}
	board.BroadcastReservationUpdate(*r)
	utils.InfoLogger.Printf("Reservation %s remapped (shift=%dmin, moved=%v)", r.ID, minutes, moved)
	return r, nil
}

// Delete removes the reservation and its pending reminders.
func (rs *ReservationService) Delete(id uuid.UUID) error {
	r, err := rs.Get(id)
	if err != nil {
		return err
	}
	if err := rs.DB.Delete(r).Error; err != nil {
		return err
	}
	rs.Planner.CancelAll(r)
	board.BroadcastReservationDelete(r.ID)
	return nil
}

// PhaseOf computes the reservation's current LO phase.
func (rs *ReservationService) PhaseOf(r *models.Reservation) models.LOPhase {
	return ComputeLOPhase(r.EndAt, r.ExtendMinutes, rs.Clock.Now())
}

func (rs *ReservationService) requireTable(tableID uuid.UUID) error {
	var table models.Table
	if err := rs.DB.First(&table, "id = ?", tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableNotFound
		}
		return err
	}
	return nil
}
