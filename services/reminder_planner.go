package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/utils"
)

// AlertRequest asks the notifier for a one-shot alert. Re-registering the
// same Identifier replaces the previous registration, which is what makes
// re-planning after an edit safe.
type AlertRequest struct {
	Identifier string
	Title      string
	Body       string
	FireAt     time.Time
}

// Notifier schedules named, timed alerts. Implementations may refuse with
// ErrPermissionDenied; callers treat that as a silent degrade.
type Notifier interface {
	Schedule(req AlertRequest) error
	CancelPrefix(prefix string)
}

type ReminderPlanner struct {
	Notifier Notifier
}

func NewReminderPlanner(notifier Notifier) *ReminderPlanner {
	return &ReminderPlanner{Notifier: notifier}
}

// AlertIdentifier is the stable idempotency key for one reservation's
// milestone reminder.
func AlertIdentifier(reservationID fmt.Stringer, kind models.LOKind) string {
	return fmt.Sprintf("lo:%s:%s", reservationID.String(), kind)
}

// PlanReminders recomputes the full reminder set for the reservation's
// current state: one entry per milestone whose flag is still off, at that
// milestone's scheduled instant. Already-checked milestones are not
// re-planned.
func (rp *ReminderPlanner) PlanReminders(r *models.Reservation) []AlertRequest {
	base := ComputeLOBaseTimes(r.EndAt, r.ExtendMinutes)

	var requests []AlertRequest
	for _, rec := range r.Milestones() {
		if rec.Done {
			continue
		}
		body := fmt.Sprintf("%s の時間です", rec.Kind.Label())
		if r.Note != "" {
			body += fmt.Sprintf("（%s）", r.Note)
		}
		requests = append(requests, AlertRequest{
			Identifier: AlertIdentifier(r.ID, rec.Kind),
			Title:      rec.Kind.Label(),
			Body:       body,
			FireAt:     base.Scheduled(rec.Kind),
		})
	}
	return requests
}

// Replan drops the reservation's previous registrations and schedules the
// current candidate set. Delivery is best effort: a denied or failed
// schedule is logged and the reservation's state stands.
func (rp *ReminderPlanner) Replan(r *models.Reservation) {
	if rp.Notifier == nil {
		return
	}
	rp.Notifier.CancelPrefix(fmt.Sprintf("lo:%s:", r.ID))
	for _, req := range rp.PlanReminders(r) {
		if err := rp.Notifier.Schedule(req); err != nil {
			if errors.Is(err, ErrPermissionDenied) {
				continue
			}
			utils.ErrorLogger.Printf("Failed to schedule reminder %s: %v", req.Identifier, err)
		}
	}
}

// CancelAll drops every pending reminder for the reservation, used when it
// is deleted or checked out.
func (rp *ReminderPlanner) CancelAll(r *models.Reservation) {
	if rp.Notifier == nil {
		return
	}
	rp.Notifier.CancelPrefix(fmt.Sprintf("lo:%s:", r.ID))
}
