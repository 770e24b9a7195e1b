package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/lo-board/models"
)

func newReservationForPlanning() *models.Reservation {
	return &models.Reservation{
		ID:      uuid.New(),
		Note:    "窓際 2名",
		StartAt: at(18, 0),
		EndAt:   at(20, 0),
	}
}

func TestPlanRemindersCoversPendingMilestones(t *testing.T) {
	planner := NewReminderPlanner(newFakeNotifier())
	r := newReservationForPlanning()

	plan := planner.PlanReminders(r)
	assert.Len(t, plan, 3)

	assert.Equal(t, fmt.Sprintf("lo:%s:donabe", r.ID), plan[0].Identifier)
	assert.Equal(t, at(19, 0), plan[0].FireAt)
	assert.Equal(t, at(19, 30), plan[1].FireAt)
	assert.Equal(t, at(19, 45), plan[2].FireAt)
}

func TestPlanRemindersSkipsCheckedMilestones(t *testing.T) {
	planner := NewReminderPlanner(newFakeNotifier())
	r := newReservationForPlanning()
	r.SetMilestone(models.LODonabe, true, at(19, 0))

	plan := planner.PlanReminders(r)
	assert.Len(t, plan, 2)
	for _, req := range plan {
		assert.NotContains(t, req.Identifier, "donabe")
	}
}

func TestPlanRemindersFollowsExtension(t *testing.T) {
	planner := NewReminderPlanner(newFakeNotifier())
	r := newReservationForPlanning()
	r.ExtendMinutes = 30

	plan := planner.PlanReminders(r)
	assert.Equal(t, at(19, 30), plan[0].FireAt)
	assert.Equal(t, at(20, 0), plan[1].FireAt)
	assert.Equal(t, at(20, 15), plan[2].FireAt)
}

func TestPlanRemindersIsIdempotent(t *testing.T) {
	planner := NewReminderPlanner(newFakeNotifier())
	r := newReservationForPlanning()

	first := planner.PlanReminders(r)
	second := planner.PlanReminders(r)
	assert.Equal(t, first, second)
}

func TestReplanReplacesByIdentifier(t *testing.T) {
	notifier := newFakeNotifier()
	planner := NewReminderPlanner(notifier)
	r := newReservationForPlanning()

	planner.Replan(r)
	assert.Len(t, notifier.scheduled, 3)

	// After an edit the same identifiers are re-registered at new times,
	// never duplicated.
	r.ExtendMinutes = 30
	planner.Replan(r)
	assert.Len(t, notifier.scheduled, 3)
	key := fmt.Sprintf("lo:%s:drink", r.ID)
	assert.Equal(t, at(20, 15), notifier.scheduled[key].FireAt)
}

func TestReplanToleratesDeniedNotifier(t *testing.T) {
	notifier := newFakeNotifier()
	notifier.denied = true
	planner := NewReminderPlanner(notifier)
	r := newReservationForPlanning()

	// Denied scheduling degrades silently; nothing to assert but the
	// absence of a panic and an empty registry.
	planner.Replan(r)
	assert.Empty(t, notifier.scheduled)
}

func TestCancelAllDropsReservationScope(t *testing.T) {
	notifier := newFakeNotifier()
	planner := NewReminderPlanner(notifier)
	r := newReservationForPlanning()
	other := newReservationForPlanning()

	planner.Replan(r)
	planner.Replan(other)
	assert.Len(t, notifier.scheduled, 6)

	planner.CancelAll(r)
	assert.Len(t, notifier.scheduled, 3)
	for id := range notifier.scheduled {
		assert.Contains(t, id, other.ID.String())
	}
}
