package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/lo-board/models"
)

func newNotificationServiceForTest(t *testing.T, clock Clock) *NotificationService {
	t.Helper()
	return NewNotificationService(newServiceTestDB(t), clock, true)
}

func TestScheduleReplacesByIdentifier(t *testing.T) {
	ns := newNotificationServiceForTest(t, &testClock{instant: at(18, 0)})

	assert.NoError(t, ns.Schedule(AlertRequest{Identifier: "lo:x:donabe", FireAt: at(19, 0)}))
	assert.NoError(t, ns.Schedule(AlertRequest{Identifier: "lo:x:donabe", FireAt: at(19, 30)}))
	assert.Equal(t, 1, ns.PendingCount())
}

func TestScheduleDeniedWhenDisabled(t *testing.T) {
	ns := NewNotificationService(newServiceTestDB(t), &testClock{instant: at(18, 0)}, false)

	err := ns.Schedule(AlertRequest{Identifier: "lo:x:donabe", FireAt: at(19, 0)})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 0, ns.PendingCount())
}

func TestCancelPrefix(t *testing.T) {
	ns := newNotificationServiceForTest(t, &testClock{instant: at(18, 0)})

	ns.Schedule(AlertRequest{Identifier: "lo:a:donabe", FireAt: at(19, 0)})
	ns.Schedule(AlertRequest{Identifier: "lo:a:food", FireAt: at(19, 30)})
	ns.Schedule(AlertRequest{Identifier: "lo:b:donabe", FireAt: at(19, 0)})

	ns.CancelPrefix("lo:a:")
	assert.Equal(t, 1, ns.PendingCount())
}

func TestDispatchDueFiresOnlyDueAlerts(t *testing.T) {
	clock := &testClock{instant: at(19, 0)}
	ns := newNotificationServiceForTest(t, clock)

	ns.Schedule(AlertRequest{Identifier: "lo:a:donabe", Title: "土鍋LO", Body: "due", FireAt: at(19, 0)})
	ns.Schedule(AlertRequest{Identifier: "lo:a:food", Title: "食事LO", Body: "later", FireAt: at(19, 30)})

	ns.DispatchDue()
	assert.Equal(t, 1, ns.PendingCount())

	var notifs []models.Notification
	assert.NoError(t, ns.DB.Find(&notifs).Error)
	assert.Len(t, notifs, 1)
	assert.Equal(t, "lo:a:donabe", notifs[0].Identifier)

	// A fired alert never fires twice.
	ns.DispatchDue()
	assert.NoError(t, ns.DB.Find(&notifs).Error)
	assert.Len(t, notifs, 1)

	clock.instant = at(19, 30)
	ns.DispatchDue()
	assert.Equal(t, 0, ns.PendingCount())
	assert.NoError(t, ns.DB.Find(&notifs).Error)
	assert.Len(t, notifs, 2)
}
