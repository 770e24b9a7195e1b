package services

import (
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/lo-board/board"
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/utils"
	"gorm.io/gorm"
)

// NotificationService is the local Notifier: it keeps one pending alert per
// identifier (re-registering replaces) and a dispatch loop fires due alerts
// to the board hub, logging each into the notifications table.
type NotificationService struct {
	DB       *gorm.DB
	Clock    Clock
	Enabled  bool
	Interval time.Duration
	StopChan chan struct{}

	mu      sync.Mutex
	pending map[string]AlertRequest
}

func NewNotificationService(db *gorm.DB, clock Clock, enabled bool) *NotificationService {
	return &NotificationService{
		DB:       db,
		Clock:    clock,
		Enabled:  enabled,
		Interval: 30 * time.Second,
		StopChan: make(chan struct{}),
		pending:  make(map[string]AlertRequest),
	}
}

// Schedule registers a one-shot alert. When notifications are disabled it
// refuses with ErrPermissionDenied; nothing else about the caller's state
// is affected.
func (ns *NotificationService) Schedule(req AlertRequest) error {
	if !ns.Enabled {
		return ErrPermissionDenied
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.pending[req.Identifier] = req
	return nil
}

// CancelPrefix drops every pending alert whose identifier starts with the
// prefix (one reservation's reminders share a prefix).
func (ns *NotificationService) CancelPrefix(prefix string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for id := range ns.pending {
		if strings.HasPrefix(id, prefix) {
			delete(ns.pending, id)
		}
	}
}

// PendingCount reports how many alerts are waiting to fire.
func (ns *NotificationService) PendingCount() int {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return len(ns.pending)
}

func (ns *NotificationService) Start() {
	go func() {
		ticker := time.NewTicker(ns.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ns.DispatchDue()
			case <-ns.StopChan:
				return
			}
		}
	}()
}

func (ns *NotificationService) Stop() {
	close(ns.StopChan)
}

// DispatchDue fires every alert whose instant has arrived: the alert is
// logged to the notifications table and broadcast to the board. A failed
// write drops the alert; reminders are best effort.
func (ns *NotificationService) DispatchDue() {
	now := ns.Clock.Now()

	ns.mu.Lock()
	var due []AlertRequest
	for id, req := range ns.pending {
		if !req.FireAt.After(now) {
			due = append(due, req)
			delete(ns.pending, id)
		}
	}
	ns.mu.Unlock()

	for _, req := range due {
		notif := models.Notification{
			Identifier: req.Identifier,
			Title:      req.Title,
			Body:       req.Body,
			FiredAt:    req.FireAt,
		}
		if err := ns.DB.Create(&notif).Error; err != nil {
			utils.ErrorLogger.Printf("Failed to log alert %s: %v", req.Identifier, err)
			continue
		}
		board.BroadcastLOAlert(notif)
		utils.InfoLogger.Printf("LO alert fired: %s (%s)", req.Identifier, req.Title)
	}
}
