package services

import "github.com/google/uuid"

// DragPhase is the state of the bar-drag gesture.
type DragPhase int

const (
	DragIdle DragPhase = iota
	DragArmed
	DragDragging
)

// DragGesture is the finite-state machine behind bar dragging:
// idle -> armed (deliberate hold) -> dragging -> idle on release or cancel.
// Movement before arming is ignored, which is what keeps an ordinary tap
// from relocating a reservation.
type DragGesture struct {
	phase         DragPhase
	reservationID uuid.UUID
	offsetX       float64
	offsetY       float64
}

func NewDragGesture() *DragGesture {
	return &DragGesture{phase: DragIdle}
}

func (g *DragGesture) Phase() DragPhase { return g.phase }

// Arm marks the reservation as movable after a deliberate hold. Arming a
// different reservation re-targets the gesture.
func (g *DragGesture) Arm(reservationID uuid.UUID) {
	g.phase = DragArmed
	g.reservationID = reservationID
	g.offsetX = 0
	g.offsetY = 0
}

// Move tracks the live displacement. It only takes effect once armed for
// the same reservation; anything else is ignored.
func (g *DragGesture) Move(reservationID uuid.UUID, dx, dy float64) bool {
	if g.phase == DragIdle || g.reservationID != reservationID {
		return false
	}
	g.phase = DragDragging
	g.offsetX = dx
	g.offsetY = dy
	return true
}

// Release commits the gesture and resets to idle. ok is false when nothing
// was being dragged; a zero-delta commit is valid and resolves to a no-op
// downstream.
func (g *DragGesture) Release() (reservationID uuid.UUID, dx, dy float64, ok bool) {
	if g.phase != DragDragging {
		g.reset()
		return uuid.Nil, 0, 0, false
	}
	reservationID, dx, dy = g.reservationID, g.offsetX, g.offsetY
	g.reset()
	return reservationID, dx, dy, true
}

// Cancel abandons the gesture without committing.
func (g *DragGesture) Cancel() {
	g.reset()
}

func (g *DragGesture) reset() {
	g.phase = DragIdle
	g.reservationID = uuid.Nil
	g.offsetX = 0
	g.offsetY = 0
}
