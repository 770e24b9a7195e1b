package services

import (
	"math"

	"github.com/yeremiapane/lo-board/models"
)

// DragStepMinutes is the horizontal snapping grid for time shifts.
const DragStepMinutes = 15

// PlanTimeShift converts a horizontal drag displacement into a snapped
// minute delta. Raw minutes are snapped to the nearest multiple of
// stepMinutes with ties rounding away from zero; a result of 0 means the
// drag commits as a no-op.
func PlanTimeShift(dragDeltaX, hourWidth float64, stepMinutes int) int {
	if hourWidth <= 0 || stepMinutes <= 0 {
		return 0
	}
	rawMinutes := dragDeltaX / hourWidth * 60
	step := float64(stepMinutes)
	return int(math.Round(rawMinutes/step) * step)
}

// PlanTableMove converts a vertical drag displacement into a target table.
// The row delta is rounded to the nearest whole row and the resulting rank
// clamped to the table list; the current rank, a clamped-back rank, or an
// empty list all yield ok == false (no move).
func PlanTableMove(dragDeltaY, rowHeight float64, currentRank int, tables []models.Table) (target models.Table, ok bool) {
	if len(tables) == 0 || rowHeight <= 0 {
		return models.Table{}, false
	}

	deltaRows := int(math.Round(dragDeltaY / rowHeight))
	if deltaRows == 0 {
		return models.Table{}, false
	}

	newRank := currentRank + deltaRows
	if newRank < 0 {
		newRank = 0
	}
	if newRank > len(tables)-1 {
		newRank = len(tables) - 1
	}
	if newRank == currentRank {
		return models.Table{}, false
	}
	return tables[newRank], true
}
