package models

// LOPhase is the urgency bucket derived from time remaining until a
// reservation's effective end (endAt + extension).
type LOPhase string

const (
	PhaseNormal LOPhase = "normal"
	PhaseWarn60 LOPhase = "warn60" // 60 min left, donabe LO due
	PhaseWarn30 LOPhase = "warn30" // 30 min left, food LO due
	PhaseWarn15 LOPhase = "warn15" // 15 min left, drink LO due
	PhasePassed LOPhase = "passed"
)

// LOKind identifies one of the three last-order milestones.
type LOKind string

const (
	LODonabe LOKind = "donabe"
	LOFood   LOKind = "food"
	LODrink  LOKind = "drink"
)

// LOKinds lists the milestones in due order (60/30/15 minutes before end).
var LOKinds = []LOKind{LODonabe, LOFood, LODrink}

func (k LOKind) Valid() bool {
	switch k {
	case LODonabe, LOFood, LODrink:
		return true
	}
	return false
}

// Label returns the staff-facing name used on the board and in alerts.
func (k LOKind) Label() string {
	switch k {
	case LODonabe:
		return "土鍋LO"
	case LOFood:
		return "食事LO"
	case LODrink:
		return "飲み物LO"
	}
	return string(k)
}
