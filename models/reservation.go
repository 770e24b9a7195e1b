package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultStayMinutes is the stay applied when a reservation is created
// without an explicit end time (2-hour seating).
const DefaultStayMinutes = 120

type Reservation struct {
	ID      uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	Note    string    `gorm:"type:text"`
	StartAt time.Time `gorm:"not null;index"`
	EndAt   time.Time `gorm:"not null"`
	TableID uuid.UUID `gorm:"type:varchar(36);not null;index"`

	// LO check state. A *LOAt timestamp is set iff its flag is true and
	// records the first moment the flag was switched on.
	DidDonabeLO bool
	DidFoodLO   bool
	DidDrinkLO  bool
	DonabeLOAt  *time.Time
	FoodLOAt    *time.Time
	DrinkLOAt   *time.Time

	ExtendMinutes int  `gorm:"not null;default:0"`
	IsCheckedOut  bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (r *Reservation) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.EndAt.IsZero() {
		r.EndAt = r.StartAt.Add(DefaultStayMinutes * time.Minute)
	}
	return nil
}

// EffectiveEnd is endAt shifted by the extension. EndAt itself never moves
// when the stay is extended.
func (r *Reservation) EffectiveEnd() time.Time {
	return r.EndAt.Add(time.Duration(r.ExtendMinutes) * time.Minute)
}

// LORecord is the tagged view of one milestone's flag/timestamp pair.
type LORecord struct {
	Kind          LOKind
	Done          bool
	FirstMarkedAt *time.Time
}

// fields resolves a kind to its flag and timestamp columns so that every
// toggle goes through the one SetMilestone path.
func (r *Reservation) fields(kind LOKind) (done *bool, at **time.Time) {
	switch kind {
	case LODonabe:
		return &r.DidDonabeLO, &r.DonabeLOAt
	case LOFood:
		return &r.DidFoodLO, &r.FoodLOAt
	case LODrink:
		return &r.DidDrinkLO, &r.DrinkLOAt
	}
	return nil, nil
}

// Milestones returns the three LO records in due order.
func (r *Reservation) Milestones() []LORecord {
	records := make([]LORecord, 0, len(LOKinds))
	for _, kind := range LOKinds {
		done, at := r.fields(kind)
		records = append(records, LORecord{Kind: kind, Done: *done, FirstMarkedAt: *at})
	}
	return records
}

// SetMilestone applies one LO toggle. Switching on stamps now only if the
// timestamp is still unset; switching off clears it, so a later re-check
// stamps fresh. Setting the current value again changes nothing. Returns
// whether any field changed.
func (r *Reservation) SetMilestone(kind LOKind, done bool, now time.Time) bool {
	flag, at := r.fields(kind)
	if flag == nil || *flag == done {
		return false
	}
	*flag = done
	if done {
		if *at == nil {
			stamp := now
			*at = &stamp
		}
	} else {
		*at = nil
	}
	return true
}

// NextPendingLO returns the first milestone not yet checked, in due order.
func (r *Reservation) NextPendingLO() (LOKind, bool) {
	for _, rec := range r.Milestones() {
		if !rec.Done {
			return rec.Kind, true
		}
	}
	return "", false
}
