package reservation

import (
	"staybook/internal/notify"
	"staybook/pkg/model"
	"sync"
)

const (
	LabelSubmitting = "Booking..."
	LabelReserved   = "Reserved"
	LabelAvailable  = "Book Now"
)

// Tracker remembers the last reservation status read for each hotel and gates
// new bookings on it. It never writes to the server.
type Tracker struct {
	mu       sync.RWMutex
	statuses map[string]model.ReservationStatus
	bus      *notify.Bus
}

func NewTracker(bus *notify.Bus) *Tracker {
	return &Tracker{
		statuses: make(map[string]model.ReservationStatus),
		bus:      bus,
	}
}

// Observe records hotel's current status and reports whether it changed.
func (t *Tracker) Observe(hotel *model.Hotel) bool {
	if hotel == nil || hotel.ID == "" {
		return false
	}

	status := hotel.ReservationStatus
	if status == "" {
		status = model.StatusAvailable
	}

	t.mu.Lock()
	previous, seen := t.statuses[hotel.ID]
	t.statuses[hotel.ID] = status
	t.mu.Unlock()

	changed := !seen || previous != status
	if changed && t.bus != nil {
		t.bus.Publish(notify.Event{
			Kind:    notify.KindReservation,
			Source:  "tracker",
			HotelID: hotel.ID,
			State:   string(status),
		})
	}
	return changed
}

// Confirm marks hotelID reserved after a booking the server accepted.
func (t *Tracker) Confirm(hotelID string) bool {
	return t.Observe(&model.Hotel{ID: hotelID, ReservationStatus: model.StatusConfirmed})
}

func (t *Tracker) Status(hotelID string) (model.ReservationStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	status, ok := t.statuses[hotelID]
	return status, ok
}

// Allowed is false only when the hotel was last seen confirmed.
func (t *Tracker) Allowed(hotelID string) bool {
	status, _ := t.Status(hotelID)
	return status != model.StatusConfirmed
}

func (t *Tracker) Label(hotelID string, submitting bool) string {
	switch {
	case submitting:
		return LabelSubmitting
	case !t.Allowed(hotelID):
		return LabelReserved
	default:
		return LabelAvailable
	}
}

func (t *Tracker) Forget(hotelID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.statuses, hotelID)
}
