package cache

import (
	"staybook/internal/notify"
)

type MutationKind string

const (
	CreateHotel   MutationKind = "create_hotel"
	DeleteHotel   MutationKind = "delete_hotel"
	BookHotel     MutationKind = "book_hotel"
	CancelBooking MutationKind = "cancel_booking"
	UpdateProfile MutationKind = "update_profile"
)

// Mutation describes a successful write against the API.
type Mutation struct {
	Kind      MutationKind
	HotelID   string
	BookingID string
	UserID    string
}

type Coordinator struct {
	cache Cache
	bus   *notify.Bus
}

func NewCoordinator(c Cache, bus *notify.Bus) *Coordinator {
	return &Coordinator{cache: c, bus: bus}
}

// Affected lists the reads made stale by m.
func (c *Coordinator) Affected(m Mutation) []string {
	switch m.Kind {
	case CreateHotel:
		return []string{KeyHotels}
	case DeleteHotel:
		return withID(HotelKey, m.HotelID, KeyHotels)
	case BookHotel:
		return withID(HotelKey, m.HotelID, KeyUserBookings)
	case CancelBooking:
		return withID(HotelKey, m.HotelID, KeyUserBookings)
	case UpdateProfile:
		return withID(UserKey, m.UserID)
	default:
		return nil
	}
}

func withID(key func(string) string, id string, base ...string) []string {
	if id == "" {
		return base
	}
	return append(base, key(id))
}

// Settle invalidates everything m affects and announces it. Call it only after
// the mutation succeeded.
func (c *Coordinator) Settle(m Mutation) []string {
	keys := c.Affected(m)
	if len(keys) == 0 {
		return nil
	}
	c.cache.Invalidate(keys...)

	if c.bus != nil {
		c.bus.Publish(notify.Event{
			Kind:      notify.KindInvalidated,
			Source:    string(m.Kind),
			Keys:      keys,
			HotelID:   m.HotelID,
			BookingID: m.BookingID,
		})
	}
	return keys
}
