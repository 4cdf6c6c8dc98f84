package notify

import "time"

type Kind string

const (
	// KindNotification is a transient user-facing message.
	KindNotification Kind = "notification"
	KindState        Kind = "state"
	KindReservation  Kind = "reservation"
	KindInvalidated  Kind = "invalidated"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Level     Level     `json:"level,omitempty"`
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source,omitempty"`
	State     string    `json:"state,omitempty"`
	Keys      []string  `json:"keys,omitempty"`
	HotelID   string    `json:"hotelId,omitempty"`
	BookingID string    `json:"bookingId,omitempty"`
	At        time.Time `json:"at"`
}

// Success builds a success notification.
func Success(source, message string) Event {
	return Event{Kind: KindNotification, Level: LevelSuccess, Source: source, Message: message}
}

// Failure builds an error notification.
func Failure(source, message string) Event {
	return Event{Kind: KindNotification, Level: LevelError, Source: source, Message: message}
}
