package model

import (
	"bytes"
	"encoding/json"
	"time"
)

type RoomCategory string

const (
	RoomStandard RoomCategory = "standard"
	RoomDeluxe   RoomCategory = "deluxe"
	RoomSuite    RoomCategory = "suite"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

const (
	MinGuests = 1
	MaxGuests = 4
)

type Booking struct {
	ID           string        `json:"_id"`
	User         string        `json:"user,omitempty"`
	Hotel        *HotelRef     `json:"hotel,omitempty"`
	CheckInDate  Date          `json:"checkInDate"`
	CheckOutDate Date          `json:"checkOutDate"`
	Guests       int           `json:"guests"`
	Room         RoomCategory  `json:"room"`
	TotalPrice   float64       `json:"totalPrice"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt,omitempty"`
}

func (b *Booking) Cancellable() bool {
	return b.Status == BookingConfirmed
}

func (b *Booking) HotelID() string {
	if b.Hotel == nil {
		return ""
	}
	return b.Hotel.ID
}

// HotelRef is a booking's hotel: either an embedded summary or a bare id string.
type HotelRef struct {
	HotelSummary
}

func (r *HotelRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &r.ID)
	}
	return json.Unmarshal(trimmed, &r.HotelSummary)
}

// BookingRequest is the JSON body of POST /booking/book-hotel.
type BookingRequest struct {
	CheckInDate  string       `json:"checkInDate"`
	CheckOutDate string       `json:"checkOutDate"`
	Guests       int          `json:"guests"`
	Room         RoomCategory `json:"room"`
	HotelID      string       `json:"hotelId"`
}

// CancelRequest is the JSON body of PATCH /booking/book-cancel/:bookingId.
type CancelRequest struct {
	HotelID string `json:"hotelId"`
}
