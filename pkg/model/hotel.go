package model

import "io"

type ReservationStatus string

const (
	StatusAvailable ReservationStatus = "available"
	StatusConfirmed ReservationStatus = "confirmed"
)

type Hotel struct {
	ID                string            `json:"_id"`
	Name              string            `json:"name"`
	Type              string            `json:"type"`
	City              string            `json:"city"`
	Address           string            `json:"address"`
	Description       string            `json:"description,omitempty"`
	Rating            float64           `json:"rating"`
	Rooms             int               `json:"rooms"`
	CheapestPrice     float64           `json:"cheapestPrice"`
	Photos            string            `json:"photos,omitempty"`
	ReservationStatus ReservationStatus `json:"reservationStatus,omitempty"`
}

func (h *Hotel) Reserved() bool {
	return h.ReservationStatus == StatusConfirmed
}

// HotelSummary is the slice of a hotel that the API embeds in each booking.
type HotelSummary struct {
	ID            string  `json:"_id"`
	Name          string  `json:"name,omitempty"`
	City          string  `json:"city,omitempty"`
	Address       string  `json:"address,omitempty"`
	Photos        string  `json:"photos,omitempty"`
	CheapestPrice float64 `json:"cheapestPrice,omitempty"`
}

// Upload is a file attached to a multipart request.
type Upload struct {
	FileName string
	Content  io.Reader
}

// HotelForm is the admin form behind POST /hotel/create-hotel.
type HotelForm struct {
	Name          string  `validate:"required,min=2,max=120"`
	Type          string  `validate:"required,max=60"`
	City          string  `validate:"required,max=80"`
	Address       string  `validate:"required,max=200"`
	Description   string  `validate:"max=2000"`
	Rating        float64 `validate:"min=0,max=5"`
	Rooms         int     `validate:"required,min=1"`
	CheapestPrice float64 `validate:"required,gt=0"`
	Image         *Upload `validate:"-"`
}
