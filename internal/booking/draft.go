package booking

import (
	"staybook/pkg/model"
	"staybook/pkg/validation"
	"time"

	"github.com/go-playground/validator/v10"
)

// Draft is the editable booking form.
type Draft struct {
	CheckInDate  string             `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate string             `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
	Guests       int                `json:"guests" validate:"required,min=1,max=4"`
	Room         model.RoomCategory `json:"room" validate:"required,oneof=standard deluxe suite"`
}

func NewDraft() Draft {
	return Draft{Guests: model.MinGuests, Room: model.RoomStandard}
}

func (d Draft) Request(hotelID string) model.BookingRequest {
	return model.BookingRequest{
		CheckInDate:  d.CheckInDate,
		CheckOutDate: d.CheckOutDate,
		Guests:       d.Guests,
		Room:         d.Room,
		HotelID:      hotelID,
	}
}

type DraftValidator struct {
	validate *validator.Validate
}

func NewDraftValidator() *DraftValidator {
	return &DraftValidator{validate: validation.New()}
}

// Validate checks field rules first, then the date range against today.
func (v *DraftValidator) Validate(d Draft, today time.Time) error {
	if err := validation.Struct(v.validate, &d); err != nil {
		return err
	}

	checkIn, _ := model.ParseDate(d.CheckInDate)
	checkOut, _ := model.ParseDate(d.CheckOutDate)

	var errs validation.ValidationErrors
	if checkIn.Before(startOfDay(today)) {
		errs = append(errs, validation.ValidationError{
			Field:   "checkInDate",
			Message: "checkInDate cannot be in the past",
		})
	}
	if !checkOut.After(checkIn.Time) {
		errs = append(errs, validation.ValidationError{
			Field:   "checkOutDate",
			Message: "checkOutDate must be after checkInDate",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// startOfDay is midnight of t's UTC calendar date.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return model.NewDate(y, m, d).Time
}
