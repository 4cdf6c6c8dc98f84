package booking

import (
	"math"
	"staybook/pkg/model"
	"time"
)

// Quote is the derived cost of a draft.
type Quote struct {
	Nights int     `json:"nights"`
	Total  float64 `json:"total"`
}

// Nights counts started 24h periods between check-in and check-out, or 0 when
// check-out does not come after check-in.
func Nights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}

func Total(nights int, pricePerNight float64) float64 {
	if nights <= 0 {
		return 0
	}
	return float64(nights) * pricePerNight
}

// QuoteDates prices a stay given as YYYY-MM-DD strings. Unparseable dates quote zero.
func QuoteDates(checkIn, checkOut string, pricePerNight float64) Quote {
	in, err := model.ParseDate(checkIn)
	if err != nil {
		return Quote{}
	}
	out, err := model.ParseDate(checkOut)
	if err != nil {
		return Quote{}
	}
	nights := Nights(in.Time, out.Time)
	return Quote{Nights: nights, Total: Total(nights, pricePerNight)}
}
