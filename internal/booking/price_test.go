package booking

import (
	"testing"
	"time"
)

func TestQuoteDates(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		price    float64
		want     Quote
	}{
		{name: "three nights", checkIn: "2025-06-01", checkOut: "2025-06-04", price: 100, want: Quote{Nights: 3, Total: 300}},
		{name: "one night", checkIn: "2025-06-01", checkOut: "2025-06-02", price: 89.5, want: Quote{Nights: 1, Total: 89.5}},
		{name: "same day", checkIn: "2025-06-01", checkOut: "2025-06-01", price: 100, want: Quote{}},
		{name: "checkout before checkin", checkIn: "2025-06-04", checkOut: "2025-06-01", price: 100, want: Quote{}},
		{name: "missing checkout", checkIn: "2025-06-01", checkOut: "", price: 100, want: Quote{}},
		{name: "garbage", checkIn: "tomorrow", checkOut: "2025-06-01", price: 100, want: Quote{}},
		{name: "across month end", checkIn: "2025-01-30", checkOut: "2025-02-02", price: 50, want: Quote{Nights: 3, Total: 150}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuoteDates(tt.checkIn, tt.checkOut, tt.price); got != tt.want {
				t.Errorf("QuoteDates() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNights_PartialDayRoundsUp(t *testing.T) {
	in := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	out := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)

	if got := Nights(in, out); got != 2 {
		t.Errorf("Nights() = %d, want 2", got)
	}
}

func TestTotal_NonPositiveNights(t *testing.T) {
	if got := Total(0, 100); got != 0 {
		t.Errorf("Total(0) = %v", got)
	}
	if got := Total(-2, 100); got != 0 {
		t.Errorf("Total(-2) = %v", got)
	}
}
