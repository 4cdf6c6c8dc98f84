package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantError bool
	}{
		{name: "date only", input: "2025-06-01", want: "2025-06-01"},
		{name: "rfc3339 utc", input: "2025-06-04T00:00:00.000Z", want: "2025-06-04"},
		{name: "rfc3339 with offset", input: "2025-06-04T23:30:00-02:00", want: "2025-06-05"},
		{name: "slashes", input: "06/01/2025", wantError: true},
		{name: "empty", input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseDate(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if !tt.wantError && got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		In  Date `json:"in"`
		Out Date `json:"out"`
	}
	if err := json.Unmarshal([]byte(`{"in":"2025-06-01T00:00:00.000Z","out":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.In.Equal(NewDate(2025, time.June, 1).Time) {
		t.Errorf("in = %v", payload.In)
	}
	if !payload.Out.IsZero() {
		t.Errorf("null should decode to zero date, got %v", payload.Out)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"in":"2025-06-01","out":null}` {
		t.Errorf("marshal = %s", data)
	}
}

func TestBooking_HotelRef(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantID   string
		wantName string
	}{
		{
			name:     "embedded summary",
			body:     `{"_id":"b1","hotel":{"_id":"h1","name":"Grand"},"status":"confirmed"}`,
			wantID:   "h1",
			wantName: "Grand",
		},
		{
			name:   "bare id",
			body:   `{"_id":"b1","hotel":"h2","status":"confirmed"}`,
			wantID: "h2",
		},
		{
			name: "missing hotel",
			body: `{"_id":"b1","status":"cancelled"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Booking
			if err := json.Unmarshal([]byte(tt.body), &b); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if b.HotelID() != tt.wantID {
				t.Errorf("HotelID() = %q, want %q", b.HotelID(), tt.wantID)
			}
			if b.Hotel != nil && b.Hotel.Name != tt.wantName {
				t.Errorf("Hotel.Name = %q, want %q", b.Hotel.Name, tt.wantName)
			}
		})
	}
}

func TestBooking_Cancellable(t *testing.T) {
	if !(&Booking{Status: BookingConfirmed}).Cancellable() {
		t.Errorf("confirmed booking should be cancellable")
	}
	if (&Booking{Status: BookingCancelled}).Cancellable() {
		t.Errorf("cancelled booking should not be cancellable")
	}
}
