package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  Grand Hotel  ",
			want:  "Grand Hotel",
		},
		{
			name:  "multiple spaces",
			input: "Grand    Hotel",
			want:  "Grand Hotel",
		},
		{
			name:  "tabs and newlines",
			input: "Grand\t\nHotel",
			want:  "Grand Hotel",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeLabelAndEmail(t *testing.T) {
	if got := NormalizeLabel("  Boutique   HOTEL "); got != "boutique hotel" {
		t.Errorf("NormalizeLabel() = %q", got)
	}
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  Sea   view rooms.\n  Free   breakfast.  \n")
	want := "Sea view rooms.\nFree breakfast."
	if got != want {
		t.Errorf("NormalizeText() = %q, want %q", got, want)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "http://localhost:8000/api", want: "http://localhost:8000/api"},
		{input: " http://LocalHost:8000/api/ ", want: "http://localhost:8000/api"},
		{input: "https://Booking.Example.com/api//", want: "https://booking.example.com/api"},
		{input: "localhost:8000/api", want: "http://localhost:8000/api"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeBaseURL(tt.input); got != tt.want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRoundMoney(t *testing.T) {
	if got := RoundMoney(120.456); got != 120.46 {
		t.Errorf("RoundMoney() = %v", got)
	}
}
