package utils

import "testing"

func TestValidTZPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+255712345678", true},
		{"255712345678", true},
		{"0712345678", true},
		{"712345678", true},
		{"0612345678", true},
		{"0652345678", true},

		{"0812345678", false},  // no such operator prefix
		{"071234567", false},   // too short
		{"07123456789", false}, // too long
		{"+254712345678", false},
		{"not a phone", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidTZPhone(tt.phone); got != tt.want {
			t.Errorf("ValidTZPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}
