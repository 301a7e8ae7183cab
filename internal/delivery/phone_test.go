package delivery

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name, phone, cc, want string
	}{
		{"national with leading zero", "05321234567", "90", "905321234567"},
		{"national with separators", "0532 123 45 67", "90", "905321234567"},
		{"already international", "905321234567", "90", "905321234567"},
		{"plus prefix kept as-is", "+905321234567", "90", "905321234567"},
		{"plus with other country", "+441234567890", "90", "441234567890"},
		{"no leading zero", "5321234567", "90", "905321234567"},
		{"parentheses and dashes", "(0532) 123-45-67", "90", "905321234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.phone, tt.cc); got != tt.want {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.phone, tt.cc, got, tt.want)
			}
		})
	}
}
