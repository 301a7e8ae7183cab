package logger

import "testing"

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
		{"", "***@***"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.in); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactPhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"905321234567", "********4567"},
		{"4567", "****"},
		{"", "****"},
	}
	for _, tt := range tests {
		if got := RedactPhone(tt.in); got != tt.want {
			t.Errorf("RedactPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactPIIValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{"submitted_pass", "hunter2", "***"},
		{"secret_key", "abc", "***"},
		{"submitted_email", "john.doe@example.com", "jo***@example.com"},
		{"phone", "905321234567", "********4567"},
		{"detail", "sent to john.doe@example.com ok", "sent to jo***@example.com ok"},
		{"campaign_id", "7", "7"},
	}
	for _, tt := range tests {
		if got := redactPIIValue(tt.key, tt.val); got != tt.want {
			t.Errorf("redactPIIValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}
