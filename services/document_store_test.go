package services

import (
	"regexp"
	"testing"
)

func TestThemePrefix(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"climate_change", "CC"},
		{"marine_biology", "MB"},
		{"public_health_policy", "PH"},
		{"physics", "OT"},
		{"", "OT"},
		{"  renewable_energy  ", "RE"},
	}

	for _, tc := range cases {
		if got := themePrefix(tc.code); got != tc.want {
			t.Errorf("themePrefix(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestNewParticipantCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]{2}-[A-F0-9]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code := NewParticipantCode("climate_change")
		if !pattern.MatchString(code) {
			t.Fatalf("unexpected code format: %q", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code generated: %q", code)
		}
		seen[code] = true
	}
}
