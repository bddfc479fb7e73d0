package util

import (
	"strings"
	"testing"
)

func TestCoerceCount(t *testing.T) {
	cases := []struct {
		name string
		raw  interface{}
		want int64
	}{
		{"nil", nil, 0},
		{"json number", float64(42), 42},
		{"json float truncates", float64(9.9), 9},
		{"negative json number", float64(-3), 0},
		{"int", 7, 7},
		{"negative int", -7, 0},
		{"int64", int64(12), 12},
		{"numeric string", "150", 150},
		{"padded string", "  8 ", 8},
		{"negative string", "-1", 0},
		{"garbage string", "lots", 0},
		{"empty string", "", 0},
		{"bool", true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoerceCount(tc.raw); got != tc.want {
				t.Errorf("CoerceCount(%#v) = %d, want %d", tc.raw, got, tc.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"abc", "agent_07", "A1_b2_C3", strings.Repeat("a", 20)}
	for _, u := range valid {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", u, err)
		}
	}
	invalid := []string{"", "ab", strings.Repeat("a", 21), "has space", "né", "a-b-c"}
	for _, u := range invalid {
		if err := ValidateUsername(u); err == nil {
			t.Errorf("ValidateUsername(%q) = nil, want error", u)
		}
	}
}

func TestValidateLocationName(t *testing.T) {
	if err := ValidateLocationName("Dhaka"); err != nil {
		t.Errorf("plain name: %v", err)
	}
	if err := ValidateLocationName("   "); err == nil {
		t.Error("blank name should be rejected")
	}
	if err := ValidateLocationName(strings.Repeat("x", 129)); err == nil {
		t.Error("overlong name should be rejected")
	}
}

func TestIsStrongPassword(t *testing.T) {
	strong := []string{"Abcdef12", "Vote2026count", "Xy9" + strings.Repeat("a", 29)}
	for _, p := range strong {
		if !IsStrongPassword(p) {
			t.Errorf("IsStrongPassword(%q) = false, want true", p)
		}
	}
	weak := []string{"", "short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere", "Xy9" + strings.Repeat("a", 30)}
	for _, p := range weak {
		if IsStrongPassword(p) {
			t.Errorf("IsStrongPassword(%q) = true, want false", p)
		}
	}
}
