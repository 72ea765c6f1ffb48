package models

import (
	"reflect"
	"testing"
	"time"
)

func TestNormalizeNames(t *testing.T) {
	tests := []struct {
		name   string
		legacy string
		names  []string
		want   []string
	}{
		{"current format", "", []string{"Ana Pérez", "Luis Gómez"}, []string{"Ana Pérez", "Luis Gómez"}},
		{"legacy single name", "María López", nil, []string{"María López"}},
		{"current wins over legacy", "María López", []string{"Ana Pérez"}, []string{"Ana Pérez"}},
		{"blanks dropped", "", []string{"  Ana  ", "", "   "}, []string{"Ana"}},
		{"all blank falls back to legacy", "  Pedro  ", []string{"", " "}, []string{"Pedro"}},
		{"nothing at all", "", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeNames(tt.legacy, tt.names)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeNames(%q, %v) = %v, want %v", tt.legacy, tt.names, got, tt.want)
			}
		})
	}
}

func TestCleanNames(t *testing.T) {
	cleaned, blanks := CleanNames([]string{" Ana ", "", "Luis", "  "})
	if blanks != 2 {
		t.Errorf("expected 2 blanks, got %d", blanks)
	}
	want := []string{"Ana", "Luis"}
	if !reflect.DeepEqual(cleaned, want) {
		t.Errorf("cleaned = %v, want %v", cleaned, want)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, ""},
		{[]string{"Ana"}, "Ana"},
		{[]string{"Ana", "Luis"}, "Ana y Luis"},
		{[]string{"Ana", "Luis", "Marta"}, "Ana, Luis y Marta"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.names); got != tt.want {
			t.Errorf("DisplayName(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}

func TestFormatConfirmedAt(t *testing.T) {
	if got := FormatConfirmedAt(time.Time{}); got != "Fecha no disponible" {
		t.Errorf("zero time = %q, want placeholder", got)
	}

	// 2025-12-21 00:30 UTC is 18:30 of the previous day in Managua (UTC-6).
	ts := time.Date(2025, 12, 21, 0, 30, 0, 0, time.UTC)
	if got := FormatConfirmedAt(ts); got != "20/12/2025 18:30" {
		t.Errorf("FormatConfirmedAt = %q, want %q", got, "20/12/2025 18:30")
	}
}
