package classify

import (
	"math/rand"
	"slices"
	"testing"
)

func TestCountry(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"NAVSTAR 81 (USA 289)", "USA"},
		{"GPS BIIR-2  (PRN 13)", "USA"},
		{"usa 245", "USA"},
		{"INDIA SAT", "India"},
		{"CZ-4C R/B", "China"},
		{"COSMOS 2545", "Russia"},
		{"RUSSIAN TEST", "Russia"},
		{"ESAIL", "EU"},
		{"JAXA TESTSAT", "Japan"},
		{"ISS (ZARYA)", "Unknown"},
		{"", "Unknown"},
		// First match wins: USA is tested before China.
		{"CHINA GPS RELAY", "USA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Country(tt.name); got != tt.want {
				t.Errorf("Country(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"GPS BIIF-1", "GPS"},
		{"NOAA WEATHER 1", "Weather"},
		{"METEOSAT-11", "Weather"},
		{"INTELSAT COMM 5", "Communications"},
		{"TELECOM 3A", "Communications"},
		{"MILSTAR-2", "Military"},
		{"NROL-44", "Military"},
		{"RESOURCESAT-2", "Earth Observation"},
		{"EO-1", "Earth Observation"},
		{"SCIENCE EXPLORER", "Science"},
		{"RESEARCH SAT", "Science"},
		{"ISS (ZARYA)", "Unknown"},
		// "navstar 81 (usa 289)" contains no type keyword.
		{"NAVSTAR 81 (USA 289)", "Unknown"},
		// "gps" precedes "comm".
		{"GPS COMM", "GPS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Type(tt.name); got != tt.want {
				t.Errorf("Type(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

// TestClassifierTotal verifies that arbitrary names always map to a known tag.
func TestClassifierTotal(t *testing.T) {
	countries := Countries()
	types := Types()
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 -()/é")

	for i := 0; i < 2000; i++ {
		n := rng.Intn(24)
		name := make([]rune, n)
		for j := range name {
			name[j] = alphabet[rng.Intn(len(alphabet))]
		}
		s := string(name)
		if c := Country(s); !slices.Contains(countries, c) {
			t.Fatalf("Country(%q) = %q, not a known tag", s, c)
		}
		if ty := Type(s); !slices.Contains(types, ty) {
			t.Fatalf("Type(%q) = %q, not a known tag", s, ty)
		}
	}
}

func TestTagLists(t *testing.T) {
	if got := Countries(); len(got) != 7 || got[len(got)-1] != Unknown {
		t.Errorf("Countries() = %v", got)
	}
	if got := Types(); len(got) != 7 || got[len(got)-1] != Unknown {
		t.Errorf("Types() = %v", got)
	}
}
