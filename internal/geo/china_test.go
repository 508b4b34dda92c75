package geo

import "testing"

func TestProvincesHaveCities(t *testing.T) {
	provinces := Provinces()
	if len(provinces) == 0 {
		t.Fatal("Province list should not be empty")
	}

	seen := map[string]bool{}
	for _, p := range provinces {
		if p.Name == "" {
			t.Error("Province with empty name")
		}
		if seen[p.Name] {
			t.Errorf("Duplicate province %q", p.Name)
		}
		seen[p.Name] = true
		if len(p.Cities) == 0 {
			t.Errorf("Province %q has no cities", p.Name)
		}
	}
}

func TestCitiesOf(t *testing.T) {
	cities := CitiesOf("北京")
	if len(cities) != 1 || cities[0] != "北京市" {
		t.Errorf("Unexpected cities for 北京: %v", cities)
	}

	if CitiesOf("nowhere") != nil {
		t.Error("Unknown province should return nil")
	}
}
