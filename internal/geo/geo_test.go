package geo

import "testing"

var (
	sofia   = Point{Latitude: 42.6977, Longitude: 23.3219}
	plovdiv = Point{Latitude: 42.1354, Longitude: 24.7453}
)

func TestDistance_SamePoint(t *testing.T) {
	points := []Point{sofia, plovdiv, {0, 0}, {90, 180}, {-90, -180}}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %d, want 0", p, p, d)
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{sofia, plovdiv},
		{{0, 0}, {0, 90}},
		{{51.5074, -0.1278}, {40.7128, -74.0060}},
		{{-33.8688, 151.2093}, {35.6762, 139.6503}},
	}
	for _, pair := range pairs {
		ab := Distance(pair[0], pair[1])
		ba := Distance(pair[1], pair[0])
		if ab != ba {
			t.Errorf("Distance not symmetric for %v/%v: %d vs %d", pair[0], pair[1], ab, ba)
		}
		if ab < 0 {
			t.Errorf("Distance(%v, %v) = %d, want non-negative", pair[0], pair[1], ab)
		}
	}
}

func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		min, max int
	}{
		{"sofia-plovdiv", sofia, plovdiv, 128000, 134000},
		{"quarter equator", Point{0, 0}, Point{0, 90}, 10007000, 10008000},
		{"antipodal", Point{0, 0}, Point{0, 180}, 20015000, 20016000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(tt.a, tt.b)
			if d < tt.min || d > tt.max {
				t.Errorf("Distance = %d, want within [%d, %d]", d, tt.min, tt.max)
			}
		})
	}
}

func TestPoint_Valid(t *testing.T) {
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{90, 180}, true},
		{Point{-90, -180}, true},
		{Point{90.0001, 0}, false},
		{Point{-90.0001, 0}, false},
		{Point{0, 180.5}, false},
		{Point{0, -181}, false},
	}
	for _, tt := range tests {
		if got := tt.p.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.p, got, tt.want)
		}
	}
}
