package handlers

import (
	"testing"

	"devicemap/internal/geo"
)

func f(v float64) *float64 { return &v }

func TestBoundsQuery(t *testing.T) {
	tests := []struct {
		name   string
		q      boundsQuery
		want   *geo.MapBounds
		wantOK bool
	}{
		{"none", boundsQuery{}, nil, true},
		{"all four", boundsQuery{North: f(44.24), South: f(44.22), East: f(-76.47), West: f(-76.50)},
			&geo.MapBounds{North: 44.24, South: 44.22, East: -76.47, West: -76.50}, true},
		{"zero edges count as set", boundsQuery{North: f(0), South: f(0), East: f(0), West: f(0)},
			&geo.MapBounds{}, true},
		{"north only", boundsQuery{North: f(44.24)}, nil, false},
		{"missing west", boundsQuery{North: f(44.24), South: f(44.22), East: f(-76.47)}, nil, false},
		{"east and west", boundsQuery{East: f(-76.47), West: f(-76.50)}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.q.bounds()
			if ok != tt.wantOK {
				t.Fatalf("bounds() ok = %v, want %v", ok, tt.wantOK)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("bounds() = %+v, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("bounds() = %v, want %+v", got, *tt.want)
			}
		})
	}
}

func TestPointQuery(t *testing.T) {
	tests := []struct {
		name   string
		q      pointQuery
		want   *geo.Coordinate
		wantOK bool
	}{
		{"none", pointQuery{}, nil, true},
		{"both", pointQuery{Lat: f(44.2312), Lng: f(-76.4860)}, &geo.Coordinate{Lat: 44.2312, Lng: -76.4860}, true},
		{"origin", pointQuery{Lat: f(0), Lng: f(0)}, &geo.Coordinate{}, true},
		{"lat only", pointQuery{Lat: f(44.2312)}, nil, false},
		{"lng only", pointQuery{Lng: f(-76.4860)}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.q.point()
			if ok != tt.wantOK {
				t.Fatalf("point() ok = %v, want %v", ok, tt.wantOK)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("point() = %+v, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("point() = %v, want %+v", got, *tt.want)
			}
		})
	}
}
