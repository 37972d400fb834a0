package handlers

import (
	"devicemap/internal/geo"
)

// boundsQuery is a viewport given as four optional query parameters. Either
// all four are present or none.
type boundsQuery struct {
	North *float64 `form:"north"`
	South *float64 `form:"south"`
	East  *float64 `form:"east"`
	West  *float64 `form:"west"`
}

// bounds returns nil when no edge was given and ok=false when only some were.
func (q boundsQuery) bounds() (b *geo.MapBounds, ok bool) {
	set := 0
	for _, v := range []*float64{q.North, q.South, q.East, q.West} {
		if v != nil {
			set++
		}
	}
	switch set {
	case 0:
		return nil, true
	case 4:
		return &geo.MapBounds{North: *q.North, South: *q.South, East: *q.East, West: *q.West}, true
	default:
		return nil, false
	}
}

// pointQuery is a lat/lng pair given as query parameters.
type pointQuery struct {
	Lat *float64 `form:"lat"`
	Lng *float64 `form:"lng"`
}

func (q pointQuery) point() (*geo.Coordinate, bool) {
	if q.Lat == nil && q.Lng == nil {
		return nil, true
	}
	if q.Lat == nil || q.Lng == nil {
		return nil, false
	}
	c := geo.NewCoordinate(*q.Lat, *q.Lng)
	return &c, true
}
