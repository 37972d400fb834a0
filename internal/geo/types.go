package geo

import (
	"errors"
	"fmt"
)

// ErrInvalidBounds is returned by MapBounds.Validate for viewports the area
// filter cannot represent.
var ErrInvalidBounds = errors.New("invalid map bounds")

// Coordinate is a latitude/longitude pair in decimal degrees.
//
// Go Learning Note: Value Types
// Coordinate is 16 bytes and never mutated after construction, so it is passed
// and returned by value everywhere. Pointers are only used where "absent" has to
// be distinguishable from the zero value (for example in a partial update).
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// NewCoordinate creates a Coordinate from latitude and longitude.
func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{Lat: lat, Lng: lng}
}

// Valid reports whether the coordinate lies inside the WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// BoundingBox is an axis-aligned lat/lng rectangle. It has no antimeridian
// support: MinLng is always <= MaxLng.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// Contains reports whether c lies inside the box, edges included.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Coordinate {
	return Coordinate{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}

// Height is the latitude extent in degrees.
func (b BoundingBox) Height() float64 { return b.MaxLat - b.MinLat }

// Width is the longitude extent in degrees.
func (b BoundingBox) Width() float64 { return b.MaxLng - b.MinLng }

// MapBounds is a map viewport as reported by the frontend map widget.
type MapBounds struct {
	North float64 `json:"north" form:"north"`
	South float64 `json:"south" form:"south"`
	East  float64 `json:"east" form:"east"`
	West  float64 `json:"west" form:"west"`
}

// Validate rejects inverted viewports and viewports that cross the
// antimeridian (west > east), which the area filter does not handle.
func (b MapBounds) Validate() error {
	if b.North < b.South {
		return fmt.Errorf("%w: north %.6f is below south %.6f", ErrInvalidBounds, b.North, b.South)
	}
	if b.West > b.East {
		return fmt.Errorf("%w: west %.6f is east of %.6f (antimeridian viewports are not supported)", ErrInvalidBounds, b.West, b.East)
	}
	if !(Coordinate{Lat: b.North, Lng: b.East}).Valid() || !(Coordinate{Lat: b.South, Lng: b.West}).Valid() {
		return fmt.Errorf("%w: edges out of range", ErrInvalidBounds)
	}
	return nil
}

// Contains reports whether c lies inside the viewport, edges included.
func (b MapBounds) Contains(c Coordinate) bool {
	return c.Lat >= b.South && c.Lat <= b.North &&
		c.Lng >= b.West && c.Lng <= b.East
}

// Center returns the viewport midpoint.
func (b MapBounds) Center() Coordinate {
	return Coordinate{
		Lat: (b.North + b.South) / 2,
		Lng: (b.East + b.West) / 2,
	}
}

// BoundingBox converts the viewport into min/max form.
func (b MapBounds) BoundingBox() BoundingBox {
	return BoundingBox{MinLat: b.South, MinLng: b.West, MaxLat: b.North, MaxLng: b.East}
}
