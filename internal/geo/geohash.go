// Package geo holds the geospatial core of the device service: geohash
// encoding and decoding, neighbor lookup, great-circle distance, viewport
// filtering, and an R-tree index for radius queries.
//
// Go Learning Note: What is a Geohash?
// A geohash encodes a latitude/longitude pair as a short base32 string by
// repeatedly halving the longitude and latitude ranges. Nearby points share a
// common prefix, and every extra character shrinks the cell:
//
//	1 → ~5000 km    4 → ~39 km     7 → ~153 m    10 → ~1.2 m
//	2 → ~1250 km    5 → ~4.9 km    8 → ~38 m     11 → ~15 cm
//	3 → ~156 km     6 → ~1.2 km    9 → ~4.8 m    12 → ~3.7 cm
//
// Devices are stored with precision 9 (~4.8 m cells) unless configured otherwise.
package geo

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MinPrecision and MaxPrecision bound the geohash length accepted by Encode.
	MinPrecision = 1
	MaxPrecision = 12

	// DefaultPrecision is the length used for device geohashes.
	DefaultPrecision = 9

	// base32 is the geohash alphabet. 'a', 'i', 'l' and 'o' are left out.
	base32 = "0123456789bcdefghjkmnpqrstuvwxyz"
)

var (
	ErrInvalidPrecision = errors.New("invalid geohash precision")
	ErrInvalidGeohash   = errors.New("invalid geohash")
)

// Direction names one of the eight compass neighbors of a cell.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Directions lists every Direction in the order Neighbors returns them.
var Directions = [8]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

var directionNames = [8]string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}

func (d Direction) String() string {
	if d < North || d > NorthWest {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection maps "n", "ne", ..., "nw" (case-insensitive) to a Direction.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(s)
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// offset returns the (lat, lng) step in cells for the direction.
func (d Direction) offset() (dLat, dLng float64) {
	switch d {
	case North:
		return 1, 0
	case NorthEast:
		return 1, 1
	case East:
		return 0, 1
	case SouthEast:
		return -1, 1
	case South:
		return -1, 0
	case SouthWest:
		return -1, -1
	case West:
		return 0, -1
	case NorthWest:
		return 1, -1
	}
	return 0, 0
}

// base32Index maps an alphabet byte to its 5-bit value, or -1.
var base32Index [256]int8

func init() {
	for i := range base32Index {
		base32Index[i] = -1
	}
	for i := 0; i < len(base32); i++ {
		base32Index[base32[i]] = int8(i)
	}
}

// ValidPrecision reports whether Encode accepts the precision.
func ValidPrecision(precision int) bool {
	return precision >= MinPrecision && precision <= MaxPrecision
}

// Encode converts a coordinate to a geohash of exactly precision characters.
//
// The lng range is bisected first, then lat, alternating. Each step emits a 1
// bit when the value lies in the upper half (value >= midpoint), and every 5
// bits become one base32 character. Latitude and longitude are not range
// checked here; see Coordinate.Valid.
func Encode(lat, lng float64, precision int) (string, error) {
	if !ValidPrecision(precision) {
		return "", fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidPrecision, precision, MinPrecision, MaxPrecision)
	}

	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0

	var hash strings.Builder
	hash.Grow(precision)
	isLng := true
	bit := 0
	ch := 0

	for hash.Len() < precision {
		if isLng {
			mid := (minLng + maxLng) / 2
			if lng >= mid {
				ch |= 1 << (4 - bit)
				minLng = mid
			} else {
				maxLng = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		isLng = !isLng
		bit++
		if bit == 5 {
			hash.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String(), nil
}

// EncodeCoordinate is Encode for a Coordinate value.
func EncodeCoordinate(c Coordinate, precision int) (string, error) {
	return Encode(c.Lat, c.Lng, precision)
}

// DecodeBBox replays the bisection encoded in hash and returns the final cell.
func DecodeBBox(hash string) (BoundingBox, error) {
	if hash == "" {
		return BoundingBox{}, fmt.Errorf("%w: empty", ErrInvalidGeohash)
	}
	if len(hash) > MaxPrecision {
		return BoundingBox{}, fmt.Errorf("%w: length %d exceeds %d", ErrInvalidGeohash, len(hash), MaxPrecision)
	}

	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0
	isLng := true

	for i := 0; i < len(hash); i++ {
		cd := base32Index[hash[i]]
		if cd < 0 {
			return BoundingBox{}, fmt.Errorf("%w: character %q at position %d", ErrInvalidGeohash, hash[i], i)
		}
		for j := 4; j >= 0; j-- {
			bit := (cd >> j) & 1
			if isLng {
				mid := (minLng + maxLng) / 2
				if bit == 1 {
					minLng = mid
				} else {
					maxLng = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if bit == 1 {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isLng = !isLng
		}
	}

	return BoundingBox{MinLat: minLat, MinLng: minLng, MaxLat: maxLat, MaxLng: maxLng}, nil
}

// Decode returns the center of the cell named by hash.
func Decode(hash string) (Coordinate, error) {
	box, err := DecodeBBox(hash)
	if err != nil {
		return Coordinate{}, err
	}
	return box.Center(), nil
}

// Neighbor returns the adjacent cell of the same precision in direction d.
//
// The cell center is moved by one cell height/width and re-encoded. Latitude
// is clamped to ±90, so the northern neighbor of a cell touching the north
// pole is the cell itself. Longitude wraps around the antimeridian.
func Neighbor(hash string, d Direction) (string, error) {
	box, err := DecodeBBox(hash)
	if err != nil {
		return "", err
	}
	return neighborOf(box, len(hash), d)
}

// Neighbors returns the 8 adjacent cells of hash in the order
// N, NE, E, SE, S, SW, W, NW (see Directions).
func Neighbors(hash string) ([]string, error) {
	box, err := DecodeBBox(hash)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(Directions))
	for _, d := range Directions {
		n, err := neighborOf(box, len(hash), d)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func neighborOf(box BoundingBox, precision int, d Direction) (string, error) {
	center := box.Center()
	dLat, dLng := d.offset()

	lat := clampLat(center.Lat + dLat*box.Height())
	lng := wrapLng(center.Lng + dLng*box.Width())
	return Encode(lat, lng, precision)
}

func clampLat(lat float64) float64 {
	if lat > 90 {
		return 90
	}
	if lat < -90 {
		return -90
	}
	return lat
}

// wrapLng folds lng into [-180, 180).
func wrapLng(lng float64) float64 {
	if lng >= -180 && lng < 180 {
		return lng
	}
	for lng >= 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}

// accuracyTable holds the approximate cell size per precision, index 0 unused.
var accuracyTable = [MaxPrecision + 1]string{
	"",
	"~5,000 km",
	"~1,250 km",
	"~156 km",
	"~39 km",
	"~4.9 km",
	"~1.2 km",
	"~153 m",
	"~38 m",
	"~4.8 m",
	"~1.2 m",
	"~15 cm",
	"~3.7 cm",
}

// ApproximateAccuracy describes the cell size of a precision in words. The
// values are fixed labels, not computed from the cell geometry.
func ApproximateAccuracy(precision int) string {
	if !ValidPrecision(precision) {
		return "unknown"
	}
	return accuracyTable[precision]
}
