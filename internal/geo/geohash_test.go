package geo

import (
	"errors"
	"math"
	"testing"

	mmgeohash "github.com/mmcloughlin/geohash"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name      string
		lat       float64
		lng       float64
		precision int
		want      string
	}{
		{
			name:      "Kingston City Hall",
			lat:       44.2312,
			lng:       -76.4860,
			precision: 9,
			want:      "drcees097",
		},
		{
			name:      "Queen's University",
			lat:       44.2280,
			lng:       -76.4951,
			precision: 9,
			want:      "drcee73yy",
		},
		{
			name:      "San Francisco",
			lat:       37.7749,
			lng:       -122.4194,
			precision: 6,
			want:      "9q8yyk",
		},
		{
			name:      "New York",
			lat:       40.7128,
			lng:       -74.0060,
			precision: 6,
			want:      "dr5reg",
		},
		{
			name:      "London",
			lat:       51.5074,
			lng:       -0.1278,
			precision: 6,
			want:      "gcpvj0",
		},
		{
			name:      "Single character",
			lat:       44.2312,
			lng:       -76.4860,
			precision: 1,
			want:      "d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.lat, tt.lng, tt.precision)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeInvalidPrecision(t *testing.T) {
	for _, p := range []int{-1, 0, 13, 100} {
		_, err := Encode(44.2312, -76.4860, p)
		if !errors.Is(err, ErrInvalidPrecision) {
			t.Errorf("Encode(precision=%d) error = %v, want ErrInvalidPrecision", p, err)
		}
	}
}

func TestEncodeLength(t *testing.T) {
	for p := MinPrecision; p <= MaxPrecision; p++ {
		hash, err := Encode(-33.8688, 151.2093, p)
		if err != nil {
			t.Fatalf("Encode(precision=%d) error = %v", p, err)
		}
		if len(hash) != p {
			t.Errorf("len(Encode(precision=%d)) = %d", p, len(hash))
		}
	}
}

func TestEncodeMatchesReference(t *testing.T) {
	coords := []Coordinate{
		{44.2312, -76.4860},
		{44.2350, -76.4800},
		{37.7749, -122.4194},
		{-33.8688, 151.2093},
		{35.6762, 139.6503},
		{-54.8019, -68.3030},
		{64.1466, -21.9426},
	}

	for _, c := range coords {
		for _, p := range []int{1, 5, 9, 12} {
			got, err := EncodeCoordinate(c, p)
			if err != nil {
				t.Fatalf("Encode(%v, %d) error = %v", c, p, err)
			}
			want := mmgeohash.EncodeWithPrecision(c.Lat, c.Lng, uint(p))
			if got != want {
				t.Errorf("Encode(%v, %d) = %s, reference %s", c, p, got, want)
			}
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		hash      string
		wantLat   float64
		wantLng   float64
		tolerance float64
	}{
		{
			name:      "San Francisco",
			hash:      "9q8yyk",
			wantLat:   37.7749,
			wantLng:   -122.4194,
			tolerance: 0.01,
		},
		{
			name:      "New York",
			hash:      "dr5reg",
			wantLat:   40.7128,
			wantLng:   -74.0060,
			tolerance: 0.01,
		},
		{
			name:      "Kingston",
			hash:      "drcees097",
			wantLat:   44.2312,
			wantLng:   -76.4860,
			tolerance: 0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.hash)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if math.Abs(got.Lat-tt.wantLat) > tt.tolerance {
				t.Errorf("Decode() lat = %v, want %v", got.Lat, tt.wantLat)
			}
			if math.Abs(got.Lng-tt.wantLng) > tt.tolerance {
				t.Errorf("Decode() lng = %v, want %v", got.Lng, tt.wantLng)
			}
		})
	}
}

func TestDecodeWithinFiveMetres(t *testing.T) {
	in := NewCoordinate(44.2312, -76.4860)
	hash, err := EncodeCoordinate(in, 9)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(hash)
	if err != nil {
		t.Fatal(err)
	}
	if d := HaversineDistance(in, out) * 1000; d > 5 {
		t.Errorf("decoded center is %.2f m from input", d)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"letter a", "drcea"},
		{"letter i", "idr"},
		{"letter l", "dr5l"},
		{"letter o", "o"},
		{"uppercase", "DRCEES"},
		{"punctuation", "9q8-yk"},
		{"too long", "drcees097drcees"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.hash); !errors.Is(err, ErrInvalidGeohash) {
				t.Errorf("Decode(%q) error = %v, want ErrInvalidGeohash", tt.hash, err)
			}
			if _, err := DecodeBBox(tt.hash); !errors.Is(err, ErrInvalidGeohash) {
				t.Errorf("DecodeBBox(%q) error = %v, want ErrInvalidGeohash", tt.hash, err)
			}
		})
	}
}

func TestDecodeBBoxMatchesReference(t *testing.T) {
	for _, hash := range []string{"d", "9q8yyk", "drcees097", "u4pruydqqvj"} {
		got, err := DecodeBBox(hash)
		if err != nil {
			t.Fatalf("DecodeBBox(%q) error = %v", hash, err)
		}
		want := mmgeohash.BoundingBox(hash)
		const eps = 1e-9
		if math.Abs(got.MinLat-want.MinLat) > eps || math.Abs(got.MaxLat-want.MaxLat) > eps ||
			math.Abs(got.MinLng-want.MinLng) > eps || math.Abs(got.MaxLng-want.MaxLng) > eps {
			t.Errorf("DecodeBBox(%q) = %+v, reference %+v", hash, got, want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	testCases := []struct {
		lat float64
		lng float64
	}{
		{37.7749, -122.4194},
		{40.7128, -74.0060},
		{51.5074, -0.1278},
		{-33.8688, 151.2093},
		{35.6762, 139.6503},
		{0, 0},
		{90, 180},
		{-90, -180},
		{89.9999, -179.9999},
	}

	for _, tc := range testCases {
		for p := MinPrecision; p <= MaxPrecision; p++ {
			hash, err := Encode(tc.lat, tc.lng, p)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			box, err := DecodeBBox(hash)
			if err != nil {
				t.Fatalf("DecodeBBox(%q) error = %v", hash, err)
			}
			if !box.Contains(NewCoordinate(tc.lat, tc.lng)) {
				t.Errorf("box %+v of %q does not contain (%v, %v)", box, hash, tc.lat, tc.lng)
			}
		}
	}
}

func TestNeighbors(t *testing.T) {
	got, err := Neighbors("9q8yyk")
	if err != nil {
		t.Fatalf("Neighbors() error = %v", err)
	}

	want := []string{"9q8yym", "9q8yyt", "9q8yys", "9q8yye", "9q8yy7", "9q8yy5", "9q8yyh", "9q8yyj"}
	if len(got) != len(want) {
		t.Fatalf("Neighbors() returned %d cells, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors()[%s] = %s, want %s", Directions[i], got[i], want[i])
		}
	}
}

func TestNeighborsMatchReference(t *testing.T) {
	for _, hash := range []string{"9q8yyk", "drcees097", "gcpvj0", "r3gx2f", "u4pruydqqvj"} {
		got, err := Neighbors(hash)
		if err != nil {
			t.Fatalf("Neighbors(%q) error = %v", hash, err)
		}
		want := mmgeohash.Neighbors(hash)
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Neighbors(%q)[%s] = %s, reference %s", hash, Directions[i], got[i], want[i])
			}
		}
	}
}

func TestNeighborsLength(t *testing.T) {
	for _, hash := range []string{"0", "z", "upb", "drcees097", "pbpbpbpbpbpb"} {
		got, err := Neighbors(hash)
		if err != nil {
			t.Fatalf("Neighbors(%q) error = %v", hash, err)
		}
		if len(got) != 8 {
			t.Fatalf("Neighbors(%q) returned %d cells", hash, len(got))
		}
		for _, n := range got {
			if len(n) != len(hash) {
				t.Errorf("neighbor %q of %q has length %d", n, hash, len(n))
			}
		}
	}
}

func TestNeighborPoleClamps(t *testing.T) {
	// "upb" touches the north pole, so stepping north stays in the same row.
	north, err := Neighbor("upb", North)
	if err != nil {
		t.Fatal(err)
	}
	if north != "upb" {
		t.Errorf("Neighbor(upb, n) = %s, want upb", north)
	}

	south, err := Neighbor("0", South)
	if err != nil {
		t.Fatal(err)
	}
	if south != "0" {
		t.Errorf("Neighbor(0, s) = %s, want 0", south)
	}
}

func TestNeighborAntimeridianWraps(t *testing.T) {
	tests := []struct {
		hash string
		dir  Direction
		want string
	}{
		{"xb", East, "80"},
		{"xb", NorthEast, "81"},
		{"xb", SouthEast, "2p"},
		{"80", West, "xb"},
	}

	for _, tt := range tests {
		got, err := Neighbor(tt.hash, tt.dir)
		if err != nil {
			t.Fatalf("Neighbor(%s, %s) error = %v", tt.hash, tt.dir, err)
		}
		if got != tt.want {
			t.Errorf("Neighbor(%s, %s) = %s, want %s", tt.hash, tt.dir, got, tt.want)
		}
	}
}

func TestNeighborsInvalid(t *testing.T) {
	if _, err := Neighbors(""); !errors.Is(err, ErrInvalidGeohash) {
		t.Errorf("Neighbors(\"\") error = %v, want ErrInvalidGeohash", err)
	}
	if _, err := Neighbor("abc", North); !errors.Is(err, ErrInvalidGeohash) {
		t.Errorf("Neighbor(abc) error = %v, want ErrInvalidGeohash", err)
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDirection("up"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestApproximateAccuracy(t *testing.T) {
	tests := map[int]string{
		1:  "~5,000 km",
		6:  "~1.2 km",
		9:  "~4.8 m",
		12: "~3.7 cm",
		0:  "unknown",
		13: "unknown",
	}
	for p, want := range tests {
		if got := ApproximateAccuracy(p); got != want {
			t.Errorf("ApproximateAccuracy(%d) = %q, want %q", p, got, want)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Encode(44.2312, -76.4860, 9)
	}
}

func BenchmarkDecode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Decode("drcees097")
	}
}

func BenchmarkNeighbors(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Neighbors("drcees097")
	}
}
