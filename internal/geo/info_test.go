package geo

import (
	"errors"
	"math"
	"testing"
)

func TestInfo(t *testing.T) {
	info, err := Info(44.2312, -76.4860, 9)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}

	if info.Hash != "drcees097" {
		t.Errorf("Hash = %s, want drcees097", info.Hash)
	}
	if info.Precision != 9 {
		t.Errorf("Precision = %d, want 9", info.Precision)
	}
	if info.ApproximateAccuracy != "~4.8 m" {
		t.Errorf("ApproximateAccuracy = %s", info.ApproximateAccuracy)
	}
	if len(info.Neighbors) != 8 {
		t.Errorf("len(Neighbors) = %d, want 8", len(info.Neighbors))
	}
	if !info.BBox.Contains(Coordinate{44.2312, -76.4860}) {
		t.Errorf("BBox %+v does not contain the input", info.BBox)
	}
}

func TestInfoInvalidPrecision(t *testing.T) {
	if _, err := Info(44.2312, -76.4860, 0); !errors.Is(err, ErrInvalidPrecision) {
		t.Errorf("Info(precision=0) error = %v, want ErrInvalidPrecision", err)
	}
}

func TestHashDistance(t *testing.T) {
	d, err := HashDistance("drcees097", "drcee73yy")
	if err != nil {
		t.Fatalf("HashDistance() error = %v", err)
	}
	if math.Abs(d-0.8077) > 0.01 {
		t.Errorf("HashDistance() = %v, want ~0.81", d)
	}

	if _, err := HashDistance("drcees097", "bad!"); !errors.Is(err, ErrInvalidGeohash) {
		t.Errorf("HashDistance() error = %v, want ErrInvalidGeohash", err)
	}
}
