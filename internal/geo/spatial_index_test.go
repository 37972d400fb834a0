package geo

import (
	"testing"
)

func seededIndex() *SpatialIndex {
	index := NewSpatialIndex()
	index.Put("device-001", Coordinate{44.2312, -76.4860})
	index.Put("device-002", Coordinate{44.2280, -76.4951})
	index.Put("device-003", Coordinate{44.2350, -76.4800})
	index.Put("toronto", Coordinate{43.6532, -79.3832})
	return index
}

func TestSpatialIndex_PutAndRemove(t *testing.T) {
	index := seededIndex()

	if index.Count() != 4 {
		t.Errorf("Expected count 4, got %d", index.Count())
	}

	index.Remove("toronto")
	index.Remove("never-added")

	if index.Count() != 3 {
		t.Errorf("Expected count 3 after removal, got %d", index.Count())
	}
	for _, m := range index.Nearest(Coordinate{43.6532, -79.3832}, 10) {
		if m.ID == "toronto" {
			t.Error("removed point still returned by Nearest")
		}
	}
}

func TestSpatialIndex_PutMoves(t *testing.T) {
	index := seededIndex()

	index.Put("toronto", Coordinate{44.2313, -76.4861})

	if index.Count() != 4 {
		t.Errorf("Expected count 4 after move, got %d", index.Count())
	}
	got := index.SearchRadius(Coordinate{44.2312, -76.4860}, 0.05)
	if len(got) != 2 {
		t.Fatalf("Expected 2 points within 50 m, got %d: %+v", len(got), got)
	}
	if got[0].ID != "device-001" || got[1].ID != "toronto" {
		t.Errorf("unexpected order %+v", got)
	}
}

func TestSpatialIndex_SearchRadius(t *testing.T) {
	index := seededIndex()
	center := Coordinate{44.2312, -76.4860}

	got := index.SearchRadius(center, 1.0)

	if len(got) != 3 {
		t.Fatalf("Expected 3 Kingston devices within 1 km, got %d: %+v", len(got), got)
	}
	if got[0].ID != "device-001" || got[0].DistanceKm != 0 {
		t.Errorf("Expected device-001 at distance 0 first, got %+v", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].DistanceKm < got[i-1].DistanceKm {
			t.Errorf("results not sorted by distance: %+v", got)
		}
		if got[i].DistanceKm > 1.0 {
			t.Errorf("result %+v outside radius", got[i])
		}
	}

	all := index.SearchRadius(center, 500)
	if len(all) != 4 {
		t.Errorf("Expected 4 points within 500 km, got %d", len(all))
	}

	if none := index.SearchRadius(center, -1); len(none) != 0 {
		t.Errorf("negative radius returned %+v", none)
	}
}

func TestSpatialIndex_Nearest(t *testing.T) {
	index := seededIndex()

	got := index.Nearest(Coordinate{43.65, -79.38}, 2)
	if len(got) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(got))
	}
	if got[0].ID != "toronto" {
		t.Errorf("Expected toronto first, got %+v", got[0])
	}

	if all := index.Nearest(Coordinate{0, 0}, 100); len(all) != 4 {
		t.Errorf("Expected n to be capped at 4, got %d", len(all))
	}
	if none := NewSpatialIndex().Nearest(Coordinate{0, 0}, 3); len(none) != 0 {
		t.Errorf("Expected no results on empty index, got %+v", none)
	}
}

func TestSpatialIndex_SearchBox(t *testing.T) {
	index := seededIndex()

	got := index.SearchBox(MapBounds{North: 44.24, South: 44.22, East: -76.47, West: -76.50})

	want := []string{"device-001", "device-002", "device-003"}
	if len(got) != len(want) {
		t.Fatalf("SearchBox() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SearchBox()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSpatialIndex_Reset(t *testing.T) {
	index := seededIndex()

	index.Reset(map[string]Coordinate{"only": {10, 10}})

	if index.Count() != 1 {
		t.Errorf("Expected count 1 after reset, got %d", index.Count())
	}
	if got := index.Nearest(Coordinate{10, 10}, 1); len(got) != 1 || got[0].ID != "only" {
		t.Errorf("Nearest after reset = %+v", got)
	}
}
