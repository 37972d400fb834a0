package geo

import (
	"math"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50

	// pointTolerance is the half-size of the degenerate rectangle stored for
	// each point. rtreego rejects zero-length rect sides.
	pointTolerance = 1e-9

	kmPerDegreeLat = 111.32
)

// Match is a search hit with its distance from the query point.
type Match struct {
	ID         string  `json:"id"`
	DistanceKm float64 `json:"distanceKm"`
}

type indexedPoint struct {
	id    string
	coord Coordinate
	rect  *rtreego.Rect
}

func (p *indexedPoint) Bounds() *rtreego.Rect {
	return p.rect
}

func newIndexedPoint(id string, c Coordinate) *indexedPoint {
	return &indexedPoint{
		id:    id,
		coord: c,
		rect:  rtreego.Point{c.Lat, c.Lng}.ToRect(pointTolerance),
	}
}

// SpatialIndex is an in-memory R-tree of ID → coordinate used for radius and
// nearest-device queries. The tree narrows candidates by rectangle; every
// result is then checked with HaversineDistance.
//
// Go Learning Note: sync.RWMutex
// Queries take the read lock and run in parallel; Put/Remove take the write
// lock. rtreego itself is not safe for concurrent use.
type SpatialIndex struct {
	mu     sync.RWMutex
	tree   *rtreego.Rtree
	points map[string]*indexedPoint
}

// NewSpatialIndex creates an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{
		tree:   rtreego.NewTree(dimensions, minChildren, maxChildren),
		points: make(map[string]*indexedPoint),
	}
}

// Put inserts or moves the point with the given ID.
func (s *SpatialIndex) Put(id string, c Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.points[id]; ok {
		if old.coord == c {
			return
		}
		s.tree.Delete(old)
	}
	p := newIndexedPoint(id, c)
	s.tree.Insert(p)
	s.points[id] = p
}

// Remove drops the point with the given ID. Unknown IDs are ignored.
func (s *SpatialIndex) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.points[id]; ok {
		s.tree.Delete(old)
		delete(s.points, id)
	}
}

// Reset replaces the index content with points.
func (s *SpatialIndex) Reset(points map[string]Coordinate) {
	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	byID := make(map[string]*indexedPoint, len(points))
	for id, c := range points {
		p := newIndexedPoint(id, c)
		tree.Insert(p)
		byID[id] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = tree
	s.points = byID
}

// Count returns the number of indexed points.
func (s *SpatialIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// SearchRadius returns IDs within radiusKm of center, nearest first.
//
// The prefilter rectangle is widened in longitude by 1/cos(lat), so it stays
// a superset of the circle away from the poles. Circles crossing the
// antimeridian only match on the side of the center.
func (s *SpatialIndex) SearchRadius(center Coordinate, radiusKm float64) []Match {
	if radiusKm < 0 {
		return []Match{}
	}

	dLat := radiusKm / kmPerDegreeLat
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLng := radiusKm / (kmPerDegreeLat * cosLat)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rect, err := rtreego.NewRect(
		rtreego.Point{center.Lat - dLat - pointTolerance, center.Lng - dLng - pointTolerance},
		[]float64{2*dLat + 2*pointTolerance, 2*dLng + 2*pointTolerance},
	)
	if err != nil {
		return []Match{}
	}

	matches := make([]Match, 0)
	for _, obj := range s.tree.SearchIntersect(rect) {
		p, ok := obj.(*indexedPoint)
		if !ok {
			continue
		}
		d := HaversineDistance(center, p.coord)
		if d <= radiusKm {
			matches = append(matches, Match{ID: p.id, DistanceKm: d})
		}
	}
	sortMatches(matches)
	return matches
}

// Nearest returns up to n IDs closest to center, nearest first. rtreego ranks
// by planar distance in degrees; the result is re-sorted by haversine.
func (s *SpatialIndex) Nearest(center Coordinate, n int) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.points) {
		n = len(s.points)
	}
	if n <= 0 {
		return []Match{}
	}

	matches := make([]Match, 0, n)
	for _, obj := range s.tree.NearestNeighbors(n, rtreego.Point{center.Lat, center.Lng}) {
		p, ok := obj.(*indexedPoint)
		if !ok || p == nil {
			continue
		}
		matches = append(matches, Match{ID: p.id, DistanceKm: HaversineDistance(center, p.coord)})
	}
	sortMatches(matches)
	return matches
}

// SearchBox returns the IDs inside bounds, edges included, sorted by ID.
func (s *SpatialIndex) SearchBox(bounds MapBounds) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rect, err := rtreego.NewRect(
		rtreego.Point{bounds.South - pointTolerance, bounds.West - pointTolerance},
		[]float64{bounds.North - bounds.South + 2*pointTolerance, bounds.East - bounds.West + 2*pointTolerance},
	)
	if err != nil {
		return []string{}
	}

	ids := make([]string, 0)
	for _, obj := range s.tree.SearchIntersect(rect) {
		if p, ok := obj.(*indexedPoint); ok && bounds.Contains(p.coord) {
			ids = append(ids, p.id)
		}
	}
	sort.Strings(ids)
	return ids
}

func sortMatches(m []Match) {
	sort.SliceStable(m, func(i, j int) bool {
		if m[i].DistanceKm == m[j].DistanceKm {
			return m[i].ID < m[j].ID
		}
		return m[i].DistanceKm < m[j].DistanceKm
	})
}
