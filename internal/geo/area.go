package geo

// Locatable is anything with a position on the map.
type Locatable interface {
	Position() Coordinate
}

// AreaInfo summarizes the current area of interest for display.
type AreaInfo struct {
	Center      Coordinate `json:"center"`
	DeviceCount int        `json:"deviceCount"`
	ZoomLevel   int        `json:"zoomLevel"`
	Bounds      MapBounds  `json:"bounds"`
}

// FilterInBounds returns the items whose position lies inside bounds, edges
// included, in their original order. The result is never nil.
//
// Go Learning Note: Generics
// The type parameter lets callers pass []*entities.Device (or any other slice
// of Locatable values) and get the same element type back, without this
// package importing the domain layer or the caller converting slices.
func FilterInBounds[T Locatable](items []T, bounds MapBounds) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if bounds.Contains(item.Position()) {
			out = append(out, item)
		}
	}
	return out
}

// Summarize derives the AreaInfo for a viewport and the items matched in it.
func Summarize[T any](bounds MapBounds, matched []T, zoom int) AreaInfo {
	return AreaInfo{
		Center:      bounds.Center(),
		DeviceCount: len(matched),
		ZoomLevel:   zoom,
		Bounds:      bounds,
	}
}
