package geo

// GeohashInfo is the geohash metadata shown for a selected device.
type GeohashInfo struct {
	Hash                string      `json:"hash"`
	Precision           int         `json:"precision"`
	ApproximateAccuracy string      `json:"approximateAccuracy"`
	Neighbors           []string    `json:"neighbors"`
	BBox                BoundingBox `json:"bbox"`
}

// Info encodes the coordinate and collects its cell, accuracy label and
// neighbors.
func Info(lat, lng float64, precision int) (GeohashInfo, error) {
	hash, err := Encode(lat, lng, precision)
	if err != nil {
		return GeohashInfo{}, err
	}
	box, err := DecodeBBox(hash)
	if err != nil {
		return GeohashInfo{}, err
	}
	neighbors, err := Neighbors(hash)
	if err != nil {
		return GeohashInfo{}, err
	}

	return GeohashInfo{
		Hash:                hash,
		Precision:           precision,
		ApproximateAccuracy: ApproximateAccuracy(precision),
		Neighbors:           neighbors,
		BBox:                box,
	}, nil
}

// HashDistance is the great-circle distance in km between the centers of two
// geohash cells.
func HashDistance(h1, h2 string) (float64, error) {
	a, err := Decode(h1)
	if err != nil {
		return 0, err
	}
	b, err := Decode(h2)
	if err != nil {
		return 0, err
	}
	return HaversineDistance(a, b), nil
}
