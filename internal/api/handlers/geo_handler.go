package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devicemap/internal/config"
	"devicemap/internal/geo"
)

// GeoHandler exposes the geohash codec and distance calculator directly,
// without touching the device store.
type GeoHandler struct {
	cfg config.GeoConfig
}

func NewGeoHandler(cfg config.GeoConfig) *GeoHandler {
	return &GeoHandler{cfg: cfg}
}

type encodeQuery struct {
	pointQuery
	Precision *int `form:"precision"`
}

// Encode handles GET /api/geo/encode?lat=&lng=&precision=.
func (h *GeoHandler) Encode(c *gin.Context) {
	var q encodeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	point, ok := q.point()
	if !ok || point == nil {
		badRequest(c, "lat and lng are required")
		return
	}
	if !point.Valid() {
		badRequest(c, "lat must be within [-90, 90] and lng within [-180, 180]")
		return
	}
	precision := h.cfg.DefaultPrecision
	if q.Precision != nil {
		precision = *q.Precision
	}

	info, err := geo.Info(point.Lat, point.Lng, precision)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Decode handles GET /api/geo/decode/:hash.
func (h *GeoHandler) Decode(c *gin.Context) {
	hash := c.Param("hash")
	box, err := geo.DecodeBBox(hash)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hash":       hash,
		"coordinate": box.Center(),
		"bbox":       box,
	})
}

// Neighbors handles GET /api/geo/neighbors/:hash[?dir=]. Without dir the
// neighbors are listed clockwise from north and also keyed by direction.
func (h *GeoHandler) Neighbors(c *gin.Context) {
	hash := c.Param("hash")
	if dir, ok := c.GetQuery("dir"); ok {
		h.neighbor(c, hash, dir)
		return
	}

	neighbors, err := geo.Neighbors(hash)
	if err != nil {
		writeError(c, err)
		return
	}

	byDirection := make(map[string]string, len(neighbors))
	for i, d := range geo.Directions {
		byDirection[d.String()] = neighbors[i]
	}
	c.JSON(http.StatusOK, gin.H{
		"hash":        hash,
		"neighbors":   neighbors,
		"byDirection": byDirection,
	})
}

func (h *GeoHandler) neighbor(c *gin.Context, hash, dir string) {
	d, err := geo.ParseDirection(dir)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	neighbor, err := geo.Neighbor(hash, d)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hash":     hash,
		"dir":      d.String(),
		"neighbor": neighbor,
	})
}

type distanceQuery struct {
	Lat1  *float64 `form:"lat1"`
	Lng1  *float64 `form:"lng1"`
	Lat2  *float64 `form:"lat2"`
	Lng2  *float64 `form:"lng2"`
	Hash1 string   `form:"hash1"`
	Hash2 string   `form:"hash2"`
}

// Distance handles GET /api/geo/distance?lat1=&lng1=&lat2=&lng2= and
// GET /api/geo/distance?hash1=&hash2=. Hashes are measured between their
// cell centers.
func (h *GeoHandler) Distance(c *gin.Context) {
	var q distanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	if q.Hash1 != "" || q.Hash2 != "" {
		if q.Hash1 == "" || q.Hash2 == "" {
			badRequest(c, "hash1 and hash2 are required together")
			return
		}
		km, err := geo.HashDistance(q.Hash1, q.Hash2)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"hash1":      q.Hash1,
			"hash2":      q.Hash2,
			"distanceKm": km,
		})
		return
	}

	if q.Lat1 == nil || q.Lng1 == nil || q.Lat2 == nil || q.Lng2 == nil {
		badRequest(c, "lat1, lng1, lat2 and lng2 are required")
		return
	}

	from := geo.NewCoordinate(*q.Lat1, *q.Lng1)
	to := geo.NewCoordinate(*q.Lat2, *q.Lng2)
	c.JSON(http.StatusOK, gin.H{
		"from":       from,
		"to":         to,
		"distanceKm": geo.HaversineDistance(from, to),
	})
}
