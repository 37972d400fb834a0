// Package handlers adapts HTTP requests to DeviceService calls. Handlers only
// parse input and shape output; every rule lives in the service.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devicemap/internal/domain/entities"
	"devicemap/internal/services"
)

const (
	defaultNearbyRadiusKm = 1.0
	defaultNearestCount   = 5
)

// DeviceHandler serves the /api/devices, /api/area and /api/statistics
// endpoints.
type DeviceHandler struct {
	service *services.DeviceService
}

func NewDeviceHandler(service *services.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: service}
}

type listDevicesQuery struct {
	boundsQuery
	pointQuery
	Status string   `form:"status"`
	Radius *float64 `form:"radius"` // metres
}

// ListDevices handles GET /api/devices.
// Optional filters: status, a north/south/east/west viewport and a
// lat/lng/radius circle with the radius in metres.
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	var q listDevicesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	var filter services.DeviceFilter
	if q.Status != "" {
		status, err := entities.ParseDeviceStatus(q.Status)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.Status = status
	}

	bounds, ok := q.bounds()
	if !ok {
		badRequest(c, "north, south, east and west must be given together")
		return
	}
	filter.Bounds = bounds

	center, ok := q.point()
	if !ok || (center == nil) != (q.Radius == nil) {
		badRequest(c, "lat, lng and radius must be given together")
		return
	}
	if center != nil {
		filter.Center = center
		filter.RadiusKm = *q.Radius / 1000
	}

	devices, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// GetDevice handles GET /api/devices/:id.
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	device, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// RegisterDevice handles POST /api/devices/register. The caller's IP and
// User-Agent are recorded when the body does not carry them.
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req services.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.IPAddress == "" {
		req.IPAddress = c.ClientIP()
	}
	if req.UserAgent == "" {
		req.UserAgent = c.GetHeader("User-Agent")
	}

	device, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Device registered successfully",
		"device":  device,
	})
}

// UpdateDevice handles PUT /api/devices/:id with a partial JSON body.
func (h *DeviceHandler) UpdateDevice(c *gin.Context) {
	var upd services.DeviceUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err.Error())
		return
	}

	device, err := h.service.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Device updated successfully",
		"device":  device,
	})
}

// DeleteDevice handles DELETE /api/devices/:id.
func (h *DeviceHandler) DeleteDevice(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device deleted successfully"})
}

type geohashQuery struct {
	Precision int `form:"precision"`
}

// GetDeviceGeohash handles GET /api/devices/:id/geohash.
func (h *DeviceHandler) GetDeviceGeohash(c *gin.Context) {
	var q geohashQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}

	info, err := h.service.GeohashInfo(c.Request.Context(), c.Param("id"), q.Precision)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

type areaQuery struct {
	boundsQuery
	Zoom int `form:"zoom"`
}

// GetArea handles GET /api/area: the devices in a viewport plus its summary.
func (h *DeviceHandler) GetArea(c *gin.Context) {
	var q areaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	bounds, ok := q.bounds()
	if !ok || bounds == nil {
		badRequest(c, "north, south, east and west are required")
		return
	}

	result, err := h.service.Area(c.Request.Context(), *bounds, q.Zoom)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type nearbyQuery struct {
	pointQuery
	RadiusKm *float64 `form:"radiusKm"`
}

// GetNearby handles GET /api/area/nearby.
func (h *DeviceHandler) GetNearby(c *gin.Context) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	center, ok := q.point()
	if !ok || center == nil {
		badRequest(c, "lat and lng are required")
		return
	}
	radius := defaultNearbyRadiusKm
	if q.RadiusKm != nil {
		radius = *q.RadiusKm
	}

	devices, err := h.service.Nearby(c.Request.Context(), *center, radius)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

type nearestQuery struct {
	pointQuery
	N *int `form:"n"`
}

// GetNearest handles GET /api/area/nearest.
func (h *DeviceHandler) GetNearest(c *gin.Context) {
	var q nearestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	center, ok := q.point()
	if !ok || center == nil {
		badRequest(c, "lat and lng are required")
		return
	}
	n := defaultNearestCount
	if q.N != nil {
		n = *q.N
	}

	devices, err := h.service.Nearest(c.Request.Context(), *center, n)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// GetStatistics handles GET /api/statistics.
func (h *DeviceHandler) GetStatistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
