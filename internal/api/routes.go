package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devicemap/internal/api/handlers"
	"devicemap/internal/api/middleware"
	"devicemap/internal/metrics"
)

type Router struct {
	deviceHandler *handlers.DeviceHandler
	geoHandler    *handlers.GeoHandler
	metrics       *metrics.Metrics
}

func NewRouter(
	deviceHandler *handlers.DeviceHandler,
	geoHandler *handlers.GeoHandler,
	m *metrics.Metrics,
) *Router {
	return &Router{
		deviceHandler: deviceHandler,
		geoHandler:    geoHandler,
		metrics:       m,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(r.metrics),
		middleware.CORS(),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	api := engine.Group("/api")
	{
		devices := api.Group("/devices")
		{
			devices.GET("", r.deviceHandler.ListDevices)
			devices.POST("/register", r.deviceHandler.RegisterDevice)
			devices.GET("/:id", r.deviceHandler.GetDevice)
			devices.PUT("/:id", r.deviceHandler.UpdateDevice)
			devices.DELETE("/:id", r.deviceHandler.DeleteDevice)
			devices.GET("/:id/geohash", r.deviceHandler.GetDeviceGeohash)
		}

		area := api.Group("/area")
		{
			area.GET("", r.deviceHandler.GetArea)
			area.GET("/nearby", r.deviceHandler.GetNearby)
			area.GET("/nearest", r.deviceHandler.GetNearest)
		}

		api.GET("/statistics", r.deviceHandler.GetStatistics)

		geoRoutes := api.Group("/geo")
		{
			geoRoutes.GET("/encode", r.geoHandler.Encode)
			geoRoutes.GET("/decode/:hash", r.geoHandler.Decode)
			geoRoutes.GET("/neighbors/:hash", r.geoHandler.Neighbors)
			geoRoutes.GET("/distance", r.geoHandler.Distance)
		}
	}
}
