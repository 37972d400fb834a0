package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"devicemap/internal/geo"
	"devicemap/internal/repository"
	"devicemap/internal/services"
)

// writeError maps domain errors onto HTTP status codes.
//
// Go Learning Note: errors.Is vs ==
// Services wrap sentinel errors with context ("invalid request: ..."), so a
// plain switch on err would miss them. errors.Is walks the wrap chain.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDeviceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
	case errors.Is(err, repository.ErrDeviceExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, geo.ErrInvalidGeohash),
		errors.Is(err, geo.ErrInvalidPrecision),
		errors.Is(err, geo.ErrInvalidBounds):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
