package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"meal-delivery-api/logger"
	"meal-delivery-api/middleware"
	"meal-delivery-api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler serves the HTTP API on top of the service layer
type Handler struct {
	profiles *service.ProfileService
	catalog  *service.CatalogService
	orders   *service.OrderService
	log      zerolog.Logger
}

func New(
	profiles *service.ProfileService,
	catalog *service.CatalogService,
	orders *service.OrderService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		profiles: profiles,
		catalog:  catalog,
		orders:   orders,
		log:      logger.NewPackageLogger(log, "handlers"),
	}
}

func callerID(c *gin.Context) string {
	id, _ := middleware.GetIdentity(c)
	return id.ID
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func badBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
}

// fail writes the response for a service error
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrProfileIncomplete):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrVendorCannotOrder), errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrRoleLocked), errors.Is(err, service.ErrIdempotencyMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRemote):
		_ = c.Error(err)
		h.log.Error().Err(err).Str(logger.REQUEST, c.GetString(logger.REQUEST)).Str("path", c.FullPath()).Msg("remote failure")
		c.JSON(http.StatusBadGateway, gin.H{"error": "A backing service failed, please try again"})
	default:
		_ = c.Error(err)
		h.log.Error().Err(err).Str(logger.REQUEST, c.GetString(logger.REQUEST)).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
