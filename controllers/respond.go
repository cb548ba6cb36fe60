package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aivora/aivora-backend/logger"
	"github.com/aivora/aivora-backend/middleware"
	"github.com/aivora/aivora-backend/services"
	"github.com/aivora/aivora-backend/utils"
)

func getDB(c *gin.Context) *gorm.DB {
	return c.MustGet("db").(*gorm.DB)
}

func getServices(c *gin.Context) *services.Container {
	return c.MustGet("services").(*services.Container)
}

func getLog(c *gin.Context) *logger.Logger {
	if v, ok := c.Get("services"); ok {
		if svc, ok := v.(*services.Container); ok && svc.Log != nil {
			return svc.Log
		}
	}
	return logger.Nop()
}

// requireIdentity writes 401 when no identity is attached to the request.
func requireIdentity(c *gin.Context) (utils.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return utils.Identity{}, false
	}
	return id, true
}

// respondError maps domain errors to status codes; msg is the client-facing
// text for the mapped cases.
func respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	case errors.Is(err, services.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case errors.Is(err, services.ErrUnprocessable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	case errors.Is(err, services.ErrUpstream):
		getLog(c).Error("ai provider call failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service error"})
	default:
		getLog(c).Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

// aiError logs a provider failure and hides its details from the client.
func aiError(c *gin.Context, err error) {
	getLog(c).Error("ai provider call failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service error"})
}
