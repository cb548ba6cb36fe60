package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aivora/aivora-backend/services"
)

// DBMiddleware hands every request a session bound to its context.
func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db.WithContext(c.Request.Context()))
		c.Next()
	}
}

func ServicesMiddleware(svc *services.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("services", svc)
		c.Next()
	}
}
