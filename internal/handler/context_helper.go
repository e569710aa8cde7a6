package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-allocation-api/internal/middleware"
	"github.com/noah-isme/course-allocation-api/internal/models"
	appErrors "github.com/noah-isme/course-allocation-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func requireClaims(c *gin.Context) (*models.JWTClaims, error) {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

func statusQuery(c *gin.Context) models.AllocationStatus {
	return models.AllocationStatus(c.Query("status"))
}
