package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teaching-load-api/internal/models"
	"github.com/noah-isme/teaching-load-api/internal/service"
	appErrors "github.com/noah-isme/teaching-load-api/pkg/errors"
	"github.com/noah-isme/teaching-load-api/pkg/response"
)

// actorFromContext returns the authenticated caller attached by the JWT middleware.
func actorFromContext(c *gin.Context) models.Actor {
	actor, _ := service.ActorFromContext(c.Request.Context())
	return actor
}

// bindJSON decodes the body into dest, answering 400 on malformed input.
func bindJSON(c *gin.Context, dest interface{}, what string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+what+" payload"))
		return false
	}
	return true
}

// requireParam reads a non-empty path parameter, answering 400 when it is blank.
func requireParam(c *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" is required"))
		return "", false
	}
	return value, true
}
