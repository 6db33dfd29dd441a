package handlers

import (
	"net/http"
	"strings"

	"devis_broker/internal/domain/entities"
	"devis_broker/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errMissingActor = pkg.NewDomainErrorSimple("MISSING_ACTOR", "Actor identity headers are required", http.StatusUnauthorized)
	errInvalidRole  = pkg.NewDomainErrorSimple("INVALID_ACTOR_ROLE", "Actor role must be customer, forwarder or admin", http.StatusUnauthorized)
)

// actorFromRequest reads the caller identity. It writes the error response
// itself and reports false when the request must stop.
func actorFromRequest(c *gin.Context) (entities.Actor, bool) {
	id := strings.TrimSpace(c.GetHeader(entities.HeaderActorID))
	rawRole := c.GetHeader(entities.HeaderActorRole)
	if id == "" || strings.TrimSpace(rawRole) == "" {
		c.JSON(errMissingActor.HTTPStatus, errMissingActor.ToHTTPError())
		return entities.Actor{}, false
	}
	role, ok := entities.ParseRole(rawRole)
	if !ok {
		c.JSON(errInvalidRole.HTTPStatus, errInvalidRole.ToHTTPError())
		return entities.Actor{}, false
	}
	return entities.Actor{ID: id, Role: role}, true
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
