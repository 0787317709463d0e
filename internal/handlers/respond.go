package handlers

import (
	"errors"
	"net/http"

	"partnerhub/internal/acl"
	"partnerhub/internal/common"
	"partnerhub/internal/repositories"
	"partnerhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError maps service and repository errors onto the JSON error envelope
func respondError(c echo.Context, lg *zap.SugaredLogger, resource string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, services.ErrTooManyDocuments):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, services.ErrAdminExists), errors.Is(err, services.ErrAdminNotRegistered):
		return common.SendConflictError(c, err.Error())
	case errors.Is(err, services.ErrInvalidToken):
		return common.SendUnauthorizedError(c)
	}

	lg.Errorw("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	return common.SendServerError(c, "Internal server error")
}

func actorFrom(c echo.Context) (acl.Actor, bool) {
	return common.GetActorFromContext(c.Request().Context())
}

// pathID parses a UUID route parameter
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return id, nil
}
