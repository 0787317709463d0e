package middleware

import (
	"partnerhub/internal/acl"
	"partnerhub/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireAdmin lets only the super-admin through
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := common.GetActorFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if _, isAdmin := actor.(acl.Admin); !isAdmin {
				return common.SendForbiddenError(c)
			}
			return next(c)
		}
	}
}

// RequirePartner lets only referral partners through
func RequirePartner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := common.GetActorFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if _, isPartner := actor.(acl.PartnerActor); !isPartner {
				return common.SendForbiddenError(c)
			}
			return next(c)
		}
	}
}
