package middleware

import (
	"net/http"

	"partnerhub/internal/acl"
	"partnerhub/internal/common"
	"partnerhub/internal/models"
	"partnerhub/internal/services"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTMiddleware validates the bearer token through the auth service, which
// also rejects revoked sessions, and installs the caller as an acl.Actor.
func JWTMiddleware(auth services.AuthService) echo.MiddlewareFunc {
	guard := echojwt.WithConfig(echojwt.Config{
		ContextKey: common.ClaimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return auth.ValidateToken(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.SendUnauthorizedError(c)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return guard(func(c echo.Context) error {
			claims, ok := c.Get(common.ClaimsKey).(*services.TokenClaims)
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			actor, err := ActorFromClaims(claims)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
			}
			c.SetRequest(c.Request().WithContext(common.WithActor(c.Request().Context(), actor)))
			return next(c)
		})
	}
}

func ActorFromClaims(claims *services.TokenClaims) (acl.Actor, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, err
	}
	switch claims.Role {
	case models.RoleSuperadmin:
		return acl.Admin{ID: id, Name: claims.Name}, nil
	case models.RolePartner:
		return acl.PartnerActor{ID: id, Name: claims.Name}, nil
	}
	return nil, echo.ErrUnauthorized
}
