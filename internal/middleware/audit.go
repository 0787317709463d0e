package middleware

import (
	"net/http"
	"strings"
	"time"

	"partnerhub/internal/acl"
	"partnerhub/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuditMiddleware writes one structured log line per state-changing request
type AuditMiddleware struct {
	logger *zap.SugaredLogger
}

func NewAuditMiddleware(lg *zap.SugaredLogger) *AuditMiddleware {
	return &AuditMiddleware{logger: lg}
}

// AuditRequest logs mutations and failures along with the acting user
func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			method := c.Request().Method
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			if !shouldAudit(method, c.Path(), status, err) {
				return err
			}

			fields := []interface{}{
				"method", method,
				"path", c.Path(),
				"status", status,
				"ip", c.RealIP(),
				"duration", time.Since(start),
			}
			if actor, ok := common.GetActorFromContext(c.Request().Context()); ok {
				fields = append(fields, "actor_id", acl.ActorID(actor), "actor_role", actorRole(actor))
			}
			if err != nil {
				fields = append(fields, "error", err)
			}

			if status >= http.StatusInternalServerError {
				m.logger.Errorw("request failed", fields...)
			} else {
				m.logger.Infow("request audited", fields...)
			}
			return err
		}
	}
}

func shouldAudit(method, path string, status int, err error) bool {
	if err != nil || status >= http.StatusBadRequest {
		return true
	}
	if strings.HasPrefix(path, "/health") {
		return false
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func actorRole(actor acl.Actor) string {
	switch actor.(type) {
	case acl.Admin:
		return "superadmin"
	case acl.PartnerActor:
		return "partner"
	}
	return ""
}
