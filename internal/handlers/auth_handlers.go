package handlers

import (
	"net/http"
	"strings"

	"partnerhub/internal/common"
	"partnerhub/internal/models"
	"partnerhub/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const minPasswordLength = 4

// AuthHandlers handles admin registration and login for both portal roles
type AuthHandlers struct {
	authService  services.AuthService
	adminService services.AdminAuthService
	partners     services.PartnerService
	logger       *zap.SugaredLogger
}

func NewAuthHandlers(authService services.AuthService, adminService services.AdminAuthService, partners services.PartnerService, lg *zap.SugaredLogger) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		adminService: adminService,
		partners:     partners,
		logger:       lg,
	}
}

// AdminStatusResponse tells the login screen whether to show registration
type AdminStatusResponse struct {
	Registered bool   `json:"registered"`
	Name       string `json:"name,omitempty"`
}

type RegisterAdminRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	Email              string `json:"email"`
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

type PartnerLoginRequest struct {
	Email string `json:"email"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AdminStatus handles GET /v1/auth/admin
func (h *AuthHandlers) AdminStatus(c echo.Context) error {
	admin := h.adminService.Fetch()
	if admin == nil {
		return c.JSON(http.StatusOK, AdminStatusResponse{})
	}
	return c.JSON(http.StatusOK, AdminStatusResponse{Registered: true, Name: admin.Name})
}

// RegisterAdmin handles POST /v1/auth/admin/register
func (h *AuthHandlers) RegisterAdmin(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if len(req.Password) < minPasswordLength {
		return common.SendValidationError(c, "password", "Password must be at least 4 characters")
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		return common.SendValidationError(c, "confirm_password", "Passwords do not match")
	}

	admin, err := h.adminService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, "Admin", err)
	}

	tokens, err := h.authService.GenerateTokens(ctx, models.RoleSuperadmin, admin.ID, admin.Name)
	if err != nil {
		return respondError(c, h.logger, "Admin", err)
	}
	return c.JSON(http.StatusCreated, tokens)
}

// AdminLogin handles POST /v1/auth/admin/login
func (h *AuthHandlers) AdminLogin(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	admin := h.adminService.Fetch()
	if admin == nil {
		return respondError(c, h.logger, "Admin", services.ErrAdminNotRegistered)
	}
	if req.Password == "" || !h.adminService.ValidateLogin(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid password")
	}

	tokens, err := h.authService.GenerateTokens(c.Request().Context(), models.RoleSuperadmin, admin.ID, admin.Name)
	if err != nil {
		return respondError(c, h.logger, "Admin", err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// ChangeAdminPassword handles POST /v1/auth/admin/password
func (h *AuthHandlers) ChangeAdminPassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if len(req.NewPassword) < minPasswordLength {
		return common.SendValidationError(c, "new_password", "New password must be at least 4 characters")
	}
	if req.ConfirmNewPassword != "" && req.ConfirmNewPassword != req.NewPassword {
		return common.SendValidationError(c, "confirm_new_password", "Passwords do not match")
	}
	if h.adminService.Fetch() == nil {
		return respondError(c, h.logger, "Admin", services.ErrAdminNotRegistered)
	}

	ok, err := h.adminService.ChangePassword(c.Request().Context(), req.Email, req.OldPassword, req.NewPassword)
	if err != nil {
		return respondError(c, h.logger, "Admin", err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Email or current password is incorrect")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

// PartnerLogin handles POST /v1/auth/partner/login
func (h *AuthHandlers) PartnerLogin(c echo.Context) error {
	var req PartnerLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if strings.TrimSpace(req.Email) == "" {
		return common.SendValidationError(c, "email", "email is required")
	}

	partner, ok := h.partners.FindByEmail(req.Email)
	if !ok {
		return common.SendNotFoundMessage(c, "No partner found with that email")
	}

	tokens, err := h.authService.GenerateTokens(c.Request().Context(), models.RolePartner, partner.ID, partner.Name)
	if err != nil {
		return respondError(c, h.logger, "Partner", err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /v1/auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req models.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return common.SendValidationError(c, "refresh_token", "refresh_token is required")
	}

	tokens, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, h.logger, "Session", err)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /v1/auth/logout. The access token stays blocked until it expires.
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	claims, _ := c.Get(common.ClaimsKey).(*services.TokenClaims)
	if claims == nil {
		return common.SendUnauthorizedError(c)
	}
	if err := h.authService.Revoke(c.Request().Context(), claims, req.RefreshToken); err != nil {
		return respondError(c, h.logger, "Session", err)
	}
	return c.NoContent(http.StatusNoContent)
}
