package handlers

import (
	"partnerhub/internal/middleware"
	"partnerhub/internal/services"

	"github.com/labstack/echo/v4"
)

// Handlers bundles every HTTP handler group of the portal
type Handlers struct {
	Auth            *AuthHandlers
	Partners        *PartnerHandlers
	Leads           *LeadHandlers
	Products        *ProductHandlers
	PartnerProducts *PartnerProductHandlers
	Health          *HealthHandlers
}

// RegisterRoutes mounts health probes at the root and the API under /v1
func RegisterRoutes(e *echo.Echo, h *Handlers, authService services.AuthService, audit *middleware.AuditMiddleware) {
	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)

	v1 := versionMiddleware.VersionRoute(e, "v1")
	v1.Use(audit.AuditRequest())

	v1.GET("/meta/options", Options)

	auth := v1.Group("/auth")
	auth.GET("/admin", h.Auth.AdminStatus)
	auth.POST("/admin/register", h.Auth.RegisterAdmin)
	auth.POST("/admin/login", h.Auth.AdminLogin)
	auth.POST("/admin/password", h.Auth.ChangeAdminPassword)
	auth.POST("/partner/login", h.Auth.PartnerLogin)
	auth.POST("/refresh", h.Auth.Refresh)

	jwt := middleware.JWTMiddleware(authService)
	adminOnly := []echo.MiddlewareFunc{jwt, middleware.RequireAdmin()}
	partnerOnly := []echo.MiddlewareFunc{jwt, middleware.RequirePartner()}

	auth.POST("/logout", h.Auth.Logout, jwt)

	// Partner directory
	v1.GET("/partners", h.Partners.ListPartners, adminOnly...)
	v1.POST("/partners", h.Partners.CreatePartner, adminOnly...)
	v1.GET("/partners/:id", h.Partners.GetPartner, adminOnly...)
	v1.PUT("/partners/:id", h.Partners.UpdatePartner, adminOnly...)
	v1.DELETE("/partners/:id", h.Partners.DeletePartner, adminOnly...)

	// Leads; partners act only on their own :id
	v1.GET("/leads", h.Leads.ListLeads, adminOnly...)
	v1.GET("/partners/:id/leads", h.Leads.ListPartnerLeads, jwt)
	v1.POST("/partners/:id/leads", h.Leads.CreateLead, jwt)
	v1.PUT("/partners/:id/leads/:leadId", h.Leads.UpdateLead, jwt)
	v1.DELETE("/partners/:id/leads/:leadId", h.Leads.DeleteLead, jwt)

	// Admin catalog
	v1.GET("/products", h.Products.ListProducts, adminOnly...)
	v1.POST("/products", h.Products.CreateProduct, adminOnly...)
	v1.GET("/products/:id", h.Products.GetProduct, adminOnly...)
	v1.PUT("/products/:id", h.Products.UpdateProduct, adminOnly...)
	v1.DELETE("/products/:id", h.Products.DeleteProduct, adminOnly...)
	v1.GET("/partner-products", h.PartnerProducts.ListPartnerProducts, adminOnly...)

	// Partner workspace
	v1.GET("/me/products", h.Products.MyProducts, partnerOnly...)
	v1.GET("/me/partner-products", h.PartnerProducts.ListMine, partnerOnly...)
	v1.POST("/me/partner-products", h.PartnerProducts.CreateMine, partnerOnly...)
	v1.PUT("/me/partner-products/:id", h.PartnerProducts.UpdateMine, partnerOnly...)
	v1.DELETE("/me/partner-products/:id", h.PartnerProducts.DeleteMine, partnerOnly...)
}
