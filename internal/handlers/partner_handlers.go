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

// PartnerHandlers serves the admin's partner directory
type PartnerHandlers struct {
	partners        services.PartnerService
	leads           services.LeadService
	partnerProducts services.PartnerProductService
	products        services.ProductService
	logger          *zap.SugaredLogger
}

func NewPartnerHandlers(partners services.PartnerService, leads services.LeadService, partnerProducts services.PartnerProductService, products services.ProductService, lg *zap.SugaredLogger) *PartnerHandlers {
	return &PartnerHandlers{
		partners:        partners,
		leads:           leads,
		partnerProducts: partnerProducts,
		products:        products,
		logger:          lg,
	}
}

// PartnerResponse adds per-partner counts used by the partners table
type PartnerResponse struct {
	*models.Partner
	LeadCount    int `json:"lead_count"`
	ProductCount int `json:"product_count"`
}

func (h *PartnerHandlers) toResponse(p *models.Partner) PartnerResponse {
	return PartnerResponse{
		Partner:      p,
		LeadCount:    len(h.leads.ByPartner(p.ID)),
		ProductCount: len(h.partnerProducts.ByPartner(p.ID)),
	}
}

// ListPartners handles GET /v1/partners
func (h *PartnerHandlers) ListPartners(c echo.Context) error {
	partners := h.partners.List()
	resp := make([]PartnerResponse, 0, len(partners))
	for _, p := range partners {
		resp = append(resp, h.toResponse(p))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPartner handles GET /v1/partners/:id
func (h *PartnerHandlers) GetPartner(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	partner, ok := h.partners.FindByID(id)
	if !ok {
		return common.SendNotFoundError(c, "Partner")
	}
	return c.JSON(http.StatusOK, h.toResponse(partner))
}

// CreatePartner handles POST /v1/partners
func (h *PartnerHandlers) CreatePartner(c echo.Context) error {
	var req models.PartnerInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		return common.SendClientError(c, "Name and Email are required")
	}

	partner, err := h.partners.Add(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, h.logger, "Partner", err)
	}
	return c.JSON(http.StatusCreated, h.toResponse(partner))
}

// UpdatePartner handles PUT /v1/partners/:id
func (h *PartnerHandlers) UpdatePartner(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req models.PartnerUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return common.SendValidationError(c, "name", "name cannot be empty")
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		return common.SendValidationError(c, "email", "email cannot be empty")
	}

	partner, err := h.partners.Update(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, h.logger, "Partner", err)
	}
	return c.JSON(http.StatusOK, h.toResponse(partner))
}

// DeletePartner handles DELETE /v1/partners/:id. Leads go first, then the
// partner's own products with their documents, then the partner row. The
// row delete cascades the partner's product assignments.
func (h *PartnerHandlers) DeletePartner(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, ok := h.partners.FindByID(id); !ok {
		return common.SendNotFoundError(c, "Partner")
	}

	if err := h.leads.DeleteAllForPartner(ctx, id); err != nil {
		return respondError(c, h.logger, "Partner", err)
	}
	if err := h.partnerProducts.DeleteAllForPartner(ctx, id); err != nil {
		return respondError(c, h.logger, "Partner", err)
	}
	if err := h.partners.Delete(ctx, id); err != nil {
		return respondError(c, h.logger, "Partner", err)
	}
	h.products.UnassignPartner(id)

	h.logger.Infow("partner removed", "partner_id", id)
	return c.NoContent(http.StatusNoContent)
}
