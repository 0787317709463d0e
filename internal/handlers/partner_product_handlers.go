package handlers

import (
	"net/http"

	"partnerhub/internal/acl"
	"partnerhub/internal/common"
	"partnerhub/internal/models"
	"partnerhub/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PartnerProductHandlers serves partner-submitted products. Admins read, owners write.
type PartnerProductHandlers struct {
	partnerProducts services.PartnerProductService
	partners        services.PartnerService
	logger          *zap.SugaredLogger
}

func NewPartnerProductHandlers(partnerProducts services.PartnerProductService, partners services.PartnerService, lg *zap.SugaredLogger) *PartnerProductHandlers {
	return &PartnerProductHandlers{
		partnerProducts: partnerProducts,
		partners:        partners,
		logger:          lg,
	}
}

type PartnerProductResponse struct {
	*models.PartnerProduct
	PartnerName string             `json:"partner_name,omitempty"`
	Documents   []*models.Document `json:"documents"`
}

func (h *PartnerProductHandlers) toResponse(pp *models.PartnerProduct) PartnerProductResponse {
	resp := PartnerProductResponse{PartnerProduct: pp, Documents: h.partnerProducts.DocumentsOf(pp.ID)}
	if resp.Documents == nil {
		resp.Documents = []*models.Document{}
	}
	if p, ok := h.partners.FindByID(pp.PartnerID); ok {
		resp.PartnerName = p.Name
	}
	return resp
}

func (h *PartnerProductHandlers) list(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	visible := acl.VisiblePartnerProducts(actor, h.partnerProducts.ListAll())
	resp := make([]PartnerProductResponse, 0, len(visible))
	for _, pp := range visible {
		resp = append(resp, h.toResponse(pp))
	}
	return c.JSON(http.StatusOK, resp)
}

// ListPartnerProducts handles GET /v1/partner-products (admin, read-only)
func (h *PartnerProductHandlers) ListPartnerProducts(c echo.Context) error {
	return h.list(c)
}

// ListMine handles GET /v1/me/partner-products
func (h *PartnerProductHandlers) ListMine(c echo.Context) error {
	return h.list(c)
}

// CreateMine handles POST /v1/me/partner-products
func (h *PartnerProductHandlers) CreateMine(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	partnerID := acl.ActorID(actor)
	if _, ok := h.partners.FindByID(partnerID); !ok {
		return common.SendUnauthorizedError(c)
	}

	form, err := bindProductForm(c)
	if err != nil {
		return err
	}
	defer form.Close()

	pp, err := h.partnerProducts.Add(c.Request().Context(), partnerID, &form.payload.ProductInput, form.files)
	if err != nil {
		return respondError(c, h.logger, "Partner product", err)
	}
	return c.JSON(http.StatusCreated, h.toResponse(pp))
}

// owned loads :id and checks the caller owns it
func (h *PartnerProductHandlers) owned(c echo.Context) (*models.PartnerProduct, error) {
	actor, ok := actorFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized access")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}
	pp, ok := h.partnerProducts.FindByID(id)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Partner product not found")
	}
	if !acl.CanMutatePartnerProduct(actor, pp) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}
	return pp, nil
}

// UpdateMine handles PUT /v1/me/partner-products/:id
func (h *PartnerProductHandlers) UpdateMine(c echo.Context) error {
	pp, err := h.owned(c)
	if err != nil {
		return err
	}
	form, err := bindProductForm(c)
	if err != nil {
		return err
	}
	defer form.Close()

	updated, err := h.partnerProducts.Update(c.Request().Context(), pp.ID, &form.payload.ProductInput, form.files, form.payload.RemovedDocumentIDs)
	if err != nil {
		return respondError(c, h.logger, "Partner product", err)
	}
	return c.JSON(http.StatusOK, h.toResponse(updated))
}

// DeleteMine handles DELETE /v1/me/partner-products/:id
func (h *PartnerProductHandlers) DeleteMine(c echo.Context) error {
	pp, err := h.owned(c)
	if err != nil {
		return err
	}
	if err := h.partnerProducts.Delete(c.Request().Context(), pp.ID); err != nil {
		return respondError(c, h.logger, "Partner product", err)
	}
	return c.NoContent(http.StatusNoContent)
}
