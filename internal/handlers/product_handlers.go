package handlers

import (
	"net/http"

	"partnerhub/internal/acl"
	"partnerhub/internal/common"
	"partnerhub/internal/models"
	"partnerhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductHandlers serves the admin catalog and the partner's view of it
type ProductHandlers struct {
	products services.ProductService
	partners services.PartnerService
	logger   *zap.SugaredLogger
}

func NewProductHandlers(products services.ProductService, partners services.PartnerService, lg *zap.SugaredLogger) *ProductHandlers {
	return &ProductHandlers{
		products: products,
		partners: partners,
		logger:   lg,
	}
}

// ProductResponse carries a product with its documents and assigned partners
type ProductResponse struct {
	*models.Product
	PartnerIDs []uuid.UUID         `json:"partner_ids,omitempty"`
	Documents  []*models.Document `json:"documents"`
}

func (h *ProductHandlers) toResponse(p *models.Product, withPartners bool) ProductResponse {
	resp := ProductResponse{Product: p, Documents: h.products.DocumentsOf(p.ID)}
	if resp.Documents == nil {
		resp.Documents = []*models.Document{}
	}
	if withPartners {
		resp.PartnerIDs = h.products.PartnersOf(p.ID)
	}
	return resp
}

// ListProducts handles GET /v1/products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	products := h.products.List()
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, h.toResponse(p, true))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetProduct handles GET /v1/products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, ok := h.products.FindByID(id)
	if !ok {
		return common.SendNotFoundError(c, "Product")
	}
	return c.JSON(http.StatusOK, h.toResponse(product, true))
}

// CreateProduct handles POST /v1/products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	form, err := bindProductForm(c)
	if err != nil {
		return err
	}
	defer form.Close()

	if err := h.checkPartners(form.payload.PartnerIDs); err != nil {
		return err
	}

	product, err := h.products.Add(c.Request().Context(), &form.payload.ProductInput, form.payload.PartnerIDs, form.files)
	if err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusCreated, h.toResponse(product, true))
}

// UpdateProduct handles PUT /v1/products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	form, err := bindProductForm(c)
	if err != nil {
		return err
	}
	defer form.Close()

	if err := h.checkPartners(form.payload.PartnerIDs); err != nil {
		return err
	}

	product, err := h.products.Update(c.Request().Context(), id, &form.payload.ProductInput,
		form.payload.PartnerIDs, form.files, form.payload.RemovedDocumentIDs)
	if err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusOK, h.toResponse(product, true))
}

// DeleteProduct handles DELETE /v1/products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, "Product", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MyProducts handles GET /v1/me/products: the admin products assigned to the caller
func (h *ProductHandlers) MyProducts(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	visible := acl.VisibleProducts(actor, h.products.List(), h.products.PartnersOf)
	resp := make([]ProductResponse, 0, len(visible))
	for _, p := range visible {
		resp = append(resp, h.toResponse(p, false))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ProductHandlers) checkPartners(ids []uuid.UUID) error {
	for _, id := range ids {
		if _, ok := h.partners.FindByID(id); !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown partner "+id.String())
		}
	}
	return nil
}
