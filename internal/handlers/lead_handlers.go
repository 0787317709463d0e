package handlers

import (
	"net/http"
	"strings"

	"partnerhub/internal/acl"
	"partnerhub/internal/common"
	"partnerhub/internal/models"
	"partnerhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LeadHandlers serves lead pipelines to both roles
type LeadHandlers struct {
	leads           services.LeadService
	partners        services.PartnerService
	products        services.ProductService
	partnerProducts services.PartnerProductService
	admin           services.AdminAuthService
	logger          *zap.SugaredLogger
}

func NewLeadHandlers(
	leads services.LeadService,
	partners services.PartnerService,
	products services.ProductService,
	partnerProducts services.PartnerProductService,
	admin services.AdminAuthService,
	lg *zap.SugaredLogger,
) *LeadHandlers {
	return &LeadHandlers{
		leads:           leads,
		partners:        partners,
		products:        products,
		partnerProducts: partnerProducts,
		admin:           admin,
		logger:          lg,
	}
}

// LeadResponse is a lead plus the display fields computed for the viewer
type LeadResponse struct {
	*models.Lead
	OwnerName   string `json:"owner_name"`
	ProductName string `json:"product_name"`
	StatusLabel string `json:"status_label"`
	PartnerName string `json:"partner_name,omitempty"`
}

func (h *LeadHandlers) lookupPartner(id uuid.UUID) (string, bool) {
	p, ok := h.partners.FindByID(id)
	if !ok {
		return "", false
	}
	return p.Name, true
}

func (h *LeadHandlers) toResponses(viewer acl.Actor, leads []*models.Lead) []LeadResponse {
	adminName := ""
	if admin := h.admin.Fetch(); admin != nil {
		adminName = admin.Name
	}
	products := h.products.List()
	partnerProducts := h.partnerProducts.ListAll()

	resp := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		partnerName, _ := h.lookupPartner(l.PartnerID)
		resp = append(resp, LeadResponse{
			Lead:        l,
			OwnerName:   acl.DisplayOwner(l, viewer, adminName, h.lookupPartner),
			ProductName: acl.ProductLabel(l, products, partnerProducts),
			StatusLabel: l.Status.Label(),
			PartnerName: partnerName,
		})
	}
	return resp
}

// ListLeads handles GET /v1/leads?owner=all|superadmin|partner
func (h *LeadHandlers) ListLeads(c echo.Context) error {
	actor, ok := actorFrom(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	filter, err := models.ParseOwnerFilter(c.QueryParam("owner"))
	if err != nil {
		return common.SendValidationError(c, "owner", err.Error())
	}
	return c.JSON(http.StatusOK, h.toResponses(actor, h.leads.ByOwnerFilter(filter, acl.ActorID(actor))))
}

// partnerScope resolves :id and checks the caller may act for that partner
func (h *LeadHandlers) partnerScope(c echo.Context) (acl.Actor, uuid.UUID, error) {
	actor, ok := actorFrom(c)
	if !ok {
		return nil, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized access")
	}
	partnerID, err := pathID(c, "id")
	if err != nil {
		return nil, uuid.Nil, err
	}
	if !acl.CanActForPartner(actor, partnerID) {
		return nil, uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}
	if _, ok := h.partners.FindByID(partnerID); !ok {
		return nil, uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "Partner not found")
	}
	return actor, partnerID, nil
}

// ListPartnerLeads handles GET /v1/partners/:id/leads
func (h *LeadHandlers) ListPartnerLeads(c echo.Context) error {
	actor, partnerID, err := h.partnerScope(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.toResponses(actor, h.leads.ByPartner(partnerID)))
}

// CreateLead handles POST /v1/partners/:id/leads
func (h *LeadHandlers) CreateLead(c echo.Context) error {
	actor, partnerID, err := h.partnerScope(c)
	if err != nil {
		return err
	}

	var req models.LeadInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Company) == "" {
		return common.SendClientError(c, "Name, Email, and Company are required")
	}
	if req.Status != "" && !req.Status.Valid() {
		return common.SendValidationError(c, "status", "unknown status")
	}
	if err := h.checkProduct(partnerID, req.ProductType, req.ProductID); err != nil {
		return err
	}

	lead, err := h.leads.Add(c.Request().Context(), partnerID, &req, acl.OwnerFor(actor))
	if err != nil {
		return respondError(c, h.logger, "Lead", err)
	}
	return c.JSON(http.StatusCreated, h.toResponses(actor, []*models.Lead{lead})[0])
}

// UpdateLead handles PUT /v1/partners/:id/leads/:leadId
func (h *LeadHandlers) UpdateLead(c echo.Context) error {
	actor, partnerID, err := h.partnerScope(c)
	if err != nil {
		return err
	}
	leadID, err := pathID(c, "leadId")
	if err != nil {
		return err
	}
	if err := h.accessLead(actor, partnerID, leadID); err != nil {
		return err
	}

	var req models.LeadUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Status != nil && !req.Status.Valid() {
		return common.SendValidationError(c, "status", "unknown status")
	}
	for field, v := range map[string]*string{"name": req.Name, "email": req.Email, "company": req.Company} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return common.SendValidationError(c, field, field+" cannot be empty")
		}
	}
	if !req.ClearProduct {
		if err := h.checkProduct(partnerID, req.ProductType, req.ProductID); err != nil {
			return err
		}
	}

	lead, err := h.leads.Update(c.Request().Context(), partnerID, leadID, &req)
	if err != nil {
		return respondError(c, h.logger, "Lead", err)
	}
	return c.JSON(http.StatusOK, h.toResponses(actor, []*models.Lead{lead})[0])
}

// DeleteLead handles DELETE /v1/partners/:id/leads/:leadId
func (h *LeadHandlers) DeleteLead(c echo.Context) error {
	actor, partnerID, err := h.partnerScope(c)
	if err != nil {
		return err
	}
	leadID, err := pathID(c, "leadId")
	if err != nil {
		return err
	}
	if err := h.accessLead(actor, partnerID, leadID); err != nil {
		return err
	}

	if err := h.leads.Delete(c.Request().Context(), partnerID, leadID); err != nil {
		return respondError(c, h.logger, "Lead", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LeadHandlers) accessLead(actor acl.Actor, partnerID, leadID uuid.UUID) error {
	lead, ok := h.leads.FindByID(leadID)
	if !ok || lead.PartnerID != partnerID {
		return echo.NewHTTPError(http.StatusNotFound, "Lead not found")
	}
	if !acl.CanAccessLead(actor, lead) {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}
	return nil
}

// checkProduct makes sure a lead only references a product its partner can see:
// an admin product assigned to the partner, or one of the partner's own products.
func (h *LeadHandlers) checkProduct(partnerID uuid.UUID, productType *models.ProductType, productID *uuid.UUID) error {
	if productType != nil && productID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required when product_type is set")
	}
	ref, err := models.ParseProductRef(productType, productID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch p := ref.(type) {
	case nil:
		return nil
	case models.AssignedProduct:
		if _, ok := h.products.FindByID(p.ProductID); !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown product")
		}
		for _, id := range h.products.PartnersOf(p.ProductID) {
			if id == partnerID {
				return nil
			}
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Product is not assigned to this partner")
	case models.OwnProduct:
		pp, ok := h.partnerProducts.FindByID(p.PartnerProductID)
		if !ok || pp.PartnerID != partnerID {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown product")
		}
	}
	return nil
}
