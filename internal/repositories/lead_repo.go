package repositories

import (
	"context"
	"fmt"
	"strings"

	"partnerhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LeadRepository interface {
	Create(ctx context.Context, partnerID uuid.UUID, input *models.LeadInput, owner models.LeadOwner) (*models.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	Update(ctx context.Context, partnerID, id uuid.UUID, update *models.LeadUpdate) (*models.Lead, error)
	Delete(ctx context.Context, partnerID, id uuid.UUID) error
	DeleteByPartnerID(ctx context.Context, partnerID uuid.UUID) (int64, error)
	List(ctx context.Context) ([]*models.Lead, error)
}

type leadRepo struct {
	db Database
}

func NewLeadRepo(db Database) LeadRepository {
	return &leadRepo{db: db}
}

const leadColumns = `id, partner_id, owner_type, owner_id, name, email, phone, company, title,
	company_url, industry, headcount, status, notes, product_id, product_type, created_at`

func scanLead(row pgx.Row) (*models.Lead, error) {
	var (
		lead        models.Lead
		ownerType   string
		status      string
		productType *string
	)
	err := row.Scan(
		&lead.ID, &lead.PartnerID, &ownerType, &lead.OwnerID,
		&lead.Name, &lead.Email, &lead.Phone, &lead.Company, &lead.Title,
		&lead.CompanyURL, &lead.Industry, &lead.Headcount, &status, &lead.Notes,
		&lead.ProductID, &productType, &lead.CreatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}
	lead.OwnerType = models.OwnerType(ownerType)
	lead.Status = models.LeadStatus(status)
	if productType != nil {
		pt := models.ProductType(*productType)
		lead.ProductType = &pt
	}
	return &lead, nil
}

// productArgs flattens an optional product reference into nullable columns
func productArgs(productType *models.ProductType, productID *uuid.UUID) (*string, *uuid.UUID, error) {
	ref, err := models.ParseProductRef(productType, productID)
	if err != nil {
		return nil, nil, err
	}
	if ref == nil {
		return nil, nil, nil
	}
	t, id := models.ProductColumns(ref)
	ts := string(t)
	return &ts, &id, nil
}

func (r *leadRepo) Create(ctx context.Context, partnerID uuid.UUID, input *models.LeadInput, owner models.LeadOwner) (*models.Lead, error) {
	if owner == nil {
		return nil, fmt.Errorf("lead owner is required")
	}
	ownerType, ownerID := models.OwnerColumns(owner)

	status := input.Status
	if status == "" {
		status = models.LeadStatusIdentified
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid lead status %q", status)
	}

	productType, productID, err := productArgs(input.ProductType, input.ProductID)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO leads (partner_id, owner_type, owner_id, name, email, phone, company, title,
			company_url, industry, headcount, status, notes, product_id, product_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + leadColumns
	return scanLead(r.db.QueryRow(ctx, query,
		partnerID, string(ownerType), ownerID,
		input.Name, input.Email, input.Phone, input.Company, input.Title,
		input.CompanyURL, input.Industry, input.Headcount, string(status), input.Notes,
		productID, productType,
	))
}

func (r *leadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return scanLead(r.db.QueryRow(ctx, query, id))
}

// Update is scoped by partner so a lead can't be moved across partners
func (r *leadRepo) Update(ctx context.Context, partnerID, id uuid.UUID, update *models.LeadUpdate) (*models.Lead, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	stringFields := []struct {
		column string
		value  *string
	}{
		{"name", update.Name},
		{"email", update.Email},
		{"phone", update.Phone},
		{"company", update.Company},
		{"title", update.Title},
		{"company_url", update.CompanyURL},
		{"industry", update.Industry},
		{"headcount", update.Headcount},
		{"notes", update.Notes},
	}
	for _, f := range stringFields {
		if f.value != nil {
			add(f.column, *f.value)
		}
	}

	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, fmt.Errorf("invalid lead status %q", *update.Status)
		}
		add("status", string(*update.Status))
	}

	switch {
	case update.ClearProduct:
		add("product_id", (*uuid.UUID)(nil))
		add("product_type", (*string)(nil))
	case update.ProductType != nil && update.ProductID == nil:
		return nil, fmt.Errorf("product_id is required when product_type is set")
	case update.ProductID != nil:
		productType, productID, err := productArgs(update.ProductType, update.ProductID)
		if err != nil {
			return nil, err
		}
		add("product_id", productID)
		add("product_type", productType)
	}

	if len(sets) == 0 {
		lead, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if lead.PartnerID != partnerID {
			return nil, ErrNotFound
		}
		return lead, nil
	}

	args = append(args, id, partnerID)
	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d AND partner_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), leadColumns)
	return scanLead(r.db.QueryRow(ctx, query, args...))
}

func (r *leadRepo) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1 AND partner_id = $2`, id, partnerID)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *leadRepo) DeleteByPartnerID(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM leads WHERE partner_id = $1`, partnerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *leadRepo) List(ctx context.Context) ([]*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
