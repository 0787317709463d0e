package repositories

import (
	"context"

	"partnerhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PartnerProductRepository interface {
	WithTx(tx pgx.Tx) PartnerProductRepository
	Create(ctx context.Context, partnerID uuid.UUID, input *models.ProductInput) (*models.PartnerProduct, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PartnerProduct, error)
	Update(ctx context.Context, id uuid.UUID, input *models.ProductInput) (*models.PartnerProduct, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.PartnerProduct, error)
	ListByPartnerID(ctx context.Context, partnerID uuid.UUID) ([]*models.PartnerProduct, error)
}

type partnerProductRepo struct {
	db Database
}

func NewPartnerProductRepo(db Database) PartnerProductRepository {
	return &partnerProductRepo{db: db}
}

func (r *partnerProductRepo) WithTx(tx pgx.Tx) PartnerProductRepository {
	return &partnerProductRepo{db: tx}
}

const partnerProductColumns = `id, partner_id, name, description, ideal_leads, url, created_at`

func scanPartnerProduct(row pgx.Row) (*models.PartnerProduct, error) {
	pp := &models.PartnerProduct{}
	if err := row.Scan(&pp.ID, &pp.PartnerID, &pp.Name, &pp.Description, &pp.IdealLeads, &pp.URL, &pp.CreatedAt); err != nil {
		return nil, mapNoRows(err)
	}
	return pp, nil
}

func (r *partnerProductRepo) Create(ctx context.Context, partnerID uuid.UUID, input *models.ProductInput) (*models.PartnerProduct, error) {
	query := `
		INSERT INTO partner_products (partner_id, name, description, ideal_leads, url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + partnerProductColumns
	return scanPartnerProduct(r.db.QueryRow(ctx, query, partnerID, input.Name, input.Description, input.IdealLeads, input.URL))
}

func (r *partnerProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PartnerProduct, error) {
	query := `SELECT ` + partnerProductColumns + ` FROM partner_products WHERE id = $1`
	return scanPartnerProduct(r.db.QueryRow(ctx, query, id))
}

func (r *partnerProductRepo) Update(ctx context.Context, id uuid.UUID, input *models.ProductInput) (*models.PartnerProduct, error) {
	query := `
		UPDATE partner_products
		SET name = $1, description = $2, ideal_leads = $3, url = $4
		WHERE id = $5
		RETURNING ` + partnerProductColumns
	return scanPartnerProduct(r.db.QueryRow(ctx, query, input.Name, input.Description, input.IdealLeads, input.URL, id))
}

func (r *partnerProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM partner_products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *partnerProductRepo) List(ctx context.Context) ([]*models.PartnerProduct, error) {
	query := `SELECT ` + partnerProductColumns + ` FROM partner_products ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *partnerProductRepo) ListByPartnerID(ctx context.Context, partnerID uuid.UUID) ([]*models.PartnerProduct, error) {
	query := `SELECT ` + partnerProductColumns + ` FROM partner_products WHERE partner_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, partnerID)
}

func (r *partnerProductRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.PartnerProduct, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.PartnerProduct
	for rows.Next() {
		pp, err := scanPartnerProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, pp)
	}
	return products, rows.Err()
}
