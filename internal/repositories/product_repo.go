package repositories

import (
	"context"

	"partnerhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	WithTx(tx pgx.Tx) ProductRepository
	Create(ctx context.Context, input *models.ProductInput) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input *models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Product, error)

	// product_partners
	ListAssignments(ctx context.Context) ([]models.ProductPartner, error)
	AssignPartners(ctx context.Context, productID uuid.UUID, partnerIDs []uuid.UUID) error
	ClearPartners(ctx context.Context, productID uuid.UUID) error
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) WithTx(tx pgx.Tx) ProductRepository {
	return &productRepo{db: tx}
}

const productColumns = `id, name, description, ideal_leads, url, created_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	if err := row.Scan(&product.ID, &product.Name, &product.Description, &product.IdealLeads, &product.URL, &product.CreatedAt); err != nil {
		return nil, mapNoRows(err)
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, input *models.ProductInput) (*models.Product, error) {
	query := `
		INSERT INTO products (name, description, ideal_leads, url)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query, input.Name, input.Description, input.IdealLeads, input.URL))
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepo) Update(ctx context.Context, id uuid.UUID, input *models.ProductInput) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, ideal_leads = $3, url = $4
		WHERE id = $5
		RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query, input.Name, input.Description, input.IdealLeads, input.URL, id))
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *productRepo) List(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) ListAssignments(ctx context.Context) ([]models.ProductPartner, error) {
	rows, err := r.db.Query(ctx, `SELECT product_id, partner_id FROM product_partners`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.ProductPartner
	for rows.Next() {
		var pp models.ProductPartner
		if err := rows.Scan(&pp.ProductID, &pp.PartnerID); err != nil {
			return nil, err
		}
		assignments = append(assignments, pp)
	}
	return assignments, rows.Err()
}

func (r *productRepo) AssignPartners(ctx context.Context, productID uuid.UUID, partnerIDs []uuid.UUID) error {
	if len(partnerIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO product_partners (product_id, partner_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, productID, partnerIDs)
	return err
}

func (r *productRepo) ClearPartners(ctx context.Context, productID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM product_partners WHERE product_id = $1`, productID)
	return err
}
