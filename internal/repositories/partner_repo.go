package repositories

import (
	"context"
	"fmt"
	"strings"

	"partnerhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PartnerRepository interface {
	Create(ctx context.Context, input *models.PartnerInput) (*models.Partner, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Partner, error)
	GetByEmail(ctx context.Context, email string) (*models.Partner, error)
	Update(ctx context.Context, id uuid.UUID, update *models.PartnerUpdate) (*models.Partner, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Partner, error)
}

type partnerRepo struct {
	db Database
}

func NewPartnerRepo(db Database) PartnerRepository {
	return &partnerRepo{db: db}
}

const partnerColumns = `id, name, email, phone, company, created_at`

func scanPartner(row pgx.Row) (*models.Partner, error) {
	partner := &models.Partner{}
	if err := row.Scan(&partner.ID, &partner.Name, &partner.Email, &partner.Phone, &partner.Company, &partner.CreatedAt); err != nil {
		return nil, mapNoRows(err)
	}
	return partner, nil
}

func (r *partnerRepo) Create(ctx context.Context, input *models.PartnerInput) (*models.Partner, error) {
	query := `
		INSERT INTO partners (name, email, phone, company)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + partnerColumns
	return scanPartner(r.db.QueryRow(ctx, query, input.Name, input.Email, input.Phone, input.Company))
}

func (r *partnerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = $1`
	return scanPartner(r.db.QueryRow(ctx, query, id))
}

func (r *partnerRepo) GetByEmail(ctx context.Context, email string) (*models.Partner, error) {
	query := `
		SELECT ` + partnerColumns + `
		FROM partners
		WHERE LOWER(email) = LOWER($1)
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanPartner(r.db.QueryRow(ctx, query, strings.TrimSpace(email)))
}

func (r *partnerRepo) Update(ctx context.Context, id uuid.UUID, update *models.PartnerUpdate) (*models.Partner, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.Phone != nil {
		add("phone", *update.Phone)
	}
	if update.Company != nil {
		add("company", *update.Company)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE partners SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), partnerColumns)
	return scanPartner(r.db.QueryRow(ctx, query, args...))
}

func (r *partnerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *partnerRepo) List(ctx context.Context) ([]*models.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []*models.Partner
	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}
	return partners, rows.Err()
}
