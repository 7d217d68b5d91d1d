package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/siteseeker/backend/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, business_name, contact_name, phone, email, address,
	industry, notes, website, place_id, status, created_at, updated_at`

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, business_name, contact_name, phone, email, address,
			industry, notes, website, place_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.BusinessName,
		lead.ContactName,
		lead.Phone,
		lead.Email,
		lead.Address,
		lead.Industry,
		lead.Notes,
		nullString(lead.Website),
		nullString(lead.PlaceID),
		string(lead.Status),
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		// 23505 no índice único (business_name, address): duplicado
		// exato é um skip normal para quem chama, não um crash.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entity.ErrLeadAlreadyExists
		}
		return err
	}

	return nil
}

// Update aplica um patch parcial e renova o updated_at.
func (r *LeadRepository) Update(ctx context.Context, id string, fields entity.LeadUpdate) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	i := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}

	if fields.BusinessName != nil {
		add("business_name", *fields.BusinessName)
	}
	if fields.ContactName != nil {
		add("contact_name", *fields.ContactName)
	}
	if fields.Phone != nil {
		add("phone", *fields.Phone)
	}
	if fields.Email != nil {
		add("email", *fields.Email)
	}
	if fields.Address != nil {
		add("address", *fields.Address)
	}
	if fields.Industry != nil {
		add("industry", *fields.Industry)
	}
	if fields.Notes != nil {
		add("notes", *fields.Notes)
	}
	if fields.Website != nil {
		add("website", nullString(*fields.Website))
	}
	if fields.Status != nil {
		add("status", string(*fields.Status))
	}

	query := fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d", strings.Join(sets, ", "), i)
	args = append(args, id)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entity.ErrLeadAlreadyExists
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return lead, err
}

func (r *LeadRepository) ListAll(ctx context.Context) ([]*entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads ORDER BY created_at`, leadColumns)

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) ExistsByNameAndAddress(ctx context.Context, businessName, address string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM leads WHERE business_name = $1 AND address = $2)`

	var exists bool
	err := r.DB.QueryRowContext(ctx, query, businessName, address).Scan(&exists)
	return exists, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var website, placeID sql.NullString
	var status string

	err := row.Scan(
		&lead.ID,
		&lead.BusinessName,
		&lead.ContactName,
		&lead.Phone,
		&lead.Email,
		&lead.Address,
		&lead.Industry,
		&lead.Notes,
		&website,
		&placeID,
		&status,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Website = website.String
	lead.PlaceID = placeID.String
	lead.Status = entity.LeadStatus(status)
	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
