package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/njord/internal/domain"
)

// EnquiryStore implements domain.EnquiryStore.
type EnquiryStore struct {
	db DBTX
}

// NewEnquiryStore creates a new PostgreSQL-backed enquiry store.
func NewEnquiryStore(db DBTX) *EnquiryStore {
	return &EnquiryStore{db: db}
}

const enquiryColumns = `id, name, email, mobile, comment, status, created_at, updated_at`

func (s *EnquiryStore) Create(ctx context.Context, e *domain.Enquiry) (*domain.Enquiry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	query := `
		INSERT INTO enquiries (id, name, email, mobile, comment, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, e.ID, e.Name, e.Email, e.Mobile, e.Comment, e.Status).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert enquiry: %w", err)
	}

	return e, nil
}

func (s *EnquiryStore) GetByID(ctx context.Context, id string) (*domain.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries WHERE id = $1`

	e, err := scanEnquiry(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("enquiry.get", "enquiry", id)
		}
		return nil, err
	}

	return e, nil
}

func (s *EnquiryStore) List(ctx context.Context) ([]domain.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	defer rows.Close()

	enquiries := make([]domain.Enquiry, 0)
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		enquiries = append(enquiries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enquiry rows: %w", err)
	}

	return enquiries, nil
}

func (s *EnquiryStore) Update(ctx context.Context, e *domain.Enquiry) (*domain.Enquiry, error) {
	query := `
		UPDATE enquiries
		SET name = $1, email = $2, mobile = $3, comment = $4, status = $5, updated_at = $6
		WHERE id = $7
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, e.Name, e.Email, e.Mobile, e.Comment, e.Status, time.Now().UTC(), e.ID).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("enquiry.update", "enquiry", e.ID)
		}
		return nil, fmt.Errorf("update enquiry: %w", err)
	}

	return e, nil
}

func (s *EnquiryStore) Delete(ctx context.Context, id string) (*domain.Enquiry, error) {
	query := `DELETE FROM enquiries WHERE id = $1 RETURNING ` + enquiryColumns

	e, err := scanEnquiry(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("enquiry.delete", "enquiry", id)
		}
		return nil, err
	}

	return e, nil
}

func scanEnquiry(row pgx.Row) (*domain.Enquiry, error) {
	var e domain.Enquiry

	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Mobile, &e.Comment, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan enquiry: %w", err)
	}

	return &e, nil
}
