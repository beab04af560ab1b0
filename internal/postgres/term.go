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

// TermStore implements domain.TermStore. All four taxonomies (categories,
// brands, colors, blog categories) share one table, discriminated by kind.
type TermStore struct {
	db   DBTX
	kind domain.TermKind
}

// NewTermStore creates a store bound to a single taxonomy.
func NewTermStore(db DBTX, kind domain.TermKind) *TermStore {
	return &TermStore{db: db, kind: kind}
}

func (s *TermStore) Kind() domain.TermKind {
	return s.kind
}

func (s *TermStore) Create(ctx context.Context, t *domain.Term) (*domain.Term, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	query := `
		INSERT INTO terms (id, kind, title, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, t.ID, s.kind, t.Title).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("term.create", fmt.Sprintf("%s %q already exists", s.kind, t.Title))
		}
		return nil, fmt.Errorf("insert %s: %w", s.kind, err)
	}

	return t, nil
}

func (s *TermStore) GetByID(ctx context.Context, id string) (*domain.Term, error) {
	query := `SELECT id, title, created_at, updated_at FROM terms WHERE id = $1 AND kind = $2`

	var t domain.Term
	err := s.db.QueryRow(ctx, query, id, s.kind).
		Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("term.get", string(s.kind), id)
		}
		return nil, fmt.Errorf("scan %s: %w", s.kind, err)
	}

	return &t, nil
}

func (s *TermStore) List(ctx context.Context) ([]domain.Term, error) {
	query := `SELECT id, title, created_at, updated_at FROM terms WHERE kind = $1 ORDER BY title`

	rows, err := s.db.Query(ctx, query, s.kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind, err)
	}
	defer rows.Close()

	terms := make([]domain.Term, 0)
	for rows.Next() {
		var t domain.Term
		if err := rows.Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", s.kind, err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", s.kind, err)
	}

	return terms, nil
}

func (s *TermStore) Update(ctx context.Context, t *domain.Term) (*domain.Term, error) {
	query := `
		UPDATE terms
		SET title = $1, updated_at = $2
		WHERE id = $3 AND kind = $4
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, t.Title, time.Now().UTC(), t.ID, s.kind).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("term.update", string(s.kind), t.ID)
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflict("term.update", fmt.Sprintf("%s %q already exists", s.kind, t.Title))
		}
		return nil, fmt.Errorf("update %s: %w", s.kind, err)
	}

	return t, nil
}

func (s *TermStore) Delete(ctx context.Context, id string) (*domain.Term, error) {
	query := `
		DELETE FROM terms
		WHERE id = $1 AND kind = $2
		RETURNING id, title, created_at, updated_at`

	var t domain.Term
	err := s.db.QueryRow(ctx, query, id, s.kind).
		Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("term.delete", string(s.kind), id)
		}
		return nil, fmt.Errorf("delete %s: %w", s.kind, err)
	}

	return &t, nil
}
