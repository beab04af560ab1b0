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

// UserStore implements domain.UserStore.
type UserStore struct {
	db DBTX
}

// NewUserStore creates a new PostgreSQL-backed user store.
func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, first_name, last_name, email, mobile, password_hash, role, is_blocked, address, wish_list, refresh_token, password_reset_token, password_reset_expires, created_at, updated_at`

func (s *UserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	query := `
		INSERT INTO users (id, first_name, last_name, email, mobile, password_hash, role, is_blocked, address, wish_list, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.Mobile, u.PasswordHash,
		u.Role, u.IsBlocked, u.Address, wishListOrEmpty(u.WishList),
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("user.create", "an account with this email already exists")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getBy(ctx, "user.get", "id = $1", id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getBy(ctx, "user.get_by_email", "email = $1", email)
}

func (s *UserStore) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.NotFound("user.get_by_refresh_token", "user", "refresh token")
	}
	return s.getBy(ctx, "user.get_by_refresh_token", "refresh_token = $1", token)
}

func (s *UserStore) GetByResetToken(ctx context.Context, hashedToken string) (*domain.User, error) {
	if hashedToken == "" {
		return nil, domain.NotFound("user.get_by_reset_token", "user", "reset token")
	}
	return s.getBy(ctx, "user.get_by_reset_token", "password_reset_token = $1", hashedToken)
}

func (s *UserStore) getBy(ctx context.Context, op, condition string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + condition

	u, err := scanUser(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "user", fmt.Sprint(arg))
		}
		return nil, err
	}

	return u, nil
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func (s *UserStore) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, mobile = $4,
		    password_hash = $5, role = $6, address = $7,
		    password_reset_token = $8, password_reset_expires = $9,
		    updated_at = $10
		WHERE id = $11
		RETURNING is_blocked, wish_list, refresh_token, created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		u.FirstName, u.LastName, u.Email, u.Mobile, u.PasswordHash, u.Role,
		u.Address, u.PasswordResetToken, u.PasswordResetExpires,
		time.Now().UTC(), u.ID,
	).Scan(&u.IsBlocked, &u.WishList, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("user.update", "user", u.ID)
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflict("user.update", "an account with this email already exists")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return u, nil
}

func (s *UserStore) Delete(ctx context.Context, id string) (*domain.User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("user.delete", "user", id)
		}
		return nil, err
	}

	return u, nil
}

func (s *UserStore) SetBlocked(ctx context.Context, id string, blocked bool) (*domain.User, error) {
	query := `
		UPDATE users
		SET is_blocked = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, blocked, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("user.set_blocked", "user", id)
		}
		return nil, err
	}

	return u, nil
}

func (s *UserStore) SetRefreshToken(ctx context.Context, id, token string) error {
	ct, err := s.db.Exec(ctx,
		`UPDATE users SET refresh_token = $1, updated_at = $2 WHERE id = $3`,
		token, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFound("user.set_refresh_token", "user", id)
	}

	return nil
}

// ToggleWishList adds the product to the wish list if absent and removes it
// if present, in a single statement.
func (s *UserStore) ToggleWishList(ctx context.Context, userID, productID string) (*domain.User, error) {
	query := `
		UPDATE users
		SET wish_list = CASE
		        WHEN $1 = ANY(wish_list) THEN array_remove(wish_list, $1)
		        ELSE array_append(wish_list, $1)
		    END,
		    updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, productID, time.Now().UTC(), userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("user.toggle_wishlist", "user", userID)
		}
		return nil, err
	}

	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User

	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Mobile, &u.PasswordHash,
		&u.Role, &u.IsBlocked, &u.Address, &u.WishList, &u.RefreshToken,
		&u.PasswordResetToken, &u.PasswordResetExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

func wishListOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
