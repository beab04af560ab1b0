package domain

import (
	"context"
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account holder. PasswordHash and the refresh/reset token fields
// never appear in JSON responses.
type User struct {
	ID           string    `json:"_id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsBlocked    bool      `json:"isBlocked"`
	Address      string    `json:"address,omitempty"`
	WishList     []string  `json:"wishList"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Password reset token, stored as a sha256 hex digest with an expiry.
	PasswordResetToken   string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
}

// UserStore is the account persistence contract.
type UserStore interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByRefreshToken(ctx context.Context, token string) (*User, error)
	GetByResetToken(ctx context.Context, hashedToken string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) (*User, error)
	Delete(ctx context.Context, id string) (*User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) (*User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	ToggleWishList(ctx context.Context, userID, productID string) (*User, error)
}

// Mailer delivers transactional mail. The core treats delivery as an
// external collaborator; failures are logged, never retried.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
