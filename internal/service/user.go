package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/njord/internal/auth"
	"github.com/dukerupert/njord/internal/domain"
)

// passwordResetTTL is how long a password reset token stays valid.
const passwordResetTTL = 10 * time.Minute

// LoginResult carries the authenticated user together with freshly issued tokens.
type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// UserService provides account and session business logic.
type UserService interface {
	Register(ctx context.Context, u *domain.User, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// AdminLogin is Login with an additional role check before credentials
	// are verified.
	AdminLogin(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
	// RefreshAccessToken exchanges a valid refresh token for a new access token.
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)

	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, firstName, lastName, mobile, email string) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) (*domain.User, error)

	UpdatePassword(ctx context.Context, id, password string) (*domain.User, error)
	// ForgotPassword issues a reset token, stores its sha256 digest with a
	// 10 minute expiry, and mails the reset link. The raw token is returned.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (*domain.User, error)

	SaveAddress(ctx context.Context, id, address string) (*domain.User, error)
	GetWishList(ctx context.Context, id string) (*domain.User, error)
}

type userService struct {
	users  domain.UserStore
	tokens *auth.TokenManager
	mailer domain.Mailer
	logger *slog.Logger
	appURL string
}

// NewUserService creates a new UserService instance.
func NewUserService(users domain.UserStore, tokens *auth.TokenManager, mailer domain.Mailer, logger *slog.Logger, appURL string) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		logger: logger,
		appURL: appURL,
	}
}

func (s *userService) Register(ctx context.Context, u *domain.User, password string) (*domain.User, error) {
	const op = "user.register"

	if _, err := s.users.GetByEmail(ctx, u.Email); err == nil {
		return nil, domain.Conflict(op, "User already exists")
	} else if !domain.IsCode(err, domain.ENOTFOUND) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domain.Invalid(op, err.Error())
	}

	u.PasswordHash = hash
	if u.Role == "" {
		u.Role = domain.RoleUser
	}

	return s.users.Create(ctx, u)
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, email, password, false)
}

func (s *userService) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, email, password, true)
}

func (s *userService) login(ctx context.Context, email, password string, requireAdmin bool) (*LoginResult, error) {
	const op = "user.login"

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.NotFound(op, "user", email)
		}
		return nil, err
	}

	if requireAdmin && user.Role != domain.RoleAdmin {
		return nil, domain.Unauthorized(op, "Unauthorized")
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, domain.Invalid(op, "Invalid credentials")
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to issue refresh token")
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to issue access token")
	}

	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		// Unknown token: nothing to clear, logout still succeeds.
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil
		}
		return err
	}
	return s.users.SetRefreshToken(ctx, user.ID, "")
}

func (s *userService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	const op = "user.refresh_token"

	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return "", domain.Invalid(op, "Invalid or missing refresh token")
		}
		return "", err
	}

	userID, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil || userID != user.ID {
		return "", domain.Invalid(op, "Invalid or missing refresh token")
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", domain.Internal(err, op, "failed to issue access token")
	}
	return accessToken, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) Update(ctx context.Context, id string, firstName, lastName, mobile, email string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.Mobile = mobile
	user.Email = email

	return s.users.Update(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id string) (*domain.User, error) {
	return s.users.Delete(ctx, id)
}

func (s *userService) SetBlocked(ctx context.Context, id string, blocked bool) (*domain.User, error) {
	return s.users.SetBlocked(ctx, id, blocked)
}

func (s *userService) UpdatePassword(ctx context.Context, id, password string) (*domain.User, error) {
	const op = "user.update_password"

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domain.Invalid(op, err.Error())
	}

	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

func (s *userService) ForgotPassword(ctx context.Context, email string) (string, error) {
	const op = "user.forgot_password"

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", domain.Internal(err, op, "failed to generate reset token")
	}
	token := hex.EncodeToString(raw)

	digest := sha256.Sum256([]byte(token))
	expires := time.Now().Add(passwordResetTTL)
	user.PasswordResetToken = hex.EncodeToString(digest[:])
	user.PasswordResetExpires = &expires

	if _, err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	body := fmt.Sprintf(
		"Please follow this link to reset your password. The link is valid for 10 minutes: %s/api/v1/user/reset-password/%s",
		s.appURL, token,
	)
	if err := s.mailer.Send(ctx, user.Email, "Forgot password link", body); err != nil {
		// Mail delivery is best-effort; the token was issued either way.
		s.logger.Error("failed to send reset email", "op", op, "error", err)
	}

	return token, nil
}

func (s *userService) ResetPassword(ctx context.Context, token, password string) (*domain.User, error) {
	const op = "user.reset_password"

	digest := sha256.Sum256([]byte(token))
	user, err := s.users.GetByResetToken(ctx, hex.EncodeToString(digest[:]))
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.Invalid(op, "Token expired, please try again later.")
		}
		return nil, err
	}

	if user.PasswordResetExpires == nil || user.PasswordResetExpires.Before(time.Now()) {
		return nil, domain.Invalid(op, "Token expired, please try again later.")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, domain.Invalid(op, err.Error())
	}

	user.PasswordHash = hash
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil

	return s.users.Update(ctx, user)
}

func (s *userService) SaveAddress(ctx context.Context, id, address string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Address = address
	return s.users.Update(ctx, user)
}

func (s *userService) GetWishList(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
