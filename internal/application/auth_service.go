package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// TokenRevoker stores ids of tokens that were logged out before expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService struct {
	Repo       repo.UserRepository
	JWT        *helpers.JWTManager
	Revoker    TokenRevoker
	BcryptCost int
	Logger     *logrus.Logger
}

func NewAuthService(repo repo.UserRepository, jwt *helpers.JWTManager, revoker TokenRevoker, bcryptCost int, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &AuthService{
		Repo:       repo,
		JWT:        jwt,
		Revoker:    revoker,
		BcryptCost: bcryptCost,
		Logger:     logger,
	}
}

// AuthResult is a freshly issued token together with the public user record.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and issues its first token. Input shape is
// validated by the caller.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	u := &entity.User{
		Username: strings.TrimSpace(in.Username),
		Email:    normalizeEmail(in.Email),
	}

	exists, err := s.Repo.ExistsByUsernameOrEmail(ctx, u.Username, u.Email)
	if err != nil {
		s.Logger.WithError(err).Error("check existing user failed")
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateAccount
	}

	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		s.Logger.WithError(err).Error("hash password failed")
		return nil, err
	}
	u.Password = hash

	if err := s.Repo.Create(ctx, u); err != nil {
		// a concurrent registration can win between the check and the insert
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		s.Logger.WithError(err).WithField("email", u.Email).Error("create user failed")
		return nil, err
	}

	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return s.issue(u)
}

// Login checks credentials. Unknown email and wrong password are not distinguished.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.Logger.WithError(err).Error("lookup user by email failed")
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, claims, err := s.JWT.GenerateToken(u.ID, u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: u}, nil
}

// VerifyToken validates signature and expiry and rejects logged-out tokens.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*helpers.Claims, error) {
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if s.Revoker != nil {
		revoked, err := s.Revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			// fail open: the denylist is an optional layer over stateless tokens
			s.Logger.WithError(err).Warn("token denylist lookup failed")
		} else if revoked {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// GetProfile resolves the token's user. A valid token for a deleted user
// yields ErrUserNotFound.
func (s *AuthService) GetProfile(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.Logger.WithError(err).WithField("user_id", claims.UserID).Error("lookup user failed")
		return nil, err
	}
	return u, nil
}

// Logout revokes the presented token when a denylist is configured.
// Without one tokens stay valid until expiry and Logout only verifies.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if s.Revoker == nil {
		return nil
	}
	if err := s.Revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.Logger.WithError(err).WithField("user_id", claims.UserID).Error("revoke token failed")
		return err
	}
	return nil
}
