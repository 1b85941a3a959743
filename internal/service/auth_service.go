package service

import (
	"context"
	"errors"
	"time"

	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService authenticates users and issues access tokens. Every token is
// bound to the user's company; there is no cross-company access.
type AuthService struct {
	userRepo *repository.UserRepository
	issuer   *auth.TokenIssuer
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, issuer *auth.TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		logger:   logger,
	}
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password produce the same error so the endpoint does not leak which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.String("userId", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("userId", user.ID.String()),
		zap.String("companyId", user.CompanyID.String()))

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      domain.ToUserDTO(user),
	}, nil
}

// CurrentUser returns the profile of the authenticated user
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.UserDTO, error) {
	uc := auth.MustFromContext(ctx)

	user, err := s.userRepo.GetByID(ctx, uc.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	dto := domain.ToUserDTO(user)
	return &dto, nil
}
