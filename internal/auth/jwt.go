package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/fakturo-as/billing-api/internal/config"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the JWT claims carried by locally issued tokens. Every token is
// bound to one user and one company; the company claim is what repositories
// scope every query to.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	Name      string `json:"name"`
	CompanyID string `json:"companyId"`
}

// TokenIssuer issues and validates HS256 tokens for local users
type TokenIssuer struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
}

// NewTokenIssuer creates a new TokenIssuer
func NewTokenIssuer(cfg *config.AuthConfig) *TokenIssuer {
	lifetime := cfg.TokenLifetime
	if lifetime == 0 {
		lifetime = 12 * time.Hour
	}
	return &TokenIssuer{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		lifetime: lifetime,
	}
}

// Issue creates a signed token for the user
func (t *TokenIssuer) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.lifetime)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:     user.Email,
		Name:      user.Name,
		CompanyID: user.CompanyID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a token and returns the user context it carries
func (t *TokenIssuer) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	companyID, err := uuid.Parse(claims.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad company claim", ErrInvalidToken)
	}

	return &UserContext{
		UserID:      userID,
		DisplayName: claims.Name,
		Email:       claims.Email,
		CompanyID:   companyID,
	}, nil
}
