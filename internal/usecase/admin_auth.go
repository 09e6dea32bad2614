package usecase

import (
	"context"
	"errors"
	"time"

	"chalet-booking-service/internal/domain/repository"
	"chalet-booking-service/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password so the login surface leaks nothing about which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AdminClaims is the JWT payload for dashboard sessions
type AdminClaims struct {
	AdminID uint   `json:"adminId"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// AdminAuth issues and verifies dashboard session tokens
type AdminAuth struct {
	adminRepo repository.AdminRepository
	logger    logger.Logger
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAdminAuth creates a new admin auth service
func NewAdminAuth(adminRepo repository.AdminRepository, logger logger.Logger, secret string, tokenTTL time.Duration) *AdminAuth {
	return &AdminAuth{
		adminRepo: adminRepo,
		logger:    logger,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Login verifies the credentials and returns a signed session token
func (a *AdminAuth) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := a.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		a.logger.Warn("Admin login failed", "email", email, "error", err)
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		a.logger.Warn("Admin login failed", "email", email)
		return "", ErrInvalidCredentials
	}

	now := a.now()
	claims := AdminClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", err
	}

	a.logger.Info("Admin logged in", "email", email)
	return token, nil
}

// Verify parses and validates a session token
func (a *AdminAuth) Verify(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
