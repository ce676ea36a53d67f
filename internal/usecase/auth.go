package usecase

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/V4T54L/logviewer/internal/domain"
	"github.com/V4T54L/logviewer/internal/pkg/auth"
)

// AuthUseCase checks the single admin account and issues session tokens.
type AuthUseCase struct {
	username     string
	password     string
	passwordHash string
	jwtSecret    string
	jwtExpiry    time.Duration
	logger       *slog.Logger
}

// NewAuthUseCase creates a new AuthUseCase. A non-empty passwordHash
// (bcrypt) is used instead of the plain password.
func NewAuthUseCase(username, password, passwordHash, jwtSecret string, jwtExpiry time.Duration, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{
		username:     username,
		password:     password,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
		logger:       logger,
	}
}

// Login validates the credentials and returns a signed token and its expiry.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if !uc.validCredentials(username, password) {
		uc.logger.Warn("failed login attempt", "username", username)
		return "", time.Time{}, domain.ErrInvalidCredentials
	}

	token, expires, err := auth.GenerateToken(username, uc.jwtSecret, uc.jwtExpiry)
	if err != nil {
		return "", time.Time{}, err
	}

	uc.logger.Info("user logged in", "username", username)
	return token, expires, nil
}

func (uc *AuthUseCase) validCredentials(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(uc.username)) != 1 {
		return false
	}
	if uc.passwordHash != "" {
		return auth.CheckPasswordHash(password, uc.passwordHash)
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(uc.password)) == 1
}

// Validate checks a session token and returns the user it was issued to.
func (uc *AuthUseCase) Validate(token string) (string, error) {
	claims, err := auth.ValidateToken(token, uc.jwtSecret)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
