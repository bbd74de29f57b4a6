package service

import (
	"database/sql"
	"errors"
	"go-auth-api/logger"
	"go-auth-api/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both an unknown user id and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("id or password incorrect")
	// ErrInvalidRefreshToken covers every reissue failure: bad signature,
	// expiry, unknown subject, or mismatch with the stored token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// HashPassword derives a salted bcrypt digest from a plaintext password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a plaintext password against a bcrypt digest.
// A malformed digest simply fails the check.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// LoginResult is what a successful login produces. The refresh token is
// handed to the transport layer for cookie delivery and never appears in a
// response body.
type LoginResult struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// AuthService orchestrates login, logout and access-token reissue around
// the stored per-account refresh token.
type AuthService struct {
	userRepo repository.IUserRepository
	tokens   *TokenService
}

func NewAuthService(userRepo repository.IUserRepository, tokens *TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// Login verifies the credentials and mints a new token pair. The fresh
// refresh token overwrites whatever was stored before, so an account holds
// at most one live session; when two logins race, the last write wins.
func (s *AuthService) Login(userID, password string) (*LoginResult, error) {
	digest, err := s.userRepo.GetPasswordByUserID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Log.WithField("user_id", userID).Info("Login attempt for unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPasswordHash(password, digest) {
		logger.Log.WithField("user_id", userID).Info("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRefreshToken(userID, &refreshToken); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", userID).Info("User logged in")
	return &LoginResult{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the stored refresh token. The user id comes from the
// authenticated request context, never from a client-supplied field.
// Logging out twice is a no-op success.
func (s *AuthService) Logout(userID string) error {
	if err := s.userRepo.UpdateRefreshToken(userID, nil); err != nil {
		return err
	}
	logger.Log.WithField("user_id", userID).Info("User logged out")
	return nil
}

// ReissueAccessToken exchanges a valid refresh token for a fresh access
// token. The signature and expiry checks run before any store access, and
// the presented token must match the stored one byte for byte; after a
// logout the stored value is null and never matches. No new refresh token
// is issued here, rotation happens only at login.
func (s *AuthService) ReissueAccessToken(refreshToken string) (string, error) {
	if !s.tokens.Validate(refreshToken) {
		return "", ErrInvalidRefreshToken
	}

	userID, err := s.tokens.Subject(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByUserID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Log.WithField("user_id", userID).Info("Reissue attempt for deleted user")
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		logger.Log.WithField("user_id", userID).Info("Reissue attempt with superseded refresh token")
		return "", ErrInvalidRefreshToken
	}

	return s.tokens.GenerateAccessToken(userID)
}
