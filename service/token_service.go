package service

import (
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleUser is the role claim embedded in every access token.
const RoleUser = "user"

// TokenService signs and verifies the JWTs used for sessions. The signing
// key and lifetimes are fixed at construction and never mutated, so a single
// instance is safe for concurrent use.
type TokenService struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secretKey []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken mints a short-lived HS256 token carrying the user id
// as subject and the fixed user role.
func (s *TokenService) GenerateAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := &model.AppClaims{
		Role: RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken mints a long-lived token. It carries a unique jti so
// two logins in the same instant still produce distinct tokens; the stored
// copy on the user record would otherwise not roll over.
func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign refresh token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

func (s *TokenService) parse(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Validate reports whether a token has an intact HS256 signature and has not
// expired. Expiry is an exclusive bound: a token whose expiry equals the
// current instant is already invalid.
func (s *TokenService) Validate(tokenString string) bool {
	if _, err := s.parse(tokenString); err != nil {
		logger.Log.WithError(err).Info("Token validation failed")
		return false
	}
	return true
}

// Claims parses a token and returns its claims, with the same failure
// modes as Subject.
func (s *TokenService) Claims(tokenString string) (*model.AppClaims, error) {
	return s.parse(tokenString)
}

// Subject extracts the user id from a token. Parsing runs the full claim
// checks, so Subject fails on malformed, tampered, or expired tokens in its
// own right; callers do not have to call Validate first.
func (s *TokenService) Subject(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	return claims.Subject, nil
}
