package model

import "github.com/golang-jwt/jwt/v5"

type AppClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
