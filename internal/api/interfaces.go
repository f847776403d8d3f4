package api

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/limbo/goaltrackr/pkg/entity"
)

type JWTServiceI interface {
	GenerateToken(identity entity.Identity) (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  entity.Identity `json:"user"`
}

type CompleteTaskRequest struct {
	Completed *bool `json:"completed"`
}
