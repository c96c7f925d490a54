package identity

import (
	"uniregistry/internal/platform/middleware"
)

// JWTServiceAdapter bridges the JWT service to the middleware's validator
// interface so the middleware stays free of token internals.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.CallerClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.CallerClaims{AccountID: claims.AccountID}, nil
}
