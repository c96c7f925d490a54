// Package identity issues and validates the bearer tokens that carry a
// caller account id. The registry core never parses tokens; it only compares
// the extracted caller identity against the owner identity.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "uniregistry/pkg/domain-errors"
)

const (
	issuer   = "uniregistry"
	audience = "uniregistry-api"
)

// Claims represents the JWT claims for caller tokens.
type Claims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// JWTService handles token creation and validation.
type JWTService struct {
	signingKey []byte
}

func NewJWTService(signingKey string) *JWTService {
	return &JWTService{signingKey: []byte(signingKey)}
}

// GenerateToken signs a token asserting the given caller account id.
func (s *JWTService) GenerateToken(accountID string, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Audience:  []string{audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	if claims.AccountID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token carries no account id")
	}

	return claims, nil
}
