package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthCookieName is the cookie carrying the tenant session token.
const AuthCookieName = "auth-token"

// AuthTokenTTL is how long an issued token stays valid.
const AuthTokenTTL = 7 * 24 * time.Hour

// AuthTokenClaims carries the signed tenant identity.
type AuthTokenClaims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	Plan        string `json:"plan"`
	jwt.RegisteredClaims
}

// GenerateAuthToken signs a tenant session token with HS256.
func GenerateAuthToken(userID uint, email, companyName, plan, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required for token generation")
	}

	now := time.Now()
	claims := AuthTokenClaims{
		UserID:      userID,
		Email:       email,
		CompanyName: companyName,
		Plan:        plan,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AuthTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyAuthToken parses and validates a tenant session token.
func VerifyAuthToken(token, secret string) (*AuthTokenClaims, error) {
	if secret == "" {
		return nil, errors.New("secret is required for token verification")
	}

	claims := &AuthTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
