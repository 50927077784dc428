package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long issued login tokens stay valid.
const TokenTTL = 24 * time.Hour

// Claims represents the identity contained in a JWT.
type Claims struct {
	Sub     string
	Email   string
	Name    string
	Picture string
	Exp     int64
	Iat     int64
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

var (
	errMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

var (
	secretMu  sync.RWMutex
	secretCfg string
)

// SetSecret installs the signing secret from configuration. JWT_SECRET is read when unset.
func SetSecret(secret string) {
	secretMu.Lock()
	secretCfg = strings.TrimSpace(secret)
	secretMu.Unlock()
}

// SignJWT signs the given claims with HS256 using the configured secret.
func SignJWT(claims Claims) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}
	if claims.Sub == "" {
		return "", errors.New("sub is required")
	}

	now := time.Now().UTC()
	if claims.Iat == 0 {
		claims.Iat = now.Unix()
	}
	if claims.Exp == 0 {
		claims.Exp = now.Add(TokenTTL).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Sub,
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.Iat, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.Exp, 0)),
		},
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	})
	return token.SignedString(secret)
}

// VerifyJWT verifies a token and returns its claims.
func VerifyJWT(token string) (Claims, error) {
	secret, err := secretKey()
	if err != nil {
		return Claims{}, err
	}

	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || tc.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{
		Sub:     tc.Subject,
		Email:   tc.Email,
		Name:    tc.Name,
		Picture: tc.Picture,
	}
	if tc.ExpiresAt != nil {
		out.Exp = tc.ExpiresAt.Unix()
	}
	if tc.IssuedAt != nil {
		out.Iat = tc.IssuedAt.Unix()
	}
	return out, nil
}

func secretKey() ([]byte, error) {
	secretMu.RLock()
	secret := secretCfg
	secretMu.RUnlock()
	if secret == "" {
		secret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	}
	env := strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	if env == "production" || env == "prod" {
		if secret == "" {
			return nil, fmt.Errorf("%w: JWT_SECRET required in production", errMissingSecret)
		}
	}
	if secret == "" {
		secret = "dev-secret"
	}
	return []byte(secret), nil
}
