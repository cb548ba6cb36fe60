package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated caller as carried by the access token.
type Identity struct {
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

const tokenIssuer = "aivora"

var (
	tokenMu    sync.RWMutex
	jwtSecret  []byte
	accessTTL  = time.Hour
	refreshTTL = 14 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// ConfigureTokens sets the signing secret and lifetimes. Called once at startup.
func ConfigureTokens(secret string, access, refresh time.Duration) {
	tokenMu.Lock()
	defer tokenMu.Unlock()
	jwtSecret = []byte(secret)
	if access > 0 {
		accessTTL = access
	}
	if refresh > 0 {
		refreshTTL = refresh
	}
}

func AccessTTL() time.Duration {
	tokenMu.RLock()
	defer tokenMu.RUnlock()
	return accessTTL
}

func RefreshTTL() time.Duration {
	tokenMu.RLock()
	defer tokenMu.RUnlock()
	return refreshTTL
}

// GenerateToken signs an HS256 access token for id and returns its expiry.
func GenerateToken(id Identity) (string, time.Time, error) {
	tokenMu.RLock()
	secret, ttl := jwtSecret, accessTTL
	tokenMu.RUnlock()
	if len(secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID: id.UserID.String(),
		Email:  id.Email,
		Name:   id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken checks signature, issuer and expiry of an access token.
func VerifyToken(tokenString string) (*Claims, error) {
	tokenMu.RLock()
	secret := jwtSecret
	tokenMu.RUnlock()

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Identity converts verified claims into the caller identity.
func (c *Claims) Identity() (Identity, error) {
	uid, err := uuid.Parse(c.UserID)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: uid, Email: c.Email, Name: c.Name}, nil
}

// NewRefreshToken returns an opaque random token and the hash to persist.
func NewRefreshToken() (string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	raw := hex.EncodeToString(b)
	return raw, HashRefreshToken(raw), nil
}

func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
