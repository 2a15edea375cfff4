package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/schoolattendance/backend/models/auth"
)

const tokenIssuer = "school-attendance"

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
	FullName string `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens that carry an Identity.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for id and its expiry time.
func (t *TokenIssuer) Issue(id auth.Identity) (string, time.Time, error) {
	if !id.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("cannot issue token for role %v", id.Role)
	}

	now := t.now()
	expires := now.Add(t.ttl)
	claims := Claims{
		Username: id.Username,
		Role:     id.Role.String(),
		SchoolID: id.SchoolID,
		FullName: id.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies tokenString and rebuilds the Identity it carries.
func (t *TokenIssuer) Parse(tokenString string) (auth.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return auth.Identity{}, ErrInvalidToken
	}

	role, err := auth.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" {
		return auth.Identity{}, ErrInvalidToken
	}
	if role == auth.RoleTeacher && claims.SchoolID == "" {
		return auth.Identity{}, ErrInvalidToken
	}

	return auth.Identity{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     role,
		SchoolID: claims.SchoolID,
		FullName: claims.FullName,
	}, nil
}
