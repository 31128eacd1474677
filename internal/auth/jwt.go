package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// JWTManager handles access token generation and validation. The token
// carries the account id as subject, the role as a custom claim, and
// the session identifier as the JWT ID.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
	}
}

// AccessTTL returns the configured token lifetime. Sessions persisted
// alongside the token share it.
func (m *JWTManager) AccessTTL() time.Duration { return m.accessTTL }

// accessClaims extends standard JWT claims with the account's role.
type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// GenerateAccessToken creates a signed HS256 JWT for the session.
func (m *JWTManager) GenerateAccessToken(accountID int64, role domain.Role, sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			Issuer:    m.issuer,
			ID:        sessionID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: role.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateAccessToken parses and validates an access token.
// Returns the account id, role, and session id if valid.
func (m *JWTManager) ValidateAccessToken(tokenString string) (int64, domain.Role, uuid.UUID, error) {
	if tokenString == "" {
		return 0, "", uuid.Nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return 0, "", uuid.Nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return 0, "", uuid.Nil, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != m.issuer {
		return 0, "", uuid.Nil, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", uuid.Nil, fmt.Errorf("invalid subject: %w", err)
	}

	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return 0, "", uuid.Nil, fmt.Errorf("invalid role claim: %q", claims.Role)
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return 0, "", uuid.Nil, fmt.Errorf("invalid session id: %w", err)
	}

	return accountID, role, sessionID, nil
}
