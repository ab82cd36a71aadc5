package auth

import (
	"fmt"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/golang-jwt/jwt/v5"
)

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
		Now:    time.Now,
	}
}

// GenerateAccessToken signs an HS256 token for the principal.
func (j *JWTTokenGenerator) GenerateAccessToken(p internal.Principal) (string, time.Time, error) {
	now := j.Now()
	expiresAt := now.Add(j.TTL)

	subject := p.EmployeeID
	if p.Role != internal.RoleEmployee {
		subject = fmt.Sprintf("admin:%d", p.AdminID)
	}

	claims := &Claims{
		Role:       p.Role,
		EmployeeID: p.EmployeeID,
		AdminID:    p.AdminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken verifies signature and expiry. Every failure is ErrInvalidToken.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.Now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	switch claims.Role {
	case internal.RoleEmployee:
		if claims.EmployeeID == "" {
			return nil, ErrInvalidToken
		}
	case internal.RoleAdmin, internal.RoleSuperAdmin:
		if claims.AdminID == 0 {
			return nil, ErrInvalidToken
		}
	default:
		return nil, ErrInvalidToken
	}

	return claims, nil
}
