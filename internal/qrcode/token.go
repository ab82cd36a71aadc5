package qrcode

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs and parses the code values embedded in QR images.
type TokenIssuer interface {
	Sign(employeeID string, issuedAt, expiresAt time.Time) (string, error)
	Parse(codeValue string, now time.Time) (*TokenClaims, error)
}

type TokenClaims struct {
	EmployeeID string `json:"employee_id"`
	jwt.RegisteredClaims
}

type JWTTokenIssuer struct {
	Secret []byte
	Leeway time.Duration
}

func NewJWTTokenIssuer(secret string) *JWTTokenIssuer {
	return &JWTTokenIssuer{
		Secret: []byte(secret),
		Leeway: time.Second,
	}
}

func (j *JWTTokenIssuer) Sign(employeeID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := &TokenClaims{
		EmployeeID: employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employeeID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse checks signature and exp against now. exp has second precision, so
// the caller still compares the stored issuance time against its window.
func (j *JWTTokenIssuer) Parse(codeValue string, now time.Time) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(codeValue, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(j.Leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.EmployeeID == "" || claims.EmployeeID != claims.Subject {
		return nil, fmt.Errorf("token subject mismatch")
	}
	return claims, nil
}
