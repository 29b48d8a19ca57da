package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT custom claims
type Claims struct {
	OrgID string `json:"org_id"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
