package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var errBadToken = errors.New("malformed bearer token")

// Claims are the token fields shown to the user.
type Claims struct {
	Subject   string     `json:"sub,omitempty"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token carries an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// ParseClaims reads the claims of a bearer token without verifying its
// signature. The service verifies tokens; this is only for display.
func ParseClaims(token string) (Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Claims{}, errBadToken
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, err
	}

	var c Claims
	c.Subject, _ = mc["sub"].(string)
	c.Email, _ = mc["email"].(string)
	c.Role, _ = mc["role"].(string)
	if exp, ok := mc["exp"].(float64); ok {
		t := time.Unix(int64(exp), 0)
		c.ExpiresAt = &t
	}
	return c, nil
}
