package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenExpired = errors.New("token expired")

// Claims is what the console reads from the backend-issued token.
type Claims struct {
	UserID  string
	IsAdmin bool
	Expires *time.Time
}

// Decode reads the token claims without verifying the signature; the
// backend verifies it on every request. It fails for malformed tokens only.
func Decode(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	c := &Claims{}
	// anything but a JSON boolean true is "not admin"
	if v, ok := mc["isAdmin"].(bool); ok {
		c.IsAdmin = v
	}
	if v, ok := mc["id"].(string); ok {
		c.UserID = v
	} else if v, ok := mc["sub"].(string); ok {
		c.UserID = v
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		c.Expires = &t
	}
	return c, nil
}

// IsAuthorizedAdmin reports whether token decodes, carries isAdmin=true and
// has not expired. It is the stateless form of Session.IsAdmin.
func IsAuthorizedAdmin(token string) bool {
	return isAuthorizedAdminAt(token, time.Now())
}

func isAuthorizedAdminAt(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	c, err := Decode(token)
	if err != nil {
		return false
	}
	return c.IsAdmin && !c.expired(now)
}

func (c *Claims) expired(now time.Time) bool {
	return c.Expires != nil && !now.Before(*c.Expires)
}
