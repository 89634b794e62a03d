package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "chronicle_session"

// sessionTTL bounds how long an issued session stays valid.
const sessionTTL = 7 * 24 * time.Hour

// UserLookup resolves a user ID from the session token to a full user record.
type UserLookup func(ctx context.Context, id uint) (*models.User, error)

// SessionGate resolves the current request's identity from the signed session
// cookie and guards admin-only routes. It is constructed explicitly at startup
// and handed to the server; there is no package-level state.
type SessionGate struct {
	secret []byte
	lookup UserLookup
	secure bool
}

// NewSessionGate creates a session gate signing tokens with the given secret.
// secure controls the cookie Secure attribute (on in production).
func NewSessionGate(secret string, lookup UserLookup, secure bool) *SessionGate {
	return &SessionGate{secret: []byte(secret), lookup: lookup, secure: secure}
}

// IssueCookie signs a session token for the user and sets it as an HTTP-only cookie.
func (g *SessionGate) IssueCookie(c *fiber.Ctx, user *models.User) error {
	if len(g.secret) == 0 {
		return fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"iss": "chronicle",
		"exp": now.Add(sessionTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  now.Add(sessionTTL),
		HTTPOnly: true,
		Secure:   g.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// ClearCookie destroys the session cookie.
func (g *SessionGate) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   g.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ParseToken validates a session token and returns the user ID it carries.
func (g *SessionGate) ParseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("missing subject claim")
	}
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in token: %w", err)
	}
	return uint(userID), nil
}

// LoadIdentity resolves the session cookie into a user record and stores it in
// request locals. Requests with no cookie, a bad cookie, or a stale user ID
// proceed anonymously.
func (g *SessionGate) LoadIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			return c.Next()
		}

		userID, err := g.ParseToken(tokenString)
		if err != nil {
			g.ClearCookie(c)
			return c.Next()
		}

		user, err := g.lookup(c.UserContext(), userID)
		if err != nil || user == nil {
			g.ClearCookie(c)
			return c.Next()
		}

		c.Locals("currentUser", user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

// RequireAdmin rejects the request with 403 unless the resolved identity holds
// the admin capability. The guarded handler is never invoked on failure.
func (g *SessionGate) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

// CurrentUser returns the identity resolved by LoadIdentity, or nil for
// anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals("currentUser").(*models.User); ok {
		return user
	}
	return nil
}
