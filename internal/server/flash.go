package server

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// flashCookie carries a one-shot notice across a redirect, the way the
// original session-based flash messages worked.
const flashCookie = "chronicle_flash"

// SetFlash stores a message to be shown on the next rendered page.
func SetFlash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Expires:  time.Now().Add(5 * time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// TakeFlash returns the pending flash message, if any, and clears it.
func TakeFlash(c *fiber.Ctx) string {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return ""
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}
