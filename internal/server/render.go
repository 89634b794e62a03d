package server

import (
	"crypto/md5"
	"fmt"
	"html/template"
	"strings"

	"chronicle/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// viewData merges handler-specific data with the values every page needs:
// the resolved identity and the pending flash message.
func viewData(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	data["CurrentUser"] = middleware.CurrentUser(c)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = TakeFlash(c)
	}
	return data
}

// GravatarURL returns the avatar URL for an email address, following the
// Gravatar addressing scheme (lowercased, trimmed email, MD5-hashed).
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro", hash)
}

// SafeHTML marks admin-authored markup as renderable. Only post bodies pass
// through it; reader-supplied text (comments) is always auto-escaped.
func SafeHTML(s string) template.HTML {
	return template.HTML(s)
}

// parseID reads the :id route parameter. A non-numeric value is treated the
// same as a missing record.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "The page you are looking for does not exist.")
	}
	return uint(id), nil
}
