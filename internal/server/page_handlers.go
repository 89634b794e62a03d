package server

import (
	"chronicle/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// About renders the static about page.
func (s *Server) About(c *fiber.Ctx) error {
	return c.Render("about", viewData(c, fiber.Map{
		"Title": "About",
	}))
}

// ContactPage renders the contact form.
func (s *Server) ContactPage(c *fiber.Ctx) error {
	return c.Render("contact", viewData(c, fiber.Map{
		"Title":        "Contact",
		"ContactEmail": s.config.ContactEmail,
		"Form":         &validation.ContactForm{},
		"Errors":       map[string]string{},
	}))
}

// Contact handles a contact submission. When SMTP is configured the message
// is forwarded to the site owner; otherwise the page degrades to showing the
// contact address only.
func (s *Server) Contact(c *fiber.Ctx) error {
	form := new(validation.ContactForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Validate(); len(errs) > 0 {
		return c.Render("contact", viewData(c, fiber.Map{
			"Title":        "Contact",
			"ContactEmail": s.config.ContactEmail,
			"Form":         form,
			"Errors":       errs,
		}))
	}

	if s.mail != nil {
		if err := s.mail.SendContactMessage(form.Name, form.Email, form.Message); err != nil {
			return c.Render("contact", viewData(c, fiber.Map{
				"Title":        "Contact",
				"ContactEmail": s.config.ContactEmail,
				"Form":         form,
				"Errors":       map[string]string{"message": "Sorry, your message could not be sent. Please try again later."},
			}))
		}
	}

	return c.Render("contact", viewData(c, fiber.Map{
		"Title":        "Contact",
		"ContactEmail": s.config.ContactEmail,
		"Sent":         true,
		"Form":         &validation.ContactForm{},
		"Errors":       map[string]string{},
	}))
}
