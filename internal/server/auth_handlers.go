package server

import (
	"log/slog"

	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterPage renders the registration form.
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return c.Render("register", viewData(c, fiber.Map{
		"Title":  "Register",
		"Form":   &validation.RegisterForm{},
		"Errors": map[string]string{},
	}))
}

// Register handles a registration submission. A duplicate email redirects to
// the login page with a notice instead of creating a second account.
func (s *Server) Register(c *fiber.Ctx) error {
	form := new(validation.RegisterForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Validate(); len(errs) > 0 {
		return c.Render("register", viewData(c, fiber.Map{
			"Title":  "Register",
			"Form":   form,
			"Errors": errs,
		}))
	}

	user, err := s.accounts.Register(c.UserContext(), form.Email, form.Password, form.Name)
	if err != nil {
		if models.IsCode(err, models.CodeEmailTaken) {
			SetFlash(c, "This email id is already registered. Please try login.")
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.Bool("is_admin", user.IsAdmin),
	)

	if err := s.gate.IssueCookie(c, user); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// LoginPage renders the login form.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", viewData(c, fiber.Map{
		"Title":  "Log In",
		"Form":   &validation.LoginForm{},
		"Errors": map[string]string{},
	}))
}

// Login handles a login submission. Unknown emails and wrong passwords both
// redirect back to the login page with a notice.
func (s *Server) Login(c *fiber.Ctx) error {
	form := new(validation.LoginForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Validate(); len(errs) > 0 {
		return c.Render("login", viewData(c, fiber.Map{
			"Title":  "Log In",
			"Form":   form,
			"Errors": errs,
		}))
	}

	user, err := s.accounts.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeNotFound:
			SetFlash(c, "This email does not exist. Please try again.")
			return c.Redirect("/login", fiber.StatusSeeOther)
		case models.CodeWrongPassword:
			SetFlash(c, "Password incorrect. Please try again.")
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return err
	}

	if err := s.gate.IssueCookie(c, user); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout clears the session and returns to the login page.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.gate.ClearCookie(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
