// Package validation provides form input validation for the web handlers.
package validation

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Field length limits, matching the column sizes of the original schema.
const (
	maxShortField = 250
	maxEmailLen   = 254
	minPassword   = 8
)

// ValidateEmail checks basic email format.
func ValidateEmail(email string) string {
	if email == "" {
		return "Email is required"
	}
	if len(email) > maxEmailLen {
		return "Email must not exceed 254 characters"
	}
	if !emailRegex.MatchString(email) {
		return "Invalid email format"
	}
	return ""
}

// RegisterForm carries the registration form fields.
type RegisterForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Validate returns a map of field name to error message; empty means valid.
func (f *RegisterForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Name is required"
	} else if len(f.Name) > maxShortField {
		errs["name"] = "Name must not exceed 250 characters"
	}
	if msg := ValidateEmail(f.Email); msg != "" {
		errs["email"] = msg
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	} else if len(f.Password) < minPassword {
		errs["password"] = "Password must be at least 8 characters long"
	}
	return errs
}

// LoginForm carries the login form fields.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (f *LoginForm) Validate() map[string]string {
	errs := map[string]string{}
	if msg := ValidateEmail(f.Email); msg != "" {
		errs["email"] = msg
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

// PostForm carries the post editor fields.
type PostForm struct {
	Title    string `form:"title"`
	Subtitle string `form:"subtitle"`
	Body     string `form:"body"`
	ImageURL string `form:"img_url"`
}

func (f *PostForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Title) == "" {
		errs["title"] = "Title is required"
	} else if len(f.Title) > maxShortField {
		errs["title"] = "Title must not exceed 250 characters"
	}
	if strings.TrimSpace(f.Subtitle) == "" {
		errs["subtitle"] = "Subtitle is required"
	} else if len(f.Subtitle) > maxShortField {
		errs["subtitle"] = "Subtitle must not exceed 250 characters"
	}
	if strings.TrimSpace(f.Body) == "" {
		errs["body"] = "Body is required"
	}
	if f.ImageURL == "" {
		errs["img_url"] = "Image URL is required"
	} else if !strings.HasPrefix(f.ImageURL, "http://") && !strings.HasPrefix(f.ImageURL, "https://") {
		errs["img_url"] = "Image URL must start with http:// or https://"
	}
	return errs
}

// CommentForm carries the comment box field.
type CommentForm struct {
	Text string `form:"comment"`
}

func (f *CommentForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Text) == "" {
		errs["comment"] = "Comment is required"
	}
	return errs
}

// ContactForm carries the contact page fields.
type ContactForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Message string `form:"message"`
}

func (f *ContactForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Name is required"
	}
	if msg := ValidateEmail(f.Email); msg != "" {
		errs["email"] = msg
	}
	if strings.TrimSpace(f.Message) == "" {
		errs["message"] = "Message is required"
	}
	return errs
}
