package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"reader@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"", false},
		{"not-an-email", false},
		{"missing@tld", false},
		{strings.Repeat("a", 250) + "@x.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			msg := ValidateEmail(tt.email)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestRegisterFormValidate(t *testing.T) {
	form := RegisterForm{Name: "Reader", Email: "reader@example.com", Password: "secret123"}
	assert.Empty(t, form.Validate())

	form = RegisterForm{}
	errs := form.Validate()
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	form = RegisterForm{Name: "Reader", Email: "reader@example.com", Password: "short"}
	errs = form.Validate()
	assert.Equal(t, "Password must be at least 8 characters long", errs["password"])
}

func TestPostFormValidate(t *testing.T) {
	form := PostForm{
		Title:    "The Hidden Waterfall",
		Subtitle: "A walk upstream",
		Body:     "<p>We went up the valley.</p>",
		ImageURL: "https://example.com/falls.jpg",
	}
	assert.Empty(t, form.Validate())

	form.ImageURL = "ftp://example.com/falls.jpg"
	errs := form.Validate()
	assert.Equal(t, "Image URL must start with http:// or https://", errs["img_url"])

	form = PostForm{}
	errs = form.Validate()
	assert.Len(t, errs, 4)
}

func TestCommentFormValidate(t *testing.T) {
	assert.Empty(t, (&CommentForm{Text: "Nice post"}).Validate())
	assert.Contains(t, (&CommentForm{Text: "   "}).Validate(), "comment")
}

func TestContactFormValidate(t *testing.T) {
	form := ContactForm{Name: "Reader", Email: "reader@example.com", Message: "Hello there"}
	assert.Empty(t, form.Validate())

	form.Email = "bad"
	assert.Contains(t, form.Validate(), "email")
}
