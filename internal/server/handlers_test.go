package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/middleware"
	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	ownerEmail  = "owner@example.com"
	ownerPass   = "owner-password"
	readerEmail = "reader@example.com"
	readerPass  = "reader-password"
)

func setupTestServer(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Port:       "8080",
		SecretKey:  "test-secret-key",
		AdminEmail: ownerEmail,
		Env:        "test",
	}
	srv := NewServerWithDeps(cfg, db)
	return srv.NewApp(), db
}

func doGet(t *testing.T, app *fiber.App, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doPostForm(t *testing.T, app *fiber.App, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func sessionFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("expected a session cookie on the response")
	return nil
}

func registerUser(t *testing.T, app *fiber.App, name, email, password string) *http.Cookie {
	t.Helper()
	resp := doPostForm(t, app, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
	return sessionFrom(t, resp)
}

func createPost(t *testing.T, app *fiber.App, admin *http.Cookie, title string) {
	t.Helper()
	resp := doPostForm(t, app, "/new-post", url.Values{
		"title":    {title},
		"subtitle": {"A test subtitle"},
		"body":     {"<p>Some body text.</p>"},
		"img_url":  {"https://example.com/cover.jpg"},
	}, admin)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestRegisterDuplicateEmailKeepsOneAccount(t *testing.T) {
	app, db := setupTestServer(t)

	registerUser(t, app, "Reader", readerEmail, readerPass)

	resp := doPostForm(t, app, "/register", url.Values{
		"name":     {"Imposter"},
		"email":    {readerEmail},
		"password": {"another-password"},
	})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	var count int64
	db.Model(&models.User{}).Where("email = ?", readerEmail).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterGrantsAdminToConfiguredEmail(t *testing.T) {
	app, db := setupTestServer(t)

	registerUser(t, app, "Owner", ownerEmail, ownerPass)
	registerUser(t, app, "Reader", readerEmail, readerPass)

	var owner, reader models.User
	require.NoError(t, db.Where("email = ?", ownerEmail).First(&owner).Error)
	require.NoError(t, db.Where("email = ?", readerEmail).First(&reader).Error)
	assert.True(t, owner.IsAdmin)
	assert.False(t, reader.IsAdmin)
}

func TestRegisterInvalidFormRerenders(t *testing.T) {
	app, db := setupTestServer(t)

	resp := doPostForm(t, app, "/register", url.Values{
		"name":     {"Reader"},
		"email":    {"not-an-email"},
		"password": {"short"},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := bodyOf(t, resp)
	assert.Contains(t, body, "Invalid email format")
	assert.Contains(t, body, "Password must be at least 8 characters long")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestLoginFlows(t *testing.T) {
	app, _ := setupTestServer(t)
	registerUser(t, app, "Reader", readerEmail, readerPass)

	t.Run("unknown email redirects to login", func(t *testing.T) {
		resp := doPostForm(t, app, "/login", url.Values{
			"email":    {"stranger@example.com"},
			"password": {"whatever-pass"},
		})
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	})

	t.Run("wrong password redirects to login", func(t *testing.T) {
		resp := doPostForm(t, app, "/login", url.Values{
			"email":    {readerEmail},
			"password": {"wrong-password"},
		})
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	})

	t.Run("correct credentials issue a session", func(t *testing.T) {
		resp := doPostForm(t, app, "/login", url.Values{
			"email":    {readerEmail},
			"password": {readerPass},
		})
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
		sessionFrom(t, resp)
	})
}

func TestLogoutClearsSession(t *testing.T) {
	app, _ := setupTestServer(t)
	session := registerUser(t, app, "Reader", readerEmail, readerPass)

	resp := doGet(t, app, "/logout", session)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie {
			assert.Empty(t, ck.Value)
		}
	}
}

func TestAdminRoutesForbiddenForNonAdmins(t *testing.T) {
	app, db := setupTestServer(t)
	reader := registerUser(t, app, "Reader", readerEmail, readerPass)

	validPost := url.Values{
		"title":    {"Sneaky Post"},
		"subtitle": {"Should never land"},
		"body":     {"<p>nope</p>"},
		"img_url":  {"https://example.com/x.jpg"},
	}

	tests := []struct {
		name    string
		method  string
		path    string
		cookies []*http.Cookie
	}{
		{"anonymous new post page", fiber.MethodGet, "/new-post", nil},
		{"anonymous create", fiber.MethodPost, "/new-post", nil},
		{"reader new post page", fiber.MethodGet, "/new-post", []*http.Cookie{reader}},
		{"reader create", fiber.MethodPost, "/new-post", []*http.Cookie{reader}},
		{"reader edit page", fiber.MethodGet, "/edit-post/1", []*http.Cookie{reader}},
		{"reader update", fiber.MethodPost, "/edit-post/1", []*http.Cookie{reader}},
		{"reader delete", fiber.MethodGet, "/delete/1", []*http.Cookie{reader}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if tt.method == fiber.MethodPost {
				resp = doPostForm(t, app, tt.path, validPost, tt.cookies...)
			} else {
				resp = doGet(t, app, tt.path, tt.cookies...)
			}
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		})
	}

	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, 0, count, "forbidden requests must not write posts")
}

func TestPostLifecycle(t *testing.T) {
	app, db := setupTestServer(t)
	admin := registerUser(t, app, "Owner", ownerEmail, ownerPass)

	createPost(t, app, admin, "The Hidden Waterfall")

	var post models.Post
	require.NoError(t, db.Where("title = ?", "The Hidden Waterfall").First(&post).Error)
	originalDate := post.Date
	assert.NotEmpty(t, originalDate)

	t.Run("front page lists the post", func(t *testing.T) {
		resp := doGet(t, app, "/")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyOf(t, resp), "The Hidden Waterfall")
	})

	t.Run("post page renders the body", func(t *testing.T) {
		resp := doGet(t, app, fmt.Sprintf("/post/%d", post.ID))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyOf(t, resp), "Some body text.")
	})

	t.Run("duplicate title is rejected with a notice", func(t *testing.T) {
		resp := doPostForm(t, app, "/new-post", url.Values{
			"title":    {"The Hidden Waterfall"},
			"subtitle": {"Different subtitle"},
			"body":     {"<p>Different body.</p>"},
			"img_url":  {"https://example.com/other.jpg"},
		}, admin)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/new-post", resp.Header.Get(fiber.HeaderLocation))

		var count int64
		db.Model(&models.Post{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("edit replaces fields and keeps the date", func(t *testing.T) {
		resp := doPostForm(t, app, fmt.Sprintf("/edit-post/%d", post.ID), url.Values{
			"title":    {"The Hidden Waterfall"},
			"subtitle": {"A revised subtitle"},
			"body":     {"<p>Revised body text.</p>"},
			"img_url":  {"https://example.com/revised.jpg"},
		}, admin)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

		var updated models.Post
		require.NoError(t, db.First(&updated, post.ID).Error)
		assert.Equal(t, "A revised subtitle", updated.Subtitle)
		assert.Equal(t, originalDate, updated.Date)
	})

	t.Run("delete removes the post from the site", func(t *testing.T) {
		resp := doGet(t, app, fmt.Sprintf("/delete/%d", post.ID), admin)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

		resp = doGet(t, app, fmt.Sprintf("/post/%d", post.ID))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestCommentFlow(t *testing.T) {
	app, db := setupTestServer(t)
	admin := registerUser(t, app, "Owner", ownerEmail, ownerPass)
	createPost(t, app, admin, "A Post Worth Discussing")

	var post models.Post
	require.NoError(t, db.Where("title = ?", "A Post Worth Discussing").First(&post).Error)
	postPath := fmt.Sprintf("/post/%d", post.ID)

	t.Run("anonymous comment redirects without writing", func(t *testing.T) {
		resp := doPostForm(t, app, postPath, url.Values{"comment": {"drive-by comment"}})
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

		var count int64
		db.Model(&models.Comment{}).Count(&count)
		assert.EqualValues(t, 0, count)
	})

	t.Run("logged-in reader can comment", func(t *testing.T) {
		reader := registerUser(t, app, "Reader", readerEmail, readerPass)

		resp := doPostForm(t, app, postPath, url.Values{"comment": {"Lovely write-up."}}, reader)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, postPath, resp.Header.Get(fiber.HeaderLocation))

		resp = doGet(t, app, postPath, reader)
		body := bodyOf(t, resp)
		assert.Contains(t, body, "Lovely write-up.")
		assert.Contains(t, body, "gravatar.com/avatar/")

		var readerRow models.User
		require.NoError(t, db.Where("email = ?", readerEmail).First(&readerRow).Error)
		var comments []models.Comment
		require.NoError(t, db.Where("post_id = ?", post.ID).Find(&comments).Error)
		require.Len(t, comments, 1)
		assert.Equal(t, readerRow.ID, comments[0].UserID)
	})

	t.Run("blank comment rerenders with an error", func(t *testing.T) {
		reader := registerUser(t, app, "Second Reader", "second@example.com", "second-pass")

		resp := doPostForm(t, app, postPath, url.Values{"comment": {"   "}}, reader)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyOf(t, resp), "Comment is required")

		var count int64
		db.Model(&models.Comment{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}

func TestCommentMarkupIsEscaped(t *testing.T) {
	app, db := setupTestServer(t)
	admin := registerUser(t, app, "Owner", ownerEmail, ownerPass)
	createPost(t, app, admin, "Quiet Comment Section")

	var post models.Post
	require.NoError(t, db.Where("title = ?", "Quiet Comment Section").First(&post).Error)
	postPath := fmt.Sprintf("/post/%d", post.ID)

	reader := registerUser(t, app, "Reader", readerEmail, readerPass)
	resp := doPostForm(t, app, postPath, url.Values{
		"comment": {"<script>alert('xss')</script>"},
	}, reader)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp = doGet(t, app, postPath, reader)
	body := bodyOf(t, resp)
	assert.NotContains(t, body, "<script>alert", "comment text must never render as markup")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestDeletedPostLeavesCommentsInPlace(t *testing.T) {
	app, db := setupTestServer(t)
	admin := registerUser(t, app, "Owner", ownerEmail, ownerPass)
	createPost(t, app, admin, "Soon To Be Gone")

	var post models.Post
	require.NoError(t, db.Where("title = ?", "Soon To Be Gone").First(&post).Error)
	postPath := fmt.Sprintf("/post/%d", post.ID)

	reader := registerUser(t, app, "Reader", readerEmail, readerPass)
	resp := doPostForm(t, app, postPath, url.Values{"comment": {"First!"}}, reader)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp = doGet(t, app, fmt.Sprintf("/delete/%d", post.ID), admin)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	var count int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count)
	assert.EqualValues(t, 1, count, "comments must survive post deletion")

	resp = doGet(t, app, postPath, reader)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestShowPostMissing(t *testing.T) {
	app, _ := setupTestServer(t)

	resp := doGet(t, app, "/post/999")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doGet(t, app, "/post/not-a-number")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStaticPages(t *testing.T) {
	app, _ := setupTestServer(t)

	resp := doGet(t, app, "/about")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doGet(t, app, "/contact")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestContactFormWithoutMailer(t *testing.T) {
	app, _ := setupTestServer(t)

	t.Run("invalid submission rerenders", func(t *testing.T) {
		resp := doPostForm(t, app, "/contact", url.Values{
			"name":    {"Reader"},
			"email":   {"bad"},
			"message": {"Hello"},
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyOf(t, resp), "Invalid email format")
	})

	t.Run("valid submission confirms", func(t *testing.T) {
		resp := doPostForm(t, app, "/contact", url.Values{
			"name":    {"Reader"},
			"email":   {readerEmail},
			"message": {"Hello there"},
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyOf(t, resp), "Thanks for reaching out")
	})
}

func TestGravatarURL(t *testing.T) {
	// Hash of the canonical lowercased, trimmed address.
	assert.Equal(t,
		GravatarURL("Reader@Example.com "),
		GravatarURL("reader@example.com"),
	)
	assert.Contains(t, GravatarURL("reader@example.com"), "https://www.gravatar.com/avatar/")
}
