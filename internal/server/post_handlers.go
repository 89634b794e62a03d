package server

import (
	"fmt"

	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/service"
	"chronicle/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Index renders the front page with every post, newest first.
func (s *Server) Index(c *fiber.Ctx) error {
	posts, err := s.posts.ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("index", viewData(c, fiber.Map{
		"Posts": posts,
	}))
}

// ShowPost renders a single post with its comments and, for logged-in
// readers, the comment box.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := s.posts.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	comments, err := s.comments.ListComments(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Render("post", viewData(c, fiber.Map{
		"Title":    post.Title,
		"Post":     post,
		"Comments": comments,
		"Form":     &validation.CommentForm{},
		"Errors":   map[string]string{},
	}))
}

// AddComment handles a comment submission. Anonymous visitors are redirected
// to the login page without any row being written.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		SetFlash(c, "Please login first to comment.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	form := new(validation.CommentForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Validate(); len(errs) > 0 {
		post, err := s.posts.GetPost(c.UserContext(), id)
		if err != nil {
			return err
		}
		comments, err := s.comments.ListComments(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.Render("post", viewData(c, fiber.Map{
			"Title":    post.Title,
			"Post":     post,
			"Comments": comments,
			"Form":     form,
			"Errors":   errs,
		}))
	}

	if _, err := s.comments.CreateComment(c.UserContext(), form.Text, user, id); err != nil {
		return err
	}
	return c.Redirect(fmt.Sprintf("/post/%d", id), fiber.StatusSeeOther)
}

// NewPostPage renders the empty post editor.
func (s *Server) NewPostPage(c *fiber.Ctx) error {
	return c.Render("make_post", viewData(c, fiber.Map{
		"Title":   "New Post",
		"Heading": "New Post",
		"Action":  "/new-post",
		"Form":    &validation.PostForm{},
		"Errors":  map[string]string{},
	}))
}

// CreatePost publishes a new post authored by the current admin.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	form := new(validation.PostForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Validate(); len(errs) > 0 {
		return c.Render("make_post", viewData(c, fiber.Map{
			"Title":   "New Post",
			"Heading": "New Post",
			"Action":  "/new-post",
			"Form":    form,
			"Errors":  errs,
		}))
	}

	post, err := s.posts.CreatePost(c.UserContext(), postInput(form), middleware.CurrentUser(c))
	if err != nil {
		if models.IsCode(err, models.CodeTitleTaken) {
			SetFlash(c, "A post with this title already exists.")
			return c.Redirect("/new-post", fiber.StatusSeeOther)
		}
		return err
	}
	return c.Redirect(fmt.Sprintf("/post/%d", post.ID), fiber.StatusSeeOther)
}

// EditPostPage renders the editor pre-filled with the post's current fields.
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := s.posts.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Render("make_post", viewData(c, fiber.Map{
		"Title":   "Edit Post",
		"Heading": "Edit Post",
		"Action":  fmt.Sprintf("/edit-post/%d", post.ID),
		"Form": &validation.PostForm{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			Body:     post.Body,
			ImageURL: post.ImageURL,
		},
		"Errors": map[string]string{},
	}))
}

// UpdatePost replaces the post's fields and reassigns authorship to the
// editing admin. The publication date is kept.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	form := new(validation.PostForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form submission")
	}
	if errs := form.Validate(); len(errs) > 0 {
		return c.Render("make_post", viewData(c, fiber.Map{
			"Title":   "Edit Post",
			"Heading": "Edit Post",
			"Action":  fmt.Sprintf("/edit-post/%d", id),
			"Form":    form,
			"Errors":  errs,
		}))
	}

	post, err := s.posts.UpdatePost(c.UserContext(), id, postInput(form), middleware.CurrentUser(c))
	if err != nil {
		if models.IsCode(err, models.CodeTitleTaken) {
			SetFlash(c, "A post with this title already exists.")
			return c.Redirect(fmt.Sprintf("/edit-post/%d", id), fiber.StatusSeeOther)
		}
		return err
	}
	return c.Redirect(fmt.Sprintf("/post/%d", post.ID), fiber.StatusSeeOther)
}

// DeletePost removes a post and returns to the front page. Comments on the
// post are left in place.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := s.posts.DeletePost(c.UserContext(), id); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func postInput(form *validation.PostForm) service.PostInput {
	return service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImageURL: form.ImageURL,
	}
}
