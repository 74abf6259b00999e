package server

import (
	"log/slog"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET /home: the post list with author names plus auth state.
func (s *Server) Home(c *fiber.Ctx) error {
	user, _ := s.currentUser(c)

	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return err
	}

	data := viewData(user)
	data["Posts"] = posts
	return c.Render("home", data)
}

// CreatePost handles POST /post (form: title, content). The owner is always
// the session user; an unauthenticated request is redirected to /login and
// never attributed to anyone.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user, ok := s.currentUser(c)
	if !ok {
		middleware.Logger.InfoContext(c.UserContext(), "post rejected, no session",
			slog.String("code", models.CodeUnauthorized))
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	title := c.FormValue("title")
	content := c.FormValue("content")
	if err := validation.ValidatePost(title, content); err != nil {
		posts, listErr := s.postRepo.List(c.Context())
		if listErr != nil {
			return listErr
		}
		data := viewData(user)
		data["Posts"] = posts
		data["Error"] = err.Error()
		return c.Render("home", data)
	}

	post := &models.Post{
		Title:   title,
		Content: content,
		UserID:  user.ID,
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return err
	}

	observability.PostsCreated.Inc()
	return c.Redirect("/home", fiber.StatusSeeOther)
}

// Search handles GET and POST /search (form or query: searchQuery). Both
// methods share one semantics: empty query lists every post.
func (s *Server) Search(c *fiber.Ctx) error {
	user, _ := s.currentUser(c)

	query := c.FormValue("searchQuery")
	if query == "" {
		query = c.Query("searchQuery")
	}

	kind := "query"
	if strings.TrimSpace(query) == "" {
		kind = "empty"
	}
	observability.SearchQueries.WithLabelValues(kind).Inc()

	posts, err := s.postRepo.Search(c.Context(), query)
	if err != nil {
		return err
	}

	data := viewData(user)
	data["Posts"] = posts
	data["Query"] = query
	return c.Render("search", data)
}
