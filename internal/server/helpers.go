package server

import (
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// currentUser derives the caller's identity from the session, re-fetching the
// user row on every call. A session pointing at a deleted user is destroyed
// and the request continues anonymous; authentication state is never held in
// process-wide variables.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, bool) {
	userID, ok := s.sessions.UserID(c)
	if !ok {
		return nil, false
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if models.IsNotFound(err) {
			_ = s.sessions.LogOut(c)
			return nil, false
		}
		middleware.Logger.ErrorContext(c.UserContext(), "session user lookup failed",
			slog.String("code", models.ErrorCode(err)),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	return user, true
}

// viewData builds the base template data carrying the auth state every view
// renders against.
func viewData(user *models.User) fiber.Map {
	data := fiber.Map{
		"Authenticated": user != nil,
	}
	if user != nil {
		data["User"] = user
	}
	return data
}
