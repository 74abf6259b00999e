package server

import (
	"errors"
	"log/slog"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	errStateMismatch = errors.New("oauth state mismatch")
	errMissingCode   = errors.New("authorization code missing from callback")
)

// ShowLogin handles GET /login
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	if _, ok := s.currentUser(c); ok {
		return c.Redirect("/home", fiber.StatusSeeOther)
	}
	data := viewData(nil)
	data["GoogleEnabled"] = s.google != nil
	return c.Render("login", data)
}

// ShowRegister handles GET /register
func (s *Server) ShowRegister(c *fiber.Ctx) error {
	if _, ok := s.currentUser(c); ok {
		return c.Redirect("/home", fiber.StatusSeeOther)
	}
	return c.Render("register", viewData(nil))
}

// Register handles POST /register (form: email, password, username). A taken
// email redirects to /login without creating a row; the users.email unique
// constraint backstops the check under concurrent registration.
func (s *Server) Register(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	username := c.FormValue("username")

	if err := validation.ValidateEmail(email); err != nil {
		observability.RegistrationsTotal.WithLabelValues("invalid").Inc()
		data := viewData(nil)
		data["Error"] = err.Error()
		return c.Render("register", data)
	}
	if err := validation.ValidatePassword(password); err != nil {
		observability.RegistrationsTotal.WithLabelValues("invalid").Inc()
		data := viewData(nil)
		data["Error"] = err.Error()
		return c.Render("register", data)
	}
	if err := validation.ValidateUsername(username); err != nil {
		observability.RegistrationsTotal.WithLabelValues("invalid").Inc()
		data := viewData(nil)
		data["Error"] = err.Error()
		return c.Render("register", data)
	}

	existing, err := s.userRepo.GetByEmail(c.Context(), email)
	if err != nil {
		return err
	}
	if existing != nil {
		observability.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		middleware.Logger.InfoContext(c.UserContext(), "registration rejected, email taken",
			slog.String("code", models.CodeValidation))
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		// A concurrent registration won the unique-constraint race.
		if models.ErrorCode(err) == models.CodeValidation {
			observability.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return err
	}

	observability.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// Login handles POST /login (form: email, password). Unknown identity and bad
// credential both surface as the same redirect to /login.
func (s *Server) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	outcome, user, err := s.verifier.VerifyLocal(c.Context(), email, password)
	if err != nil {
		return err
	}
	observability.LoginAttempts.WithLabelValues(string(auth.MethodLocal), outcome.String()).Inc()

	if outcome != auth.OutcomeVerified {
		middleware.Logger.InfoContext(c.UserContext(), "login rejected",
			slog.String("code", models.CodeUnauthorized),
			slog.String("outcome", outcome.String()),
		)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if err := s.sessions.LogIn(c, user.ID); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect("/home", fiber.StatusSeeOther)
}

// Logout handles GET /logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.LogOut(c); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session destroy failed",
			slog.String("error", err.Error()))
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// GoogleLogin handles GET /auth/google: stores a CSRF nonce in the session and
// sends the caller to the provider.
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	if s.google == nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	state := uuid.NewString()
	if err := s.sessions.SetOAuthState(c, state); err != nil {
		return models.NewInternalError(err)
	}
	return c.Redirect(s.google.AuthCodeURL(state), fiber.StatusSeeOther)
}

// GoogleCallback handles GET /auth/google/home. Every provider failure is a
// login failure; none crash the request.
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	if s.google == nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	failed := func(err error) error {
		observability.LoginAttempts.WithLabelValues(string(auth.MethodGoogle), "rejected").Inc()
		middleware.Logger.WarnContext(c.UserContext(), "federated login failed",
			slog.String("code", models.ErrorCode(err)),
			slog.String("error", err.Error()),
		)
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	state, ok := s.sessions.TakeOAuthState(c)
	if !ok || state == "" || state != c.Query("state") {
		return failed(models.NewProviderError(errStateMismatch))
	}

	code := c.Query("code")
	if code == "" {
		return failed(models.NewProviderError(errMissingCode))
	}

	profile, err := s.google.FetchProfile(c.Context(), code)
	if err != nil {
		return failed(err)
	}

	user, err := s.verifier.ResolveFederated(c.Context(), profile.Email, profile.Name)
	if err != nil {
		return failed(err)
	}

	if err := s.sessions.LogIn(c, user.ID); err != nil {
		return models.NewInternalError(err)
	}
	observability.LoginAttempts.WithLabelValues(string(auth.MethodGoogle), "verified").Inc()
	return c.Redirect("/home", fiber.StatusSeeOther)
}
