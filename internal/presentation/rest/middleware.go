package rest

import (
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/sessions"
	"github.com/gofiber/fiber/v2"
)

const (
	sessionCookie = "onboarding_session"
	sessionHeader = "X-Onboarding-Session"
	sessionLocal  = "session"
)

// RequireSession resolves the onboarding session from the header or the cookie.
func (s *Server) RequireSession(c *fiber.Ctx) error {
	token := c.Get(sessionHeader)
	if token == "" {
		token = c.Cookies(sessionCookie)
	}
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "onboarding session required"})
	}

	identity, err := s.provider.GetIdentity(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	c.Locals(sessionLocal, s.handlers.Sessions.Get(identity.SessionID.String()))
	return c.Next()
}

func currentSession(c *fiber.Ctx) *sessions.Session {
	return c.Locals(sessionLocal).(*sessions.Session)
}
