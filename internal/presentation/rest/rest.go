package rest

import (
	"errors"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/commands/submission"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/commands/summary"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/commands/tenant"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/dto"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/errs"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/consts"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/domain/entity"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/auth"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/catalog"
	"github.com/gofiber/fiber/v2"
)

type Server struct {
	handlers *application.Handlers
	provider *auth.SessionProvider
}

func NewServer(handlers *application.Handlers, provider *auth.SessionProvider) *Server {
	return &Server{handlers: handlers, provider: provider}
}

func RegisterHandlers(app *fiber.App, s *Server) {
	app.Post("/payment/webhook", s.PaymentWebhook)
	app.Post("/onboarding/sessions", s.CreateSession)

	g := app.Group("/onboarding", s.RequireSession)
	g.Get("/progress", s.GetProgress)
	g.Get("/notifications", s.GetNotifications)
	g.Post("/tenant", s.CreateTenant)
	g.Post("/verify/:step", s.VerifyStep)
	g.Post("/plan", s.SubmitPlan)
	g.Get("/plan/status", s.GetSubmissionStatus)
	g.Delete("/plan/error", s.ClearSubmissionError)
	g.Post("/summary", s.AcknowledgeSummary)
	g.Post("/payment", s.CreatePayment)
	g.Get("/payment/:sessionID", s.GetPaymentInfo)
	g.Post("/reset", s.Reset)
	g.Delete("/steps/:step", s.ClearStep)
}

func (s *Server) CreateSession(c *fiber.Ctx) error {
	token, identity, err := s.provider.Issue()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	s.handlers.Sessions.Get(identity.SessionID.String())

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  identity.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{
		SessionID: identity.SessionID.String(),
		Token:     token,
	})
}

func (s *Server) GetProgress(c *fiber.Ctx) error {
	sess := currentSession(c)
	resp := s.handlers.GetProgress.Query(c.UserContext(), sess.Store)

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (s *Server) GetNotifications(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(dto.NotificationsResponse{Notifications: currentSession(c).Inbox.Drain()})
}

func (s *Server) CreateTenant(c *fiber.Ctx) error {
	var req entity.BasicInfo
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	tenantID, err := s.handlers.CreateTenant.Execute(c.UserContext(), currentSession(c).Store, req)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateTenantResponse{TenantID: tenantID})
}

func (s *Server) VerifyStep(c *fiber.Ctx) error {
	step, ok := consts.ParseStep(c.Params("step"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unknown step " + c.Params("step")})
	}

	if err := tenant.Verify(c.UserContext(), currentSession(c).Store, step); err != nil {
		return c.Status(errorStatus(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) SubmitPlan(c *fiber.Ctx) error {
	var req dto.SubmitPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	var plan *entity.Plan
	if req.PlanID != 0 {
		var err error
		plan, err = s.handlers.Catalog.GetPlan(c.UserContext(), req.PlanID)
		if err != nil {
			return c.Status(errorStatus(err)).JSON(dto.ErrorResponse{Error: err.Error()})
		}
	}

	sess := currentSession(c)
	outcome := sess.Submission.Submit(c.UserContext(), entity.TenantSubmissionData{
		SelectedPlan:   plan,
		BillingCycle:   req.BillingCycle,
		BranchCount:    req.BranchCount,
		SelectedAddons: req.SelectedAddons,
	}, nil)

	status := fiber.StatusOK
	switch outcome {
	case submission.OutcomeRejected:
		status = fiber.StatusUnprocessableEntity
	case submission.OutcomeFailed:
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(dto.SubmitPlanResponse{
		Outcome:       string(outcome),
		Status:        sess.Submission.Status(),
		Notifications: sess.Inbox.Drain(),
	})
}

func (s *Server) GetSubmissionStatus(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(currentSession(c).Submission.Status())
}

func (s *Server) ClearSubmissionError(c *fiber.Ctx) error {
	currentSession(c).Submission.ClearError()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) AcknowledgeSummary(c *fiber.Ctx) error {
	if err := summary.Acknowledge(c.UserContext(), currentSession(c).Store); err != nil {
		return c.Status(errorStatus(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) CreatePayment(c *fiber.Ctx) error {
	sess := currentSession(c)
	resp, err := s.handlers.Payment.CreatePayment(c.UserContext(), sess.Store, sess.Namespace)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (s *Server) GetPaymentInfo(c *fiber.Ctx) error {
	resp, err := s.handlers.Payment.GetPaymentInfo(c.UserContext(), currentSession(c).Store, c.Params("sessionID"))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (s *Server) PaymentWebhook(c *fiber.Ctx) error {
	if err := s.handlers.Payment.Webhook(c.UserContext(), c.Body(), c.Get("Stripe-Signature")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) Reset(c *fiber.Ctx) error {
	sess := currentSession(c)
	if err := steps.Cleanup(c.UserContext(), sess.Store); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	sess.Submission.ClearError()

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) ClearStep(c *fiber.Ctx) error {
	step, ok := consts.ParseStep(c.Params("step"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "unknown step " + c.Params("step")})
	}

	currentSession(c).Tracker.ClearStepCompletion(c.UserContext(), step)
	return c.SendStatus(fiber.StatusNoContent)
}

func errorStatus(err error) int {
	var (
		fieldErrs    errs.FieldErrors
		tenantErr    errs.TenantRequiredError
		precondition errs.PreconditionError
	)
	switch {
	case errors.As(err, &fieldErrs):
		return fiber.StatusBadRequest
	case errors.Is(err, catalog.ErrPlanNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &tenantErr), errors.As(err, &precondition):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
