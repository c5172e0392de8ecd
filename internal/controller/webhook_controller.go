package controller

import (
	"context"

	"member-portal-be/internal/dto"
	"member-portal-be/internal/pkg/apperr"
	"member-portal-be/internal/pkg/serverutils"
	"member-portal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router, jwtGuard fiber.Handler)
	HandlePayment(ctx *fiber.Ctx) error
	GetEventStatus(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IWebhookService
}

func NewWebhookController(service service.IWebhookService) IWebhookController {
	return &webhookController{service: service}
}

func (c *webhookController) RegisterRoutes(r fiber.Router, jwtGuard fiber.Handler) {
	h := r.Group("/webhook")
	h.Post("/payment", c.HandlePayment)
	h.Get("/health", c.Health)

	// Ops lookup, not part of the processor-facing surface.
	h.Get("/events/:id", jwtGuard, c.GetEventStatus)
}

// HandlePayment is the single processor-facing endpoint. The status code is
// the retry contract: 400 means never retry, 200 means settled (including
// acknowledged-but-flagged payloads), 500 invites a backoff redelivery.
func (c *webhookController) HandlePayment(ctx *fiber.Ctx) error {
	rawBody := ctx.Body()
	signatureHeader := ctx.Get("signature")

	// Deliberately not the request context: a processor disconnect must not
	// cancel an in-flight provisioning transaction.
	ack, err := c.service.HandleEvent(context.Background(), rawBody, signatureHeader)
	if err == nil {
		return ctx.Status(fiber.StatusOK).JSON(ack)
	}

	switch apperr.KindOf(err) {
	case apperr.KindAuthentication:
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.WebhookAck{
			Received: false,
			Message:  "invalid signature",
		})
	case apperr.KindValidation:
		// A retry cannot fix a permanently malformed payload. Acknowledge
		// so the processor stops, flag for manual review.
		return ctx.Status(fiber.StatusOK).JSON(dto.WebhookAck{
			Received: true,
			Flagged:  true,
			Message:  "malformed metadata, flagged for review",
		})
	default:
		// Conflict (retries exhausted) and transient storage failures both
		// want a processor-side redelivery.
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.WebhookAck{
			Received: false,
			Message:  "temporary failure, please retry",
		})
	}
}

func (c *webhookController) GetEventStatus(ctx *fiber.Ctx) error {
	eventId := ctx.Params("id")
	if eventId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "event id is required"))
	}

	res, err := c.service.GetEventStatus(ctx.Context(), eventId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "event not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Event status", res))
}

func (c *webhookController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}
