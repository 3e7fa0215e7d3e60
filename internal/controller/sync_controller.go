package controller

import (
	"tg-content-bot/internal/dto"
	"tg-content-bot/internal/pkg/serverutils"
	"tg-content-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISyncController interface {
	RegisterRoutes(r fiber.Router)
	Trigger(ctx *fiber.Ctx) error
}

type syncController struct {
	publisher service.IPublisherService
}

func NewSyncController(publisher service.IPublisherService) ISyncController {
	return &syncController{publisher: publisher}
}

func (c *syncController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sync/v1")
	h.Post("", c.Trigger)
}

// Trigger enqueues a sync request and returns immediately. Requests queue
// behind a running pass instead of overlapping it.
func (c *syncController) Trigger(ctx *fiber.Ctx) error {
	req := dto.TriggerSyncRequest{Reason: "manual"}
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			return err
		}
		if req.Reason == "" {
			req.Reason = "manual"
		}
	}

	if err := c.publisher.RequestSync(ctx.Context(), req.Reason); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).
		JSON(serverutils.SuccessResponse[any]("Sync request accepted", nil))
}
