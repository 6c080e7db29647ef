package profile

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rikshrestha/freshair-hikes/internal/recommend"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Put("/", authMiddleware, func(c *fiber.Ctx) error {
		var req recommend.Profile
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Pace == "" || req.DistanceBand == "" || req.WeeklyActivity == "" {
			return fiber.NewError(fiber.StatusBadRequest, "pace, distance_band and weekly_activity required")
		}
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Save(c.Context(), userID, req); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(req)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		p, err := svc.Load(c.Context(), userID)
		if err == ErrNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(p)
	})

	r.Delete("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Clear(c.Context(), userID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
