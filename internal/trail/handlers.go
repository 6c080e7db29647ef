package trail

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rikshrestha/freshair-hikes/internal/hike"
	"github.com/rikshrestha/freshair-hikes/internal/profile"
	"github.com/rikshrestha/freshair-hikes/internal/recommend"
)

func RegisterRoutes(r fiber.Router, svc *Service, profiles *profile.Service, hikes *hike.Service, authMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		trails, err := svc.Trails(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(trails)
	})

	// Ranked plan for today: top three recommended, the rest as other
	// options in the same order.
	r.Get("/recommended", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)

		p, err := profiles.Load(c.Context(), userID)
		if err == profile.ErrNotFound {
			return fiber.NewError(fiber.StatusPreconditionFailed, "complete onboarding first")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		history, err := hikes.List(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		catalog, err := svc.Trails(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		readiness := recommend.ReadinessScore(p, history)
		ranked := recommend.RankTrails(p, history, catalog)
		recommended := ranked
		others := []recommend.RankedTrail{}
		if len(ranked) > 3 {
			recommended = ranked[:3]
			others = ranked[3:]
		}

		return c.JSON(fiber.Map{
			"readiness":      readiness,
			"max_difficulty": recommend.MaxDifficultyAllowed(readiness),
			"recommended":    recommended,
			"others":         others,
		})
	})

	r.Get("/favorites", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		ids, err := svc.Favorites(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(ids)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		t, err := svc.Get(c.Context(), c.Params("id"))
		if err == ErrNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(t)
	})

	r.Put("/:id/favorite", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Favorite(c.Context(), userID, c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Delete("/:id/favorite", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Unfavorite(c.Context(), userID, c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
