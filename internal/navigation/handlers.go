package navigation

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rikshrestha/freshair-hikes/internal/shared/geo"
	"github.com/rikshrestha/freshair-hikes/internal/stream"
)

// RouteFetcher is the directions-provider boundary; the tracker itself
// never calls the provider.
type RouteFetcher interface {
	WalkingRoute(ctx context.Context, start, end geo.LatLng) (Route, error)
}

type EventSink interface {
	Log(ctx context.Context, msg string)
}

type Service struct {
	mgr     *Manager
	fetcher RouteFetcher
	hub     *stream.Hub
	events  EventSink
}

func NewService(mgr *Manager, fetcher RouteFetcher, hub *stream.Hub, events EventSink) *Service {
	return &Service{mgr: mgr, fetcher: fetcher, hub: hub, events: events}
}

type startRequest struct {
	Mode        string       `json:"mode"`
	TrailID     string       `json:"trail_id"`
	TrailName   string       `json:"trail_name"`
	Start       geo.LatLng   `json:"start"`
	Destination geo.LatLng   `json:"destination"`
	Path        []geo.LatLng `json:"path"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req startRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var route Route
		switch req.Mode {
		case ModePath:
			if len(req.Path) == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "path mode requires at least one coordinate")
			}
			route = Route{
				Mode:                ModePath,
				Coords:              req.Path,
				TotalDistanceMeters: geo.PolylineMiles(req.Path) * metersPerMile,
			}
		case ModeDirections:
			fetched, err := svc.fetcher.WalkingRoute(c.Context(), req.Start, req.Destination)
			if err != nil {
				svc.logEvent(c.Context(), "directions fetch failed: "+err.Error())
				return fiber.NewError(fiber.StatusBadGateway, err.Error())
			}
			route = fetched
		default:
			return fiber.NewError(fiber.StatusBadRequest, "mode must be path or directions")
		}

		userID, _ := c.Locals("user_id").(string)
		session := svc.mgr.Start(userID, req.TrailID, req.TrailName, req.Mode, req.Start, req.Destination, route)
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		session, err := svc.mgr.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(session)
	})

	// The location stream posts one tick per position update.
	r.Post("/:id/tick", authMiddleware, func(c *fiber.Ctx) error {
		var pos geo.LatLng
		if err := c.BodyParser(&pos); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		progress, err := svc.mgr.Tick(c.Params("id"), pos)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		if svc.hub != nil {
			if payload, err := json.Marshal(progress); err == nil {
				svc.hub.Broadcast(progress.SessionID, payload)
			}
		}
		return c.JSON(progress)
	})

	r.Post("/:id/reroute", authMiddleware, func(c *fiber.Ctx) error {
		var pos geo.LatLng
		if err := c.BodyParser(&pos); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		id := c.Params("id")
		allowed, err := svc.mgr.RerouteAllowed(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "reroute cooldown active")
		}

		session, err := svc.mgr.Get(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		route, err := svc.fetcher.WalkingRoute(c.Context(), pos, session.Destination)
		if err != nil {
			svc.logEvent(c.Context(), "reroute fetch failed: "+err.Error())
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		if err := svc.mgr.ApplyReroute(id, route); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}

		session, _ = svc.mgr.Get(id)
		return c.JSON(session)
	})

	r.Post("/:id/pause", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.mgr.Pause(c.Params("id")); err != nil {
			return statusFor(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/resume", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.mgr.Resume(c.Params("id")); err != nil {
			return statusFor(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/end", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.mgr.End(c.Params("id")); err != nil {
			return statusFor(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Start over: the session is discarded, not ended.
	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		svc.mgr.Discard(c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func (s *Service) logEvent(ctx context.Context, msg string) {
	if s.events != nil {
		s.events.Log(ctx, msg)
	}
}

func statusFor(err error) error {
	if err == ErrSessionNotFound {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.NewError(fiber.StatusConflict, err.Error())
}
