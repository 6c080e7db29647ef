package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rikshrestha/freshair-hikes/internal/auth"
	"github.com/rikshrestha/freshair-hikes/internal/config"
	"github.com/rikshrestha/freshair-hikes/internal/directions"
	"github.com/rikshrestha/freshair-hikes/internal/events"
	"github.com/rikshrestha/freshair-hikes/internal/hike"
	"github.com/rikshrestha/freshair-hikes/internal/navigation"
	"github.com/rikshrestha/freshair-hikes/internal/profile"
	"github.com/rikshrestha/freshair-hikes/internal/stream"
	"github.com/rikshrestha/freshair-hikes/internal/trail"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	eventLog := events.NewService(s.DB)
	profiles := profile.NewService(s.DB)
	hikes := hike.NewService(s.DB)
	trails := trail.NewService(s.DB, eventLog)
	router := directions.NewClient(s.Cfg.MapboxToken)
	nav := navigation.NewService(navigation.NewManager(), router, s.Stream, eventLog)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	profile.RegisterRoutes(s.App.Group("/profile"), profiles, jwtMiddleware)
	hike.RegisterRoutes(s.App.Group("/hikes"), hikes, jwtMiddleware)
	trail.RegisterRoutes(s.App.Group("/trails"), trails, profiles, hikes, jwtMiddleware)
	navigation.RegisterRoutes(s.App.Group("/navigation"), nav, jwtMiddleware)
	events.RegisterRoutes(s.App.Group("/events"), eventLog, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
