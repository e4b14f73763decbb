package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripatlas/internal/db"
	"tripatlas/internal/handlers"
	"tripatlas/internal/handlers/api"
	"tripatlas/internal/middleware"
	"tripatlas/internal/sharelink"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, manager *sharelink.Manager) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	tripHandler := handlers.NewTripHandler(database, s.Cfg)
	profileHandler := handlers.NewProfileHandler(database, s.Cfg)
	resolveHandler := handlers.NewResolveHandler(manager, database, s.Cfg)
	probeHandler := handlers.NewProbeHandler(database)

	apiTripHandler := api.NewTripHandler(database, s.Cfg)
	apiShareLinkHandler := api.NewShareLinkHandler(manager, s.Cfg)
	apiResolveHandler := api.NewResolveHandler(manager, database)

	// Auth routes - OIDC is required for owner access
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. Owners must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	s.App.Get("/login", func(c fiber.Ctx) error {
		return c.Render("login", handlers.MergeBranding(fiber.Map{
			"Title": "Sign In",
		}, s.Cfg))
	})

	// Owner pages
	s.App.Get("/", authMiddleware.RequireAuth, tripHandler.Index)
	s.App.Get("/trips/:id", authMiddleware.RequireAuth, tripHandler.Show)
	s.App.Get("/profile", authMiddleware.RequireAuth, profileHandler.Show)
	s.App.Post("/profile", authMiddleware.RequireAuth, profileHandler.Update)

	// Owner JSON API
	s.App.Get("/api/trips", authMiddleware.RequireAuthJSON, apiTripHandler.List)
	s.App.Post("/api/trips", authMiddleware.RequireAuthJSON, apiTripHandler.Create)
	s.App.Get("/api/trips/:id", authMiddleware.RequireAuthJSON, apiTripHandler.Get)
	s.App.Put("/api/trips/:id", authMiddleware.RequireAuthJSON, apiTripHandler.Update)
	s.App.Delete("/api/trips/:id", authMiddleware.RequireAuthJSON, apiTripHandler.Delete)
	s.App.Post("/api/trips/:id/moments", authMiddleware.RequireAuthJSON, apiTripHandler.AddMoment)
	s.App.Delete("/api/trips/:id/moments/:momentId", authMiddleware.RequireAuthJSON, apiTripHandler.DeleteMoment)

	s.App.Get("/api/share-links", authMiddleware.RequireAuthJSON, apiShareLinkHandler.List)
	s.App.Post("/api/share-links", authMiddleware.RequireAuthJSON, apiShareLinkHandler.Create)
	s.App.Post("/api/share-links/:id/rotate", authMiddleware.RequireAuthJSON, apiShareLinkHandler.Rotate)
	s.App.Post("/api/share-links/:id/revoke", authMiddleware.RequireAuthJSON, apiShareLinkHandler.Revoke)

	// Public resolution - the only unauthenticated read path
	s.App.Get("/s/:scope/:token", resolveHandler.Resolve)
	s.App.Get("/api/s/:scope/:token", apiResolveHandler.Resolve)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
