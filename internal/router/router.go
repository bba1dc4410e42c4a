package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fleet-tracker/internal/config"
	"fleet-tracker/internal/handler"
	"fleet-tracker/internal/middleware"
	"fleet-tracker/internal/websocket"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	vehicleHandler *handler.VehicleHandler,
	positionHandler *handler.PositionHandler,
	jobHandler *handler.JobHandler,
	hub *websocket.Hub,
	tokenValidator websocket.TokenValidator,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Live event stream for the map UI. Auth is carried as a query token
	// because browsers cannot set headers on websocket dials.
	r.Get("/ws", websocket.ServeWS(hub, tokenValidator))

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles("admin")).Post("/register", authHandler.Register)
			auth.Post("/refresh", authHandler.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.With(authMiddleware.RequireAuth).Get("/vehicles", vehicleHandler.List)
		api.With(authMiddleware.RequireAuth).Get("/vehicles/deleted", vehicleHandler.ListDeleted)
		api.With(authMiddleware.RequireAuth).Get("/vehicles/{vehicle_id}", vehicleHandler.Get)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles("dispatcher", "admin")).Delete("/vehicles/{vehicle_id}", vehicleHandler.Delete)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles("dispatcher", "admin")).Post("/vehicles/{vehicle_id}/restore", vehicleHandler.Restore)
		api.With(authMiddleware.RequireAuth).Get("/positions/latest", positionHandler.Latest)
		api.With(authMiddleware.RequireAuth).Get("/jobs", jobHandler.List)
		api.With(authMiddleware.RequireAuth).Get("/jobs/{job_code}", jobHandler.GetByCode)
	})

	return r
}
