package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"facility-security-api/internal/config"
	"facility-security-api/internal/handler"
	"facility-security-api/internal/middleware"
	"facility-security-api/internal/model"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Resource  *handler.ResourceHandler
	Area      *handler.AreaHandler
	AccessLog *handler.AccessLogHandler
	Dashboard *handler.DashboardHandler
}

func New(cfg *config.Config, guard *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimit.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	// Session lifecycle; no bearer token required.
	r.Post("/token", h.Auth.Login)
	r.Post("/refresh-token", h.Auth.Refresh)
	r.Post("/logout", h.Auth.Logout)

	requireAdmin := guard.RequireRoles(model.RoleSecurityAdmin)
	requireManager := guard.RequireRoles(model.RoleManager)

	r.Route("/users", func(users chi.Router) {
		users.Use(guard.RequireAuth)
		users.Get("/me", h.Auth.Me)

		users.Group(func(admin chi.Router) {
			admin.Use(requireAdmin)
			admin.Post("/", h.User.Create)
			admin.Get("/", h.User.List)
			admin.Get("/{user_id}", h.User.Get)
			admin.Put("/{user_id}", h.User.Update)
			admin.Delete("/{user_id}", h.User.Delete)
			admin.Get("/{user_id}/areas", h.User.Areas)
		})
	})

	r.Route("/resources", func(resources chi.Router) {
		resources.Use(guard.RequireAuth)
		resources.Get("/", h.Resource.List)
		resources.Get("/{resource_id}", h.Resource.Get)

		resources.Group(func(managed chi.Router) {
			managed.Use(requireManager)
			managed.Post("/", h.Resource.Create)
			managed.Put("/{resource_id}", h.Resource.Update)
			managed.Delete("/{resource_id}", h.Resource.Delete)
		})
	})

	r.Route("/restricted-areas", func(areas chi.Router) {
		areas.Use(guard.RequireAuth)
		areas.Get("/", h.Area.List)
		areas.Get("/{area_id}", h.Area.Get)

		areas.Group(func(admin chi.Router) {
			admin.Use(requireAdmin)
			admin.Post("/", h.Area.Create)
			admin.Put("/{area_id}", h.Area.Update)
			admin.Delete("/{area_id}", h.Area.Delete)
			admin.Post("/{area_id}/grant-access/{user_id}", h.Area.GrantAccess)
			admin.Post("/{area_id}/revoke-access/{user_id}", h.Area.RevokeAccess)
		})
	})

	r.Route("/access-logs", func(logs chi.Router) {
		logs.Use(guard.RequireAuth)
		logs.Post("/", h.AccessLog.Create)

		logs.Group(func(admin chi.Router) {
			admin.Use(requireAdmin)
			admin.Get("/", h.AccessLog.List)
			admin.Get("/{log_id}", h.AccessLog.Get)
			admin.Delete("/{log_id}", h.AccessLog.Delete)
			admin.Get("/user/{user_id}", h.AccessLog.ListForUser)
		})
	})

	r.With(guard.RequireAuth).Get("/dashboard/stats", h.Dashboard.Stats)

	return r
}
