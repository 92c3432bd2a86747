package routes

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/scholarbridge/scholarbridge-backend/api/controllers"
	"github.com/scholarbridge/scholarbridge-backend/api/middleware"
	"github.com/scholarbridge/scholarbridge-backend/internal/applications"
	"github.com/scholarbridge/scholarbridge-backend/internal/auth"
	"github.com/scholarbridge/scholarbridge-backend/internal/notifications"
	"github.com/scholarbridge/scholarbridge-backend/internal/resources"
	"github.com/scholarbridge/scholarbridge-backend/internal/saved"
	"github.com/scholarbridge/scholarbridge-backend/internal/scholarships"
	"github.com/scholarbridge/scholarbridge-backend/internal/users"
	"github.com/scholarbridge/scholarbridge-backend/pkg/auth/session"
	"github.com/scholarbridge/scholarbridge-backend/pkg/config"
	"github.com/scholarbridge/scholarbridge-backend/pkg/db"
	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
	"github.com/scholarbridge/scholarbridge-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services bundles the application services the router exposes.
type Services struct {
	Auth          auth.Service
	Scholarships  scholarships.Service
	Applications  applications.Service
	Saved         saved.Service
	Resources     resources.Service
	Notifications notifications.Service
	Moderation    users.ModerationService
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	signinPolicy := middleware.NewAuthRateLimitPolicy(
		"signin",
		cfg.AuthRateLimit.SigninWindow,
		cfg.AuthRateLimit.SigninIPLimit,
		cfg.AuthRateLimit.SigninEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signinPolicy, redisClient, logg)).Post("/signin", controllers.Signin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).Post("/signup", controllers.Signup(svcs.Auth, logg))
		r.Post("/signout", controllers.Signout(sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.Refresh(sessions, cfg.JWT, logg))
	})

	// Public catalog. Browsing needs no account.
	r.Route("/api/v1/scholarships", func(r chi.Router) {
		r.Get("/", controllers.ListScholarships(svcs.Scholarships, logg))
		r.Get("/{id}", controllers.GetScholarship(svcs.Scholarships, logg))
	})
	r.Route("/api/v1/resources", func(r chi.Router) {
		r.Get("/", controllers.ListResources(svcs.Resources, logg))
		r.Get("/{id}", controllers.GetResource(svcs.Resources, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireApproved(logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(svcs.Notifications, logg))
			r.Post("/{id}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleStudent))

			r.Post("/scholarships/{id}/apply", controllers.Apply(svcs.Applications, logg))
			r.Post("/scholarships/{id}/save", controllers.ToggleSavedScholarship(svcs.Saved, logg))
			r.Get("/saved", controllers.ListSavedScholarships(svcs.Saved, logg))
			r.Get("/applications/me", controllers.ListMyApplications(svcs.Applications, logg))
			r.Patch("/applications/{id}", controllers.WithdrawOrAcceptApplication(svcs.Applications, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleSuperAdmin))

			r.Route("/scholarships", func(r chi.Router) {
				r.Get("/", controllers.ListMyScholarships(svcs.Scholarships, logg))
				r.Post("/", controllers.CreateScholarship(svcs.Scholarships, logg))
				r.Patch("/{id}", controllers.UpdateScholarship(svcs.Scholarships, logg))
				r.Delete("/{id}", controllers.DeleteScholarship(svcs.Scholarships, logg))
				r.Post("/{id}/publish", controllers.PublishScholarship(svcs.Scholarships, logg))
				r.Post("/{id}/close", controllers.CloseScholarship(svcs.Scholarships, logg))
				r.Get("/{id}/applications", controllers.ListScholarshipApplications(svcs.Applications, logg))
			})
			r.Patch("/applications/{id}/status", controllers.UpdateApplicationStatus(svcs.Applications, logg))
			r.Route("/resources", func(r chi.Router) {
				r.Get("/", controllers.ListMyResources(svcs.Resources, logg))
				r.Post("/", controllers.CreateResource(svcs.Resources, logg))
				r.Patch("/{id}", controllers.UpdateResource(svcs.Resources, logg))
				r.Delete("/{id}", controllers.DeleteResource(svcs.Resources, logg))
			})
		})

		r.Route("/moderation", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleSuperAdmin))

			r.Get("/scholarships/pending", controllers.ListPendingScholarships(svcs.Scholarships, logg))
			r.Post("/scholarships/{id}/approval", controllers.SetScholarshipApproval(svcs.Scholarships, logg))
			r.Get("/users", controllers.ListUsersByRole(svcs.Moderation, logg))
			r.Get("/users/pending-admins", controllers.ListPendingAdmins(svcs.Moderation, logg))
			r.Post("/users/{id}/approve", controllers.ApproveUser(svcs.Moderation, logg))
			r.Post("/users/{id}/block", controllers.BlockUser(svcs.Moderation, logg))
			r.Post("/users/{id}/unblock", controllers.UnblockUser(svcs.Moderation, logg))
		})
	})

	mountPages(r, cfg, logg)

	return r
}

// mountPages puts the navigation gate in front of the server-rendered app.
// Page requests that pass the gate are proxied to the upstream frontend;
// without an upstream configured the API serves no pages.
func mountPages(r chi.Router, cfg *config.Config, logg *logger.Logger) {
	if cfg.Gate.UpstreamURL == "" {
		return
	}
	upstream, err := url.Parse(cfg.Gate.UpstreamURL)
	if err != nil {
		logg.Warn(logg.WithField(context.Background(), "upstream_url", cfg.Gate.UpstreamURL), "invalid gate upstream url, pages disabled")
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(upstream)
	gate := middleware.Gate(cfg.JWT, cfg.Gate)
	r.NotFound(gate(proxy).ServeHTTP)
}
