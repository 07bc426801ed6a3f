package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/viamunicipal/cms-backend/api/controllers"
	"github.com/viamunicipal/cms-backend/api/middleware"
	"github.com/viamunicipal/cms-backend/internal/auth"
	"github.com/viamunicipal/cms-backend/internal/cityservices"
	"github.com/viamunicipal/cms-backend/internal/events"
	"github.com/viamunicipal/cms-backend/internal/forms"
	"github.com/viamunicipal/cms-backend/internal/galleries"
	"github.com/viamunicipal/cms-backend/internal/media"
	"github.com/viamunicipal/cms-backend/internal/pages"
	"github.com/viamunicipal/cms-backend/internal/permissions"
	"github.com/viamunicipal/cms-backend/internal/posts"
	"github.com/viamunicipal/cms-backend/internal/secretariats"
	"github.com/viamunicipal/cms-backend/internal/settings"
	"github.com/viamunicipal/cms-backend/internal/slides"
	"github.com/viamunicipal/cms-backend/internal/taxonomy"
	"github.com/viamunicipal/cms-backend/internal/tourism"
	"github.com/viamunicipal/cms-backend/internal/users"
	"github.com/viamunicipal/cms-backend/pkg/config"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/logger"
	"github.com/viamunicipal/cms-backend/pkg/metrics"
	"github.com/viamunicipal/cms-backend/pkg/redis"
)

// Services bundles every domain service the router wires.
type Services struct {
	Auth         auth.Service
	Users        users.Service
	Permissions  permissions.Service
	Taxonomy     taxonomy.Service
	Posts        posts.Service
	Pages        pages.Service
	Events       events.Service
	CityServices cityservices.Service
	Secretariats secretariats.Service
	Tourism      tourism.Service
	Slides       slides.Service
	Galleries    galleries.Service
	Forms        forms.Service
	Media        media.Service
	Settings     settings.Service
}

// NewRouter assembles the full HTTP surface: the authenticated editorial API
// under /api/v1, the anonymous portal reads under /api/public/v1, and the
// operational endpoints.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	promRegistry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	anyRole := middleware.RequireAnyRole(logg, enums.UserRoleAdmin, enums.UserRoleEditor, enums.UserRoleViewer)
	editor := middleware.RequireAnyRole(logg, enums.UserRoleAdmin, enums.UserRoleEditor)
	admin := middleware.RequireRole(logg, enums.UserRoleAdmin)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Get("/health", controllers.Health())
	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(rateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(rateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Portal view counting and citizen submissions need no session.
		r.Post("/posts/{id}/views", controllers.PostsIncrementViews(svcs.Posts, logg))
		r.Post("/forms/{formId}/responses", controllers.FormsSubmit(svcs.Forms, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			registerEditorialRoutes(r, logg, svcs, anyRole, editor, admin)
		})
	})

	registerPublicRoutes(r, logg, svcs)

	return r
}

type roleGate = func(http.Handler) http.Handler

func registerEditorialRoutes(r chi.Router, logg *logger.Logger, svcs Services, anyRole, editor, admin roleGate) {
	r.Route("/users", func(r chi.Router) {
		r.With(admin).Get("/", controllers.UsersList(svcs.Users, logg))
		r.With(admin).Post("/", controllers.UsersCreate(svcs.Users, logg))
		r.With(admin).Get("/{id}", controllers.UsersGet(svcs.Users, logg))
		r.With(admin).Patch("/{id}", controllers.UsersUpdate(svcs.Users, logg))
		r.With(admin).Delete("/{id}", controllers.UsersDeactivate(svcs.Users, logg))
		r.With(admin).Get("/{id}/permissions", controllers.UserPermissionsList(svcs.Permissions, logg))
		r.With(admin).Post("/{id}/permissions", controllers.UserPermissionsGrant(svcs.Permissions, logg))
		r.With(admin).Delete("/{id}/permissions", controllers.UserPermissionsRevoke(svcs.Permissions, logg))
	})

	r.Route("/permissions", func(r chi.Router) {
		r.With(admin).Get("/", controllers.PermissionsList(svcs.Permissions, logg))
		r.With(admin).Post("/", controllers.PermissionsCreate(svcs.Permissions, logg))
	})

	r.Route("/categories", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.CategoriesList(svcs.Taxonomy, logg))
		r.With(anyRole).Get("/{id}", controllers.CategoriesGet(svcs.Taxonomy, logg))
		r.With(editor).Post("/", controllers.CategoriesUpsert(svcs.Taxonomy, logg))
		r.With(admin).Delete("/{id}", controllers.CategoriesDelete(svcs.Taxonomy, logg))
	})

	r.Route("/tags", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.TagsList(svcs.Taxonomy, logg))
		r.With(anyRole).Get("/{id}", controllers.TagsGet(svcs.Taxonomy, logg))
		r.With(editor).Post("/", controllers.TagsUpsert(svcs.Taxonomy, logg))
		r.With(admin).Delete("/{id}", controllers.TagsDelete(svcs.Taxonomy, logg))
	})

	r.Route("/posts", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.PostsList(svcs.Posts, logg))
		r.With(anyRole).Get("/{id}", controllers.PostsGet(svcs.Posts, logg))
		r.With(editor).Post("/", controllers.PostsCreate(svcs.Posts, logg))
		r.With(editor).Patch("/{id}", controllers.PostsUpdate(svcs.Posts, logg))
		r.With(editor).Post("/{id}/publish", controllers.PostsPublish(svcs.Posts, logg))
		r.With(admin).Delete("/{id}", controllers.PostsDelete(svcs.Posts, logg))
	})

	r.Route("/pages", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.PagesList(svcs.Pages, logg))
		r.With(anyRole).Get("/{id}", controllers.PagesGet(svcs.Pages, logg))
		r.With(editor).Post("/", controllers.PagesCreate(svcs.Pages, logg))
		r.With(editor).Patch("/{id}", controllers.PagesUpdate(svcs.Pages, logg))
		r.With(editor).Post("/{id}/publish", controllers.PagesPublish(svcs.Pages, logg))
		r.With(admin).Delete("/{id}", controllers.PagesDelete(svcs.Pages, logg))
	})

	r.Route("/events", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.EventsList(svcs.Events, logg))
		r.With(anyRole).Get("/{id}", controllers.EventsGet(svcs.Events, logg))
		r.With(editor).Post("/", controllers.EventsCreate(svcs.Events, logg))
		r.With(editor).Patch("/{id}", controllers.EventsUpdate(svcs.Events, logg))
		r.With(editor).Post("/{id}/publish", controllers.EventsPublish(svcs.Events, logg))
		r.With(editor).Post("/{id}/cancel", controllers.EventsCancel(svcs.Events, logg))
		r.With(admin).Delete("/{id}", controllers.EventsDelete(svcs.Events, logg))
	})

	r.Route("/services", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.CityServicesList(svcs.CityServices, logg))
		r.With(anyRole).Get("/{id}", controllers.CityServicesGet(svcs.CityServices, logg))
		r.With(editor).Post("/", controllers.CityServicesCreate(svcs.CityServices, logg))
		r.With(editor).Patch("/{id}", controllers.CityServicesUpdate(svcs.CityServices, logg))
		r.With(admin).Delete("/{id}", controllers.CityServicesDelete(svcs.CityServices, logg))
	})

	r.Route("/secretariats", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.SecretariatsList(svcs.Secretariats, logg))
		r.With(anyRole).Get("/{id}", controllers.SecretariatsGet(svcs.Secretariats, logg))
		r.With(editor).Post("/", controllers.SecretariatsCreate(svcs.Secretariats, logg))
		r.With(editor).Patch("/{id}", controllers.SecretariatsUpdate(svcs.Secretariats, logg))
		r.With(admin).Delete("/{id}", controllers.SecretariatsDelete(svcs.Secretariats, logg))
	})

	r.Route("/tourism", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.TourismList(svcs.Tourism, logg))
		r.With(anyRole).Get("/{id}", controllers.TourismGet(svcs.Tourism, logg))
		r.With(editor).Post("/", controllers.TourismCreate(svcs.Tourism, logg))
		r.With(editor).Patch("/{id}", controllers.TourismUpdate(svcs.Tourism, logg))
		r.With(admin).Delete("/{id}", controllers.TourismDelete(svcs.Tourism, logg))
	})

	r.Route("/slides", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.SlidesList(svcs.Slides, logg))
		r.With(anyRole).Get("/{id}", controllers.SlidesGet(svcs.Slides, logg))
		r.With(editor).Post("/", controllers.SlidesCreate(svcs.Slides, logg))
		r.With(editor).Patch("/{id}", controllers.SlidesUpdate(svcs.Slides, logg))
		r.With(admin).Delete("/{id}", controllers.SlidesDelete(svcs.Slides, logg))
	})

	r.Route("/galleries", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.GalleriesList(svcs.Galleries, logg))
		r.With(anyRole).Get("/{id}", controllers.GalleriesGet(svcs.Galleries, logg))
		r.With(editor).Post("/", controllers.GalleriesCreate(svcs.Galleries, logg))
		r.With(editor).Patch("/{id}", controllers.GalleriesUpdate(svcs.Galleries, logg))
		r.With(admin).Delete("/{id}", controllers.GalleriesDelete(svcs.Galleries, logg))
	})

	r.Route("/forms", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.FormsList(svcs.Forms, logg))
		r.With(anyRole).Get("/{id}", controllers.FormsGet(svcs.Forms, logg))
		r.With(editor).Post("/", controllers.FormsCreate(svcs.Forms, logg))
		r.With(editor).Patch("/{id}", controllers.FormsUpdate(svcs.Forms, logg))
		r.With(admin).Delete("/{id}", controllers.FormsDelete(svcs.Forms, logg))
		r.With(editor).Get("/{formId}/responses", controllers.FormSubmissionsList(svcs.Forms, logg))
		r.With(admin).Delete("/{formId}/responses/{id}", controllers.FormSubmissionsDelete(svcs.Forms, logg))
	})

	r.Route("/media", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.MediaList(svcs.Media, logg))
		r.With(anyRole).Get("/{id}", controllers.MediaGet(svcs.Media, logg))
		r.With(editor).Post("/", controllers.MediaCreate(svcs.Media, logg))
		r.With(editor).Patch("/{id}", controllers.MediaUpdate(svcs.Media, logg))
		r.With(admin).Delete("/{id}", controllers.MediaDelete(svcs.Media, logg))
	})

	r.Route("/settings", func(r chi.Router) {
		r.With(anyRole).Get("/", controllers.SettingsList(svcs.Settings, logg))
		r.With(anyRole).Get("/{key}", controllers.SettingsGet(svcs.Settings, logg))
		r.With(admin).Put("/{key}", controllers.SettingsUpsert(svcs.Settings, logg))
		r.With(admin).Delete("/{key}", controllers.SettingsDelete(svcs.Settings, logg))
	})
}

func registerPublicRoutes(r chi.Router, logg *logger.Logger, svcs Services) {
	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/posts", controllers.PostsPublicList(svcs.Posts, logg))
		r.Get("/posts/{slug}", controllers.PostsPublicGetBySlug(svcs.Posts, logg))
		r.Get("/pages", controllers.PagesPublicList(svcs.Pages, logg))
		r.Get("/pages/{slug}", controllers.PagesPublicGetBySlug(svcs.Pages, logg))
		r.Get("/events", controllers.EventsPublicList(svcs.Events, logg))
		r.Get("/events/{slug}", controllers.EventsPublicGetBySlug(svcs.Events, logg))
		r.Get("/services", controllers.CityServicesPublicList(svcs.CityServices, logg))
		r.Get("/services/{slug}", controllers.CityServicesPublicGetBySlug(svcs.CityServices, logg))
		r.Get("/secretariats", controllers.SecretariatsPublicList(svcs.Secretariats, logg))
		r.Get("/tourism", controllers.TourismPublicList(svcs.Tourism, logg))
		r.Get("/tourism/{slug}", controllers.TourismPublicGetBySlug(svcs.Tourism, logg))
		r.Get("/slides", controllers.SlidesPublicList(svcs.Slides, logg))
		r.Get("/galleries", controllers.GalleriesPublicList(svcs.Galleries, logg))
		r.Get("/galleries/{slug}", controllers.GalleriesPublicGetBySlug(svcs.Galleries, logg))
		r.Get("/forms", controllers.FormsPublicList(svcs.Forms, logg))
		r.Get("/forms/{slug}", controllers.FormsPublicGetBySlug(svcs.Forms, logg))
	})
}

// rateLimit keeps enforcement optional when redis is not wired.
func rateLimit(policy middleware.AuthRateLimitPolicy, client *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if client == nil {
		return middleware.AuthRateLimit(policy, nil, logg)
	}
	return middleware.AuthRateLimit(policy, client, logg)
}
