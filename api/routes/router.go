package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/staysupply/staysupply-backend/api/controllers"
	"github.com/staysupply/staysupply-backend/api/middleware"
	"github.com/staysupply/staysupply-backend/internal/agent"
	"github.com/staysupply/staysupply-backend/internal/auditlog"
	"github.com/staysupply/staysupply-backend/internal/auth"
	"github.com/staysupply/staysupply-backend/internal/carts"
	"github.com/staysupply/staysupply-backend/internal/catalog"
	"github.com/staysupply/staysupply-backend/internal/managers"
	"github.com/staysupply/staysupply-backend/internal/orders"
	"github.com/staysupply/staysupply-backend/internal/properties"
	"github.com/staysupply/staysupply-backend/internal/reservations"
	"github.com/staysupply/staysupply-backend/internal/users"
	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/db"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	"github.com/staysupply/staysupply-backend/pkg/logger"
	"github.com/staysupply/staysupply-backend/pkg/redis"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth         *auth.Service
	Users        *users.Service
	Properties   *properties.Service
	Reservations *reservations.Service
	Carts        *carts.Service
	Orders       *orders.Service
	Catalog      *catalog.Service
	Managers     *managers.Service
	AuditLog     *auditlog.Service
	AgentTrigger *agent.Trigger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	authn := middleware.Auth(cfg.JWT, redisClient, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(authn).Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", controllers.UserRegister(svcs.Users, logg))
		r.With(authn).Get("/me", controllers.UserMe(svcs.Users, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(svcs.Catalog, logg))
		r.Get("/products/{productId}", controllers.ProductGet(svcs.Catalog, logg))
		r.Get("/categories", controllers.CategoryList(svcs.Catalog, logg))
	})

	r.Route("/api/v1/managers", func(r chi.Router) {
		r.Get("/", controllers.ManagerList(svcs.Managers, logg))
		r.Get("/{managerId}", controllers.ManagerGet(svcs.Managers, logg))
		r.With(authn).Post("/{managerId}/reviews", controllers.ManagerReview(svcs.Managers, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/api/v1/properties", func(r chi.Router) {
			r.With(middleware.RequireRole(string(enums.UserRoleOwner), logg)).
				Post("/", controllers.PropertyCreate(svcs.Properties, logg))
			r.Get("/", controllers.PropertyList(svcs.Properties, logg))
			r.Route("/{propertyId}", func(r chi.Router) {
				r.Get("/", controllers.PropertyGet(svcs.Properties, logg))
				r.Patch("/", controllers.PropertyUpdate(svcs.Properties, logg))
				r.Delete("/", controllers.PropertyDelete(svcs.Properties, logg))
				r.Get("/inventory-template", controllers.PropertyTemplateGet(svcs.Properties, logg))
				r.Put("/inventory-template", controllers.PropertyTemplateReplace(svcs.Properties, logg))
				r.Get("/reservations", controllers.ReservationListByProperty(svcs.Reservations, logg))
			})
		})

		r.Route("/api/v1/reservations", func(r chi.Router) {
			r.Post("/", controllers.ReservationCreate(svcs.Reservations, logg))
			r.Get("/mine", controllers.ReservationListMine(svcs.Reservations, logg))
			r.Route("/{reservationId}", func(r chi.Router) {
				r.Get("/", controllers.ReservationGet(svcs.Reservations, logg))
				r.Get("/carts", controllers.ReservationCarts(svcs.Carts, logg))
				r.Get("/orders", controllers.ReservationOrders(svcs.Orders, logg))
				r.Get("/audit-logs", controllers.ReservationAuditLogs(svcs.AuditLog, logg))
			})
		})

		r.Route("/api/v1/carts", func(r chi.Router) {
			r.Post("/", controllers.CartCreate(svcs.Carts, logg))
			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Carts, logg))
				r.Put("/", controllers.CartUpdate(svcs.Carts, logg))
				r.Post("/approve", controllers.CartDecide(svcs.Carts, logg))
			})
		})

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
		})

		r.Post("/api/v1/agents/trigger", controllers.AgentTrigger(svcs.AgentTrigger, logg))
	})

	return r
}
