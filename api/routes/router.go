package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DavidJosephLai/casewhr-backend/api/controllers"
	planscontrollers "github.com/DavidJosephLai/casewhr-backend/api/controllers/plans"
	subscriptioncontrollers "github.com/DavidJosephLai/casewhr-backend/api/controllers/subscriptions"
	walletcontrollers "github.com/DavidJosephLai/casewhr-backend/api/controllers/wallet"
	"github.com/DavidJosephLai/casewhr-backend/api/middleware"
	"github.com/DavidJosephLai/casewhr-backend/internal/ledger"
	planssvc "github.com/DavidJosephLai/casewhr-backend/internal/plans"
	subscriptionsvc "github.com/DavidJosephLai/casewhr-backend/internal/subscriptions"
	walletsvc "github.com/DavidJosephLai/casewhr-backend/internal/wallet"
	"github.com/DavidJosephLai/casewhr-backend/pkg/config"
	"github.com/DavidJosephLai/casewhr-backend/pkg/db"
	"github.com/DavidJosephLai/casewhr-backend/pkg/logger"
	"github.com/DavidJosephLai/casewhr-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	subscriptionsService subscriptionsvc.Service,
	walletService walletsvc.Service,
	ledgerService ledger.Service,
	plansService planssvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", planscontrollers.List(plansService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/subscribe", subscriptioncontrollers.Subscribe(subscriptionsService, logg))
				r.Get("/current", subscriptioncontrollers.Current(subscriptionsService, logg))
				r.Post("/cancel", subscriptioncontrollers.Cancel(subscriptionsService, logg))
				r.Get("/payments", subscriptioncontrollers.Payments(subscriptionsService, logg))
			})

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", walletcontrollers.Balance(walletService, logg))
				r.Post("/topup", walletcontrollers.TopUp(walletService, logg))
				r.Get("/transactions", walletcontrollers.Transactions(ledgerService, logg))
			})
		})
	})

	// Service-to-service surface. Deploy behind private ingress only.
	r.Route("/internal/v1", func(r chi.Router) {
		r.Use(middleware.InternalAuth(cfg.Internal, logg))
		r.Get("/subscriptions/check/{userId}", subscriptioncontrollers.Check(subscriptionsService, logg))
	})

	return r
}
