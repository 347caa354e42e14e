package controllers

import (
	"context"
	"net/http"

	"github.com/staysupply/staysupply-backend/api/responses"
	"github.com/staysupply/staysupply-backend/pkg/config"
	"github.com/staysupply/staysupply-backend/pkg/db"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StaySupply-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthReady verifies the backing services are reachable before reporting
// the instance as routable.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redisPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-StaySupply-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
