package controllers

import (
	"net/http"

	"github.com/rakshamitra/relief-backend/api/responses"
	"github.com/rakshamitra/relief-backend/pkg/config"
	"github.com/rakshamitra/relief-backend/pkg/db"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
	"github.com/rakshamitra/relief-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Relief-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the datastores. Nil dependencies are reported as
// skipped so partial deployments still come up.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Relief-Env", cfg.App.Env)

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["db"] = "down"
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable").WithDetails(checks))
				return
			}
			checks["db"] = "ok"
		} else {
			checks["db"] = "skipped"
		}

		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				checks["redis"] = "down"
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable").WithDetails(checks))
				return
			}
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "skipped"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
