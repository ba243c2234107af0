package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rakshamitra/relief-backend/api/responses"
	pkgauth "github.com/rakshamitra/relief-backend/pkg/auth"
	"github.com/rakshamitra/relief-backend/pkg/config"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// claims. A missing header is 401; a present but unverifiable token is 403.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxVolunteerID, claims.VolunteerID.String())
			ctx = context.WithValue(ctx, ctxActorName, claims.Name)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)

			if logg != nil {
				ctx = logg.WithVolunteerID(ctx, claims.VolunteerID.String())
				if claims.Role != "" {
					ctx = logg.WithField(ctx, "actor_role", claims.Role)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
