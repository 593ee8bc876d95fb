package apiapp

import (
	"errors"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	adminauthsvc "github.com/ivankudzin/teenmatch/internal/services/adminauth"
	httperrors "github.com/ivankudzin/teenmatch/internal/transport/http/errors"
)

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

// CORSMiddleware lets the browser moderator panel call /api/moderator.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         600,
	}).Handler
}

// ModeratorAuthMiddleware admits requests carrying a live moderator bearer token.
// Preflight requests pass through untouched.
func ModeratorAuthMiddleware(authService *adminauthsvc.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if !authService.IsConfigured() {
				httperrors.Fail(w, http.StatusInternalServerError, "moderator auth is not configured")
				return
			}

			accessToken, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				httperrors.Fail(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := authService.ValidateAccessToken(r.Context(), accessToken)
			if err != nil {
				switch {
				case errors.Is(err, adminauthsvc.ErrUnauthorized), errors.Is(err, adminauthsvc.ErrSessionExpired):
					if log != nil {
						log.Debug("moderator auth rejected", zap.Error(err))
					}
					httperrors.Fail(w, http.StatusUnauthorized, "invalid access token")
				default:
					if log != nil {
						log.Error("moderator auth failed", zap.Error(err))
					}
					httperrors.Fail(w, http.StatusInternalServerError, "moderator auth is unavailable")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(adminauthsvc.WithClaims(r.Context(), claims)))
		})
	}
}

func extractBearerToken(value string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
