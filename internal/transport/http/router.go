package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpmw "github.com/cwrk-planet/creator-hub/internal/transport/http/middleware"
	"github.com/cwrk-planet/creator-hub/pkg/httputil"
	"github.com/cwrk-planet/creator-hub/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Handler  *Handler
	Verifier httpmw.Verifier

	// WS обслуживает /ws. Маршрут регистрируется вне Timeout и Compress,
	// иначе upgrade соединения не пройдёт.
	WS http.Handler

	// Ready проверяет хранилище для /readyz; nil считается готовым.
	Ready func(ctx context.Context) error

	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(httputil.MiddlewareRequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(httpmw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ready(ctx); err != nil {
				logger.FromContext(r.Context()).Warn("readyz failed", slog.Any("err", err))
				httputil.Error(w, http.StatusServiceUnavailable, "storage unavailable", nil)
				return
			}
		}
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if d.WS != nil {
		r.Method(http.MethodGet, "/ws", d.WS)
	}

	h := d.Handler
	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(timeout))
		api.Use(middleware.Compress(5))

		api.Post("/register", h.Register)
		api.Post("/login", h.Login)
		api.Post("/auth/google", h.GoogleSignIn)
		api.Get("/messages", h.RoomHistory)

		// всё ниже требует Bearer токен; проверка идёт до разбора multipart
		api.Group(func(pr chi.Router) {
			pr.Use(httpmw.AuthMiddleware(d.Verifier))

			pr.Get("/me", h.Me)
			pr.Get("/profile", h.GetProfile)
			pr.Post("/profile", h.UpdateProfile)
			pr.Get("/creators", h.ListCreators)

			pr.Post("/messages/dm", h.SendDirectMessage)
			pr.Get("/messages/dm/{userId}", h.DirectThread)
		})
	})

	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}

	return false
}
