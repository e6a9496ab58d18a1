package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/controller"
	"github.com/unclebandit/mailpulse-backend/internal/handler"
	"github.com/unclebandit/mailpulse-backend/internal/metrics"
)

type Routes struct {
	Users    *controller.UserController
	Emails   *controller.EmailController
	Tracking *handler.TrackingHandler
	Logger   *zap.Logger
}

func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(rt.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", handler.Index)
	r.Get("/healthz", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/register", rt.Users.Register)
	r.Post("/generate-email", rt.Emails.GenerateEmail)
	r.Post("/send-email", rt.Emails.SendEmail)
	r.Post("/scrape-and-generate", rt.Emails.ScrapeAndGenerate)
	r.Get("/track-open/{id}", rt.Tracking.TrackOpen)

	return r
}

// unmatchedRoute labels requests no route matched, keeping the metric's
// cardinality bounded by the route table.
const unmatchedRoute = "unmatched"

// requestLogger logs each request once it completes and records its latency
// under the matched route pattern.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				route := unmatchedRoute
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				elapsed := time.Since(start)

				metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(status), elapsed)
				logger.Info("http request",
					zap.String("method", r.Method),
					zap.String("route", route),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Duration("duration", elapsed),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
