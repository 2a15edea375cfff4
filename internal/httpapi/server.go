// Package httpapi exposes the attendance service over HTTP.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"

	constants "github.com/schoolattendance/backend/internal/constants"
	"github.com/schoolattendance/backend/models/auth"
	attendancerepo "github.com/schoolattendance/backend/pkg/attendance"
	authsvc "github.com/schoolattendance/backend/pkg/auth"
	"github.com/schoolattendance/backend/pkg/school"
)

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Auth       *authsvc.Service
	Tokens     *authsvc.TokenIssuer
	Attendance *attendancerepo.Repository
	Schools    school.Directory
	Health     Pinger
	Metrics    *Metrics

	// AllowedOrigins enables CORS for the listed origins. Empty disables it.
	AllowedOrigins []string
	// LoginRateLimit caps login attempts per client IP per minute.
	LoginRateLimit int
	// TrustProxyHeaders rewrites the client address from X-Forwarded-For /
	// X-Real-IP. Without it the limiter keys on the TCP peer.
	TrustProxyHeaders bool
}

type Server struct {
	auth       *authsvc.Service
	tokens     *authsvc.TokenIssuer
	attendance *attendancerepo.Repository
	schools    school.Directory
	health     Pinger
	metrics    *Metrics

	allowedOrigins    []string
	loginRateLimit    int
	trustProxyHeaders bool
}

func NewServer(opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.LoginRateLimit <= 0 {
		opts.LoginRateLimit = constants.DEFAULT_LOGIN_RATE_LIMIT
	}
	return &Server{
		auth:              opts.Auth,
		tokens:            opts.Tokens,
		attendance:        opts.Attendance,
		schools:           opts.Schools,
		health:            opts.Health,
		metrics:           opts.Metrics,
		allowedOrigins:    opts.AllowedOrigins,
		loginRateLimit:    opts.LoginRateLimit,
		trustProxyHeaders: opts.TrustProxyHeaders,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if s.trustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	if len(s.allowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}).Handler)
	}

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(httprate.Limit(
			s.loginRateLimit,
			time.Minute,
			httprate.WithKeyFuncs(keyByPeer),
			httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, http.StatusTooManyRequests, "too many login attempts, try again later")
			}),
		)).Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Get("/schools", s.handleListSchools)
			r.Get("/attendance-data", s.handleAttendanceData)

			r.With(requireRole(auth.RoleTeacher)).Post("/attendance", s.handleUpsertAttendance)
			r.With(requireRole(auth.RoleTeacher)).Post("/attendance/bulk", s.handleUpsertAttendanceBatch)

			r.Route("/reports", func(r chi.Router) {
				r.Use(requireRole(auth.RoleCentralOffice))
				r.Get("/summary", s.handleReportSummary)
				r.Get("/export.csv", s.handleReportExport)
			})
		})
	})

	return r
}

// keyByPeer keys on RemoteAddr, which only RealIP may rewrite.
func keyByPeer(r *http.Request) (string, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr, nil
	}
	return host, nil
}
