package server

import (
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// RegisterRoutes sets up the router with all endpoints.
func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	if s.cfg.CSRFEnabled {
		r.Use(s.csrfProtect())
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/booking", http.StatusFound)
	})
	r.Get("/health", s.healthHandler)

	r.Route("/booking", func(r chi.Router) {
		r.Get("/", s.bookingFormHandler)
		r.With(s.limiter.Middleware).Post("/", s.submitBookingHandler)
		r.Get("/success", s.bookingSuccessHandler)
		r.Get("/rules", s.bookingRulesHandler)
	})

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	return r
}

// csrfProtect wraps gorilla/csrf. Requests that arrived over plain HTTP are
// marked as such so the Referer check only applies behind TLS.
func (s *Server) csrfProtect() func(http.Handler) http.Handler {
	protect := csrf.Protect(s.csrfKey,
		csrf.Secure(s.cfg.SecureCookies),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(s.csrfFailureHandler)),
	)

	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil && !s.cfg.SecureCookies {
				r = csrf.PlaintextHTTPRequest(r)
			}
			h.ServeHTTP(w, r)
		})
	}
}

func (s *Server) csrfFailureHandler(w http.ResponseWriter, r *http.Request) {
	s.log.Warn("csrf check failed",
		zap.String("path", r.URL.Path),
		zap.Error(csrf.FailureReason(r)),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// healthHandler provides health information.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "up"}
	if s.db != nil {
		resp["journal"] = s.db.Health()
	}
	s.writeJSON(w, resp)
}

// bookingRulesHandler serves the field rules the browser checks before
// posting. The minimum date moves daily, so the response is not cached.
func (s *Server) bookingRulesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, s.bookings.Rules())
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write json response", zap.Error(err))
	}
}
