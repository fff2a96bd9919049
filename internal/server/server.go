package server

import (
	"crypto/sha256"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"event-booking/internal/booking"
	"event-booking/internal/catalog"
	"event-booking/internal/config"
	"event-booking/internal/database"
	"event-booking/internal/validation"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	db       database.Service
	bookings *booking.Service

	templates *template.Template
	flash     *securecookie.SecureCookie
	csrfKey   []byte
	limiter   *visitorLimiter

	loc   *time.Location
	clock func() time.Time
}

type Option func(*Server)

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) { s.clock = clock }
}

// NewServer wires the booking service and the web layer. db may be nil, in
// which case accepted bookings only go to the log.
func NewServer(cfg *config.Config, log *zap.Logger, db database.Service, opts ...Option) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		log:       log,
		db:        db,
		templates: tmpl,
		limiter:   newVisitorLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		loc:       loc,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	hashKey, blockKey := s.deriveKeys(cfg.SessionKey, "SESSION_KEY")
	s.flash = securecookie.New(hashKey, blockKey)
	s.csrfKey, _ = s.deriveKeys(cfg.CSRFKey, "CSRF_KEY")

	recorders := booking.Recorders{booking.NewLogRecorder(log, cat)}
	if db != nil {
		recorders = append(recorders, booking.RecorderFunc(db.RecordBooking))
	}

	s.bookings = booking.NewService(cat, validation.New(cat, s.now), recorders, log, s.now)

	return s, nil
}

func (s *Server) now() time.Time {
	return s.clock().In(s.loc)
}

// deriveKeys turns a configured secret into a 32-byte hash key and a 32-byte
// block key. An empty secret yields random keys that do not survive a
// restart.
func (s *Server) deriveKeys(secret, name string) (hashKey, blockKey []byte) {
	if secret == "" {
		s.log.Warn("no key configured, using a random one", zap.String("key", name))
		return securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32)
	}
	h := sha256.Sum256([]byte(secret))
	b := sha256.Sum256([]byte("block:" + secret))
	return h[:], b[:]
}

// HTTPServer returns the http.Server serving this app on cfg.Addr().
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  time.Minute,
		ErrorLog:     zap.NewStdLog(s.log),
	}
}

func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}
