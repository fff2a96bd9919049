package server

import (
	"net/http"

	"go.uber.org/zap"
)

const (
	flashCookie = "booking_flash"
	flashMaxAge = 5 * 60
)

// setFlash stores a one-time message for the next page view.
func (s *Server) setFlash(w http.ResponseWriter, msg string) {
	encoded, err := s.flash.Encode(flashCookie, msg)
	if err != nil {
		s.log.Error("encode flash", zap.Error(err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    encoded,
		Path:     "/booking",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending message, if any, and clears it.
func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Path:     "/booking",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	var msg string
	if err := s.flash.Decode(flashCookie, c.Value, &msg); err != nil {
		s.log.Debug("discard flash", zap.Error(err))
		return ""
	}
	return msg
}
