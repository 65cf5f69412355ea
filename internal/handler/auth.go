package handler

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
)

const teacherRealm = "studybuddy teacher"

// requireTeacher checks HTTP basic auth against the configured bcrypt
// hash. Any username is accepted. With no hash configured the check is
// disabled.
func (h *Handler) requireTeacher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.config.TeacherPasswordHash == "" {
			next.ServeHTTP(w, r)
			return
		}

		_, password, ok := r.BasicAuth()
		if !ok {
			h.unauthorized(w, r)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h.config.TeacherPasswordHash), []byte(password)); err != nil {
			slog.Warn("teacher authentication failed", "remote", r.RemoteAddr)
			h.unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+teacherRealm+`", charset="UTF-8"`)
	writeMessage(w, http.StatusUnauthorized, appI18n.T(r.Context(), "ErrUnauthorized"))
}
