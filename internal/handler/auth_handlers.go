package handler

import (
	"net/http"
	"time"

	"launchtracker/internal/domain"
	"launchtracker/internal/service"
	"launchtracker/internal/validate"

	"go.uber.org/zap"
)

// setSessionCookie mirrors the token into an HTTP-only cookie so the SPA can
// stay signed in without storing the token itself.
func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func registerHandler(authSvc *service.AuthService, tokenTTL time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.RegisterInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := authSvc.Register(r.Context(), in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		setSessionCookie(w, resp.Token, tokenTTL)
		writeData(w, http.StatusCreated, resp)
	}
}

func loginHandler(authSvc *service.AuthService, tokenTTL time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.LoginInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := authSvc.Login(r.Context(), in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		setSessionCookie(w, resp.Token, tokenTTL)
		writeData(w, http.StatusOK, resp)
	}
}

func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		writeMessage(w, http.StatusOK, "Logged out")
	}
}

func meHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		me, err := authSvc.Me(r.Context(), user.ID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, me)
	}
}
