package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/metinatakli/cinex-booking/api"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requireAuthentication accepts an HS256 bearer token whose subject is the
// numeric user id and stores that id in the request context.
func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		header := r.Header.Get("Authorization")
		if header == "" {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		userId, err := ParseAccessToken(app.config.Auth.JWTSecret, raw)
		if err != nil {
			app.contextGetLogger(r).Debug("rejected bearer token", "error", err)
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		next.ServeHTTP(w, app.contextSetUserId(r, userId))
	})
}

// authenticateSecuredOperations applies requireAuthentication to the
// operations declared with bearer security.
func (app *Application) authenticateSecuredOperations(next http.Handler) http.Handler {
	authenticated := app.requireAuthentication(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(api.BearerAuthScopes).([]string); ok {
			authenticated.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
