package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sushihentaime/inkpot/internal/userservice"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
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

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			ip     = r.RemoteAddr
			method = r.Method
			proto  = r.Proto
			uri    = r.URL.RequestURI()
		)

		app.logger.Info("request from", slog.String("method", method), slog.String("uri", uri), slog.String("remote_addr", ip), slog.String("proto", proto))

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the session cookie to a user and stores it in the
// request context. A missing, tampered or expired cookie degrades to the
// anonymous user; the request itself always proceeds.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Cookie")

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			r = app.createUserContext(r, &userservice.AnonymousUser)
			next.ServeHTTP(w, r)
			return
		}

		token, ok := app.verifySessionCookie(cookie.Value)
		if !ok {
			app.clearSessionCookie(w)
			r = app.createUserContext(r, &userservice.AnonymousUser)
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.userService.GetUserBySessionToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, userservice.ErrNotFound) {
				app.clearSessionCookie(w)
				r = app.createUserContext(r, &userservice.AnonymousUser)
				next.ServeHTTP(w, r)
				return
			}
			app.serverErrorResponse(w, r, err)
			return
		}

		r = app.createUserContext(r, user)
		next.ServeHTTP(w, r)
	})
}

// requireAuthUser sends anonymous visitors to the login page with a notice
// instead of an error status.
func (app *application) requireAuthUser(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.getUserContext(r)
		if user.IsAnonymous() {
			app.setFlash(w, "You need to login or register to comment.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireAdmin re-checks the role on the freshly loaded user, so a demotion
// takes effect on the next request.
func (app *application) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.getUserContext(r)
		if user.IsAnonymous() || !user.IsAdmin() {
			app.forbiddenErrorResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
