package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	// public pages
	router.HandlerFunc(http.MethodGet, "/", app.listPostsHandler)
	router.HandlerFunc(http.MethodGet, "/about", app.aboutHandler)
	router.HandlerFunc(http.MethodGet, "/contact", app.contactPageHandler)
	router.HandlerFunc(http.MethodPost, "/contact", app.contactMessageHandler)
	router.HandlerFunc(http.MethodGet, "/post/:id", app.showPostHandler)
	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthCheckHandler)

	// account
	router.HandlerFunc(http.MethodGet, "/register", app.registerPageHandler)
	router.HandlerFunc(http.MethodPost, "/register", app.registerUserHandler)
	router.HandlerFunc(http.MethodGet, "/login", app.loginPageHandler)
	router.HandlerFunc(http.MethodPost, "/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodGet, "/logout", app.logoutUserHandler)

	// commenting requires a logged-in user
	router.HandlerFunc(http.MethodPost, "/post/:id", app.requireAuthUser(app.addCommentHandler))

	// authoring is admin only
	router.HandlerFunc(http.MethodGet, "/new-post", app.requireAdmin(app.newPostFormHandler))
	router.HandlerFunc(http.MethodPost, "/new-post", app.requireAdmin(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/edit-post/:id", app.requireAdmin(app.editPostFormHandler))
	router.HandlerFunc(http.MethodPost, "/edit-post/:id", app.requireAdmin(app.updatePostHandler))
	router.HandlerFunc(http.MethodPost, "/delete/:id", app.requireAdmin(app.deletePostHandler))

	return app.recoverPanic(app.logRequest(app.authenticate(router)))
}
