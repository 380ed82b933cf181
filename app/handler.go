package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sushihentaime/inkpot/internal/blogservice"
	"github.com/sushihentaime/inkpot/internal/common"
	"github.com/sushihentaime/inkpot/internal/mailservice"
	"github.com/sushihentaime/inkpot/internal/userservice"
)

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.blogService.GetPosts(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	env := envelope{"posts": posts}

	user := app.getUserContext(r)
	if !user.IsAnonymous() {
		env["user"] = user
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) aboutHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"page": "about"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) showPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	env := envelope{"post": post}

	if flash := app.popFlash(w, r); flash != "" {
		env["flash"] = flash
	}

	user := app.getUserContext(r)
	if !user.IsAnonymous() {
		env["user"] = user
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user := app.getUserContext(r)

	_, err = app.blogService.AddComment(r.Context(), id, user.ID, r.PostFormValue("comment_text"))
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrUserForeignKey):
			app.forbiddenErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

func (app *application) newPostFormHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"page": "new-post"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	req := &blogservice.CreatePostRequest{
		Title:    r.PostFormValue("title"),
		Subtitle: r.PostFormValue("subtitle"),
		ImageURL: r.PostFormValue("img_url"),
		Body:     r.PostFormValue("body"),
		AuthorID: user.ID,
	}

	_, err := app.blogService.CreatePost(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrDuplicateTitle):
			app.failedValidationErrorResponse(w, r, map[string]string{"title": "a post with this title already exists"})
		case errors.Is(err, blogservice.ErrUserForeignKey):
			app.forbiddenErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) editPostFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"page": "edit-post", "post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	req := &blogservice.UpdatePostRequest{
		ID:       id,
		Title:    r.PostFormValue("title"),
		Subtitle: r.PostFormValue("subtitle"),
		ImageURL: r.PostFormValue("img_url"),
		Body:     r.PostFormValue("body"),
	}

	err = app.blogService.UpdatePost(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.Is(err, blogservice.ErrDuplicateTitle):
			app.failedValidationErrorResponse(w, r, map[string]string{"title": "a post with this title already exists"})
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.blogService.DeletePost(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, blogservice.ErrRecordNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) contactPageHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"page": "contact", "msg_sent": false}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// contactMessageHandler queues the message on the broker and answers
// immediately. Delivery to the site owner happens in the mail consumer; a
// failed send never reaches this request.
func (app *application) contactMessageHandler(w http.ResponseWriter, r *http.Request) {
	msg := mailservice.ContactMessage{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Message: r.PostFormValue("message"),
	}

	v := common.NewValidator()
	v.Check(msg.Name != "", "name", "must be provided")
	v.Check(msg.Email != "", "email", "must be provided")
	v.Check(msg.Message != "", "message", "must be provided")
	if !v.Valid() {
		app.failedValidationErrorResponse(w, r, v.Errors)
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.broker.Publish(r.Context(), payload, common.ContactMessageKey, common.ContactExchange)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"page": "contact", "msg_sent": true}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) registerPageHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"page": "register"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	_, session, err := app.userService.RegisterUser(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"), r.PostFormValue("name"))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			// soft conflict, not an error status
			app.setFlash(w, "You've already signed up with that email, log in instead.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.setSessionCookie(w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{"page": "login"}

	if flash := app.popFlash(w, r); flash != "" {
		env["flash"] = flash
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	_, session, err := app.userService.LoginUser(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.setFlash(w, "That email does not exist, please try again.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.Is(err, userservice.ErrAuthenticationFailure):
			app.setFlash(w, "Password incorrect, please try again.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.As(err, &common.ValidationError{}):
			validationErr := err.(common.ValidationError)
			app.failedValidationErrorResponse(w, r, validationErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.setSessionCookie(w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		if token, ok := app.verifySessionCookie(cookie.Value); ok {
			app.userService.LogoutUser(token)
		}
	}

	app.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
