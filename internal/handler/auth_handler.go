/*
Package handler provides HTTP handler functions for registration and sessions.
*/
package handler

import (
	"net/http"

	"rubiechat/internal/app/session"
	"rubiechat/internal/app/user"
	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/logx"
	"rubiechat/internal/pkg/req"
	"rubiechat/internal/pkg/resp"
)

// HandleRegister creates a credentials account.
// 400 for missing fields or a weak password, 409 for a taken email.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Sessions.Current(r).Authenticated() {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input user.RegisterInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		created, err := deps.Users.Register(r.Context(), input)
		if err != nil {
			resp.RespondError(w, r, errs.As(err))
			return
		}

		resp.RespondStatus(w, r, http.StatusCreated, created)
	}
}

// CredentialsInput is the body of a credentials sign-in.
type CredentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleCredentialsSignIn verifies an email/password pair, sets the session cookie and
// returns the session together with its token for non-browser clients.
func HandleCredentialsSignIn(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CredentialsInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		u, err := deps.Sessions.Credentials(r.Context(), input.Email, input.Password)
		if err != nil {
			resp.RespondError(w, r, errs.As(err))
			return
		}

		token, err := deps.Sessions.Issue(w, u, session.ProviderCredentials)
		if err != nil {
			logx.FromContext(r.Context()).Error().Err(err).Msg("Session issue failed.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user": session.User{
				ID:    u.ID,
				Name:  u.Name,
				Email: u.Email,
				Image: u.Image,
			},
		})
	}
}

// HandleGetSession reports the current session. Anonymous callers get
// {"status":"unauthenticated"}.
func HandleGetSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Sessions.Current(r))
	}
}

// HandleGetProviders lists the sign-in providers the form can offer.
func HandleGetProviders(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providers := append([]string{session.ProviderCredentials}, deps.Sessions.Providers()...)
		resp.RespondSuccess(w, r, map[string]any{"providers": providers})
	}
}

// HandleAPISignOut clears the session cookie.
func HandleAPISignOut(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Sessions.SignOut(w)
		resp.RespondSuccess(w, r, nil)
	}
}
