package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rubiechat/internal/app/authform"
	"rubiechat/internal/app/chat"
	"rubiechat/internal/app/user"
	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/logx"
	"rubiechat/internal/pkg/req"
	"rubiechat/internal/web"
)

// HandleAuthPage renders the credential form, or sends signed-in visitors to the
// users page. "?variant=register" opens the registration variant.
func HandleAuthPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Sessions.Current(r).Authenticated() {
			http.Redirect(w, r, authform.HomePath, http.StatusFound)
			return
		}

		form := authform.New(authform.ParseVariant(r.URL.Query().Get("variant")), nil, nil)
		renderAuthPage(deps, w, r, http.StatusOK, form, web.PopFlash(w, r))
	}
}

// HandleAuthSubmit processes a post of the credential form. Outcomes that leave the
// page redirect with their toasts in the flash cookie; failures re-render the form.
func HandleAuthSubmit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Sessions.Current(r).Authenticated() {
			http.Redirect(w, r, authform.HomePath, http.StatusSeeOther)
			return
		}

		if customErr := req.ParseForm(w, r); customErr != nil {
			form := authform.New(authform.VariantLogin, nil, nil)
			renderAuthPage(deps, w, r, http.StatusOK, form, []authform.Toast{{Kind: authform.ToastError, Message: customErr.Message}})
			return
		}

		variant := authform.ParseVariant(r.PostForm.Get("variant"))
		values := authform.Values{
			Name:            r.PostForm.Get("name"),
			Email:           r.PostForm.Get("email"),
			Password:        r.PostForm.Get("password"),
			ConfirmPassword: r.PostForm.Get("confirmPassword"),
		}

		form := authform.New(variant, userRegistrar{users: deps.Users}, requestSignIn{sessions: deps.Sessions, w: w})
		form.Submit(r.Context(), values)

		switch {
		case form.RedirectTo != "":
			web.SetFlash(w, deps.Config.SecureCookies, form.Toasts)
			http.Redirect(w, r, form.RedirectTo, http.StatusSeeOther)
		case variant == authform.VariantRegister && form.Variant == authform.VariantLogin:
			web.SetFlash(w, deps.Config.SecureCookies, form.Toasts)
			http.Redirect(w, r, "/", http.StatusSeeOther)
		default:
			renderAuthPage(deps, w, r, http.StatusOK, form, nil)
		}
	}
}

// HandleAuthRateLimited answers a throttled form post with the form itself, keeping the
// variant and the non-secret values, and an error toast.
func HandleAuthRateLimited(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customErr := errs.NewError(errs.ErrRateLimitExceeded)

		form := authform.New(authform.VariantLogin, nil, nil)
		if req.ParseForm(w, r) == nil {
			form = authform.New(authform.ParseVariant(r.PostForm.Get("variant")), nil, nil)
			form.Values.Name = r.PostForm.Get("name")
			form.Values.Email = r.PostForm.Get("email")
		}

		renderAuthPage(deps, w, r, customErr.Status, form, []authform.Toast{{Kind: authform.ToastError, Message: customErr.Message}})
	}
}

// HandleCrossOriginRejected answers page posts refused by the cross-origin check.
func HandleCrossOriginRejected(w http.ResponseWriter, r *http.Request) {
	customErr := errs.NewError(errs.ErrCrossOriginRequest)
	logx.FromContext(r.Context()).Warn().
		Str("origin", r.Header.Get("Origin")).
		Str("sec_fetch_site", r.Header.Get("Sec-Fetch-Site")).
		Msg("Cross-origin form post rejected.")
	http.Error(w, customErr.Message, customErr.Status)
}

// HandleSocialSignIn starts a social sign-in.
func HandleSocialSignIn(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Sessions.Current(r).Authenticated() {
			http.Redirect(w, r, authform.HomePath, http.StatusSeeOther)
			return
		}

		form := authform.New(authform.VariantLogin, nil, requestSignIn{sessions: deps.Sessions, w: w})
		form.SocialAction(r.Context(), chi.URLParam(r, "provider"))

		if form.RedirectTo != "" {
			web.SetFlash(w, deps.Config.SecureCookies, form.Toasts)
			http.Redirect(w, r, form.RedirectTo, http.StatusSeeOther)
			return
		}

		web.SetFlash(w, deps.Config.SecureCookies, form.Toasts)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// HandleOAuthCallback finishes a social sign-in started by HandleSocialSignIn.
func HandleOAuthCallback(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")

		u, err := deps.Sessions.CompleteOAuth(w, r, provider)
		if err != nil {
			customErr := errs.As(err)
			logx.FromContext(r.Context()).Warn().Str("provider", provider).Int("code", customErr.Code).Msg("Social sign-in failed.")

			message := authform.MessageInvalidCredentials
			if customErr.Code == errs.ErrUnknown {
				message = authform.MessageSomethingWrong
			}
			web.SetFlash(w, deps.Config.SecureCookies, []authform.Toast{{Kind: authform.ToastError, Message: message}})
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		if _, err := deps.Sessions.Issue(w, u, provider); err != nil {
			logx.FromContext(r.Context()).Error().Err(err).Msg("Failed to issue session after social sign-in.")
			web.SetFlash(w, deps.Config.SecureCookies, []authform.Toast{{Kind: authform.ToastError, Message: authform.MessageSomethingWrong}})
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		web.SetFlash(w, deps.Config.SecureCookies, []authform.Toast{{Kind: authform.ToastSuccess, Message: authform.MessageLoggedIn}})
		http.Redirect(w, r, authform.HomePath, http.StatusFound)
	}
}

// HandleSignOut clears the session and returns to the credential form.
func HandleSignOut(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Sessions.SignOut(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// HandleUsersPage lists the other users and the viewer's conversations, each with
// its avatar group.
func HandleUsersPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := deps.Sessions.Current(r)
		if !current.Authenticated() {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		viewer := *current.User

		others, err := deps.Users.ListOthers(r.Context(), viewer.Email)
		if err != nil {
			renderError(w, r, err)
			return
		}

		conversations, err := deps.Conversations.List(r.Context(), viewer.ID, viewer.Email)
		if err != nil {
			renderError(w, r, err)
			return
		}

		cards := make([]web.UserCard, 0, len(others))
		for _, u := range others {
			cards = append(cards, web.UserCard{
				User:    u,
				Avatars: chat.NewAvatarGroup([]user.User{u}, deps.Presence, viewer.Email),
			})
		}

		deps.Pages.Render(w, r, http.StatusOK, web.PageUsers, web.UsersPage{
			Viewer:        viewer,
			Users:         cards,
			Conversations: conversations,
			Toasts:        web.PopFlash(w, r),
		})
	}
}

func renderAuthPage(deps *AppDeps, w http.ResponseWriter, r *http.Request, status int, form *authform.Form, flash []authform.Toast) {
	toasts := append(flash, form.Toasts...)

	deps.Pages.Render(w, r, status, web.PageAuth, web.AuthPage{
		Form:      form,
		Providers: deps.Sessions.Providers(),
		Toasts:    toasts,
	})
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	customErr := errs.As(err)
	logx.FromContext(r.Context()).Error().Err(err).Msg("Page request failed.")
	http.Error(w, customErr.Message, customErr.Status)
}
