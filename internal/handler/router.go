/*
Package handler provides the HTTP handlers and routing setup for the Rubie's Chat server.

This file defines the main Router, applying the shared middleware (CORS, request IDs,
proxy header trust, logging, recovery and session extraction) and the per-route rate
limits, then mounting the server-rendered pages behind a cross-origin check and the
JSON API.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"rubiechat/internal/pkg/auth/jwt"
	"rubiechat/internal/pkg/limiter"
	"rubiechat/internal/pkg/logx"
	"rubiechat/internal/pkg/resp"
	"rubiechat/internal/web"
)

const (
	SignInRate    = 0.2
	SignInBurst   = 5
	RegisterRate  = 0.05
	RegisterBurst = 3
)

// Router builds the routing table. The returned function stops the background work of
// the rate limiters and must be called on shutdown.
func Router(deps *AppDeps) (http.Handler, func()) {
	signInLimiter := limiter.NewIPRateLimiter("sign_in", rate.Limit(SignInRate), SignInBurst)
	registerLimiter := limiter.NewIPRateLimiter("register", rate.Limit(RegisterRate), RegisterBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(limiter.TrustedForwarding(deps.Config.TrustedProxies))
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	r.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":        "ok",
			"service":       "Rubie's Chat Server",
			"activeMembers": deps.Presence.Len(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Handle("/images/*", web.StaticHandler())

	// Form posts change the session, so a page on another site must not be able to send them.
	crossOrigin := http.NewCrossOriginProtection()
	crossOrigin.SetDenyHandler(http.HandlerFunc(HandleCrossOriginRejected))
	if err := crossOrigin.AddTrustedOrigin(deps.Config.BaseURL); err != nil {
		logx.Warn("BASE_URL is not a valid origin; only same-host form posts are accepted.", "base_url", deps.Config.BaseURL, "error", err)
	}

	r.Group(func(pages chi.Router) {
		pages.Use(crossOrigin.Handler)

		pages.Get("/", HandleAuthPage(deps))
		pages.With(signInLimiter.MiddlewareWith(HandleAuthRateLimited(deps))).Post("/auth", HandleAuthSubmit(deps))
		pages.Post("/auth/social/{provider}", HandleSocialSignIn(deps))
		pages.Get("/auth/callback/{provider}", HandleOAuthCallback(deps))
		pages.Post("/auth/signout", HandleSignOut(deps))
		pages.Get("/users", HandleUsersPage(deps))
	})

	r.Route("/api", func(api chi.Router) {
		api.With(registerLimiter.Middleware).Post("/register", HandleRegister(deps))

		api.Route("/auth", func(auth chi.Router) {
			auth.With(signInLimiter.Middleware).Post("/callback/credentials", HandleCredentialsSignIn(deps))
			auth.Get("/session", HandleGetSession(deps))
			auth.Get("/providers", HandleGetProviders(deps))
			auth.Post("/signout", HandleAPISignOut(deps))
		})

		api.Get("/users", HandleListUsers(deps))
		api.Get("/conversations", HandleListConversations(deps))

		api.Route("/user", func(user chi.Router) {
			user.Get("/profile", HandleGetUserProfile(deps))
			user.Post("/avatar/presign", HandlePresignAvatarURL(deps))
			user.Post("/profile", HandleUpdateUserProfile(deps))
		})

		api.Post("/presence/webhook", HandlePresenceWebhook(deps))
	})

	stop := func() {
		signInLimiter.Stop()
		registerLimiter.Stop()
	}
	return r, stop
}
