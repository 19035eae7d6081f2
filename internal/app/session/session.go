/*
Package session is the session provider: it authorizes credentials and social
identities, issues the signed session cookie, reports the current session status,
and signs users out.
*/
package session

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"rubiechat/internal/app/user"
	"rubiechat/internal/configs"
	"rubiechat/internal/pkg/auth/jwt"
	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/logx"
)

// Provider ids accepted by SignIn-style operations.
const (
	ProviderCredentials = "credentials"
	ProviderGitHub      = "github"
	ProviderGoogle      = "google"
)

// Status is the lifecycle state of a session as seen by a client.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// User is the identity exposed in a session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Session is the answer to "who is signed in".
type Session struct {
	Status  Status     `json:"status"`
	User    *User      `json:"user,omitempty"`
	Expires *time.Time `json:"expires,omitempty"`
}

// Authenticated reports whether the session carries a signed-in user.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// Authenticator resolves credentials and social identities to accounts.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (user.User, error)
	SignInWithProvider(ctx context.Context, params user.OAuthParams) (user.User, error)
}

// Config configures a Provider.
type Config struct {
	Secret        string
	SecureCookies bool
	BaseURL       string
	GitHub        configs.OAuthClient
	Google        configs.OAuthClient
	TTL           time.Duration
}

// Provider is the session provider.
type Provider struct {
	auth   Authenticator
	secret string
	secure bool
	ttl    time.Duration
	oauth  map[string]*oauthProvider
	logger zerolog.Logger
}

// NewProvider returns a Provider with the social providers enabled in cfg.
func NewProvider(cfg Config, auth Authenticator) *Provider {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = jwt.SessionExpiration
	}

	p := &Provider{
		auth:   auth,
		secret: cfg.Secret,
		secure: cfg.SecureCookies,
		ttl:    ttl,
		oauth:  make(map[string]*oauthProvider),
		logger: logx.Component("SessionProvider"),
	}

	if cfg.GitHub.Enabled() {
		p.RegisterOAuth(ProviderGitHub, githubConfig(cfg.BaseURL, cfg.GitHub), fetchGitHubProfile)
	}
	if cfg.Google.Enabled() {
		p.RegisterOAuth(ProviderGoogle, googleConfig(cfg.BaseURL, cfg.Google), fetchGoogleProfile)
	}

	return p
}

// RegisterOAuth enables a social provider under name.
func (p *Provider) RegisterOAuth(name string, cfg *oauth2.Config, fetch ProfileFetcher) {
	p.oauth[name] = &oauthProvider{name: name, config: cfg, fetch: fetch}
}

// HasProvider reports whether name can be used to sign in.
func (p *Provider) HasProvider(name string) bool {
	if name == ProviderCredentials {
		return true
	}
	_, ok := p.oauth[name]
	return ok
}

// Providers lists the enabled social providers: GitHub and Google first, then any
// others by name.
func (p *Provider) Providers() []string {
	var builtin, others []string
	for name := range p.oauth {
		switch name {
		case ProviderGitHub, ProviderGoogle:
			builtin = append(builtin, name)
		default:
			others = append(others, name)
		}
	}
	slices.Sort(builtin)
	slices.Sort(others)
	return append(builtin, others...)
}

// Credentials authorizes an email/password pair.
func (p *Provider) Credentials(ctx context.Context, email, password string) (user.User, error) {
	return p.auth.Authenticate(ctx, email, password)
}

// Issue signs a session for u and sets the session cookie. It returns the token so
// API clients can use it as a bearer token.
func (p *Provider) Issue(w http.ResponseWriter, u user.User, provider string) (string, error) {
	payload := &jwt.Payload{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Image:    u.Image,
		Provider: provider,
	}

	token, err := jwt.GenerateToken(payload, p.secret, p.ttl)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     jwt.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(p.ttl.Seconds()),
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})

	p.logger.Info().Str("user_id", u.ID).Str("provider", provider).Msg("Session issued.")
	return token, nil
}

// Current reports the session of r. It relies on jwt.IdentityExtractorMiddleware
// having run; a server-side read is never in the loading state.
func (p *Provider) Current(r *http.Request) Session {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		return Session{Status: StatusUnauthenticated}
	}

	expires := time.Unix(payload.ExpiresAt, 0).UTC()
	return Session{
		Status: StatusAuthenticated,
		User: &User{
			ID:    payload.ID,
			Name:  payload.Name,
			Email: payload.Email,
			Image: payload.Image,
		},
		Expires: &expires,
	}
}

// SignOut clears the session cookie.
func (p *Provider) SignOut(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (p *Provider) oauthProvider(name string) (*oauthProvider, error) {
	op, ok := p.oauth[name]
	if !ok {
		return nil, errs.NewError(errs.ErrUnknownProvider, name)
	}
	return op, nil
}
