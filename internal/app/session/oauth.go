package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"rubiechat/internal/app/user"
	"rubiechat/internal/configs"
	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/randx"
)

const (
	// StateCookieName holds the OAuth state between the redirect and the callback.
	StateCookieName = "rubie_oauth_state"

	stateTTL = 10 * time.Minute

	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
	googleUserURL   = "https://openidconnect.googleapis.com/v1/userinfo"
)

// ProfileFetcher reads the signed-in identity using an authorized client.
type ProfileFetcher func(ctx context.Context, client *http.Client) (user.OAuthParams, error)

type oauthProvider struct {
	name   string
	config *oauth2.Config
	fetch  ProfileFetcher
}

// CallbackPath is where a provider redirects back to.
func CallbackPath(provider string) string {
	return "/auth/callback/" + provider
}

func githubConfig(baseURL string, c configs.OAuthClient) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoints.GitHub,
		RedirectURL:  baseURL + CallbackPath(ProviderGitHub),
		Scopes:       []string{"read:user", "user:email"},
	}
}

func googleConfig(baseURL string, c configs.OAuthClient) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoints.Google,
		RedirectURL:  baseURL + CallbackPath(ProviderGoogle),
		Scopes:       []string{"openid", "email", "profile"},
	}
}

// BeginOAuth stores a fresh state in a cookie and returns the provider's authorization URL.
func (p *Provider) BeginOAuth(w http.ResponseWriter, provider string) (string, error) {
	op, err := p.oauthProvider(provider)
	if err != nil {
		return "", err
	}

	state, err := randx.OAuthState()
	if err != nil {
		return "", errs.NewError(errs.ErrUnknown, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/auth/callback/",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return op.config.AuthCodeURL(state), nil
}

// CompleteOAuth validates the callback request, exchanges the code and resolves the
// identity to an account. The state cookie is cleared whatever the outcome.
func (p *Provider) CompleteOAuth(w http.ResponseWriter, r *http.Request, provider string) (user.User, error) {
	op, err := p.oauthProvider(provider)
	if err != nil {
		return user.User{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/auth/callback/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})

	query := r.URL.Query()
	if providerErr := query.Get("error"); providerErr != "" {
		p.logger.Warn().Str("provider", provider).Str("error", providerErr).Msg("Provider denied sign-in.")
		return user.User{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	cookie, err := r.Cookie(StateCookieName)
	state := query.Get("state")
	if err != nil || !randx.IsValidState(state) || cookie.Value != state {
		return user.User{}, errs.NewError(errs.ErrOAuthStateInvalid)
	}

	code := query.Get("code")
	if code == "" {
		return user.User{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	token, err := op.config.Exchange(ctx, code)
	if err != nil {
		p.logger.Warn().Err(err).Str("provider", provider).Msg("OAuth code exchange failed.")
		return user.User{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	profile, err := op.fetch(ctx, op.config.Client(ctx, token))
	if err != nil {
		p.logger.Warn().Err(err).Str("provider", provider).Msg("OAuth profile fetch failed.")
		return user.User{}, errs.NewError(errs.ErrInvalidCredentials)
	}
	profile.Provider = provider

	return p.auth.SignInWithProvider(ctx, profile)
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(dst)
}

func fetchGitHubProfile(ctx context.Context, client *http.Client) (user.OAuthParams, error) {
	return githubProfile(ctx, client, githubUserURL, githubEmailsURL)
}

func githubProfile(ctx context.Context, client *http.Client, userURL, emailsURL string) (user.OAuthParams, error) {
	var profile struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, userURL, &profile); err != nil {
		return user.OAuthParams{}, err
	}

	email := profile.Email
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, emailsURL, &emails); err != nil {
			return user.OAuthParams{}, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return user.OAuthParams{}, errors.New("github account has no verified primary email")
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	return user.OAuthParams{
		ProviderAccountID: strconv.FormatInt(profile.ID, 10),
		Name:              name,
		Email:             email,
		Image:             profile.AvatarURL,
	}, nil
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (user.OAuthParams, error) {
	return googleProfile(ctx, client, googleUserURL)
}

func googleProfile(ctx context.Context, client *http.Client, userURL string) (user.OAuthParams, error) {
	var profile struct {
		Sub           string `json:"sub"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(ctx, client, userURL, &profile); err != nil {
		return user.OAuthParams{}, err
	}
	if profile.Email == "" || !profile.EmailVerified {
		return user.OAuthParams{}, errors.New("google account email is not verified")
	}

	return user.OAuthParams{
		ProviderAccountID: profile.Sub,
		Name:              profile.Name,
		Email:             profile.Email,
		Image:             profile.Picture,
	}, nil
}
