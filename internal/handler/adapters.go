package handler

import (
	"context"
	"errors"
	"net/http"

	"rubiechat/internal/app/authform"
	"rubiechat/internal/app/user"
	"rubiechat/internal/pkg/errs"
)

// userRegistrar lets the credential form register through the user service.
type userRegistrar struct {
	users UserService
}

func (u userRegistrar) Register(ctx context.Context, values authform.Values) error {
	_, err := u.users.Register(ctx, user.RegisterInput{
		Name:     values.Name,
		Email:    values.Email,
		Password: values.Password,
	})
	return err
}

// requestSignIn is the session provider as seen by the credential form for one request.
// A successful sign-in sets the session cookie on w.
type requestSignIn struct {
	sessions SessionService
	w        http.ResponseWriter
}

func (s requestSignIn) SignIn(ctx context.Context, provider string, values authform.Values) (authform.SignInResult, error) {
	if provider == authform.ProviderCredentials {
		u, err := s.sessions.Credentials(ctx, values.Email, values.Password)
		if err != nil {
			if errors.Is(err, errs.NewError(errs.ErrInvalidCredentials)) {
				return authform.SignInResult{Error: "CredentialsSignin"}, nil
			}
			return authform.SignInResult{}, err
		}

		if _, err := s.sessions.Issue(s.w, u, provider); err != nil {
			return authform.SignInResult{}, err
		}
		return authform.SignInResult{OK: true}, nil
	}

	url, err := s.sessions.BeginOAuth(s.w, provider)
	if err != nil {
		if errors.Is(err, errs.NewError(errs.ErrUnknownProvider)) {
			return authform.SignInResult{Error: "OAuthSignin"}, nil
		}
		return authform.SignInResult{}, err
	}
	return authform.SignInResult{OK: true, URL: url}, nil
}
