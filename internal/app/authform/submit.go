package authform

import (
	"context"

	"rubiechat/internal/app/user"
	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/logx"
)

// Provider ids understood by SessionProvider.SignIn.
const (
	ProviderCredentials = "credentials"
	ProviderGitHub      = "github"
	ProviderGoogle      = "google"
)

// HomePath is where a signed-in visitor is sent.
const HomePath = "/users"

// Toast messages for submission outcomes.
const (
	MessageRegistered         = "Registered successfully!"
	MessageLoggedIn           = "Logged in!"
	MessageInvalidCredentials = "Invalid credentials!"
	MessageSomethingWrong     = "Something went wrong!"
)

// Registrar creates an account from the registration values.
type Registrar interface {
	Register(ctx context.Context, values Values) error
}

// SignInResult is what the session provider reports for a sign-in attempt.
// Error is non-empty when the attempt was refused. URL is set when the visitor must be
// sent elsewhere to finish, as with social providers.
type SignInResult struct {
	OK    bool
	Error string
	URL   string
}

// SessionProvider starts sessions. A returned error means the provider could not be
// reached at all; a refused attempt is reported through SignInResult.Error.
type SessionProvider interface {
	SignIn(ctx context.Context, provider string, values Values) (SignInResult, error)
}

// Validate checks registration values. LOGIN values are never validated here.
// The password match is checked before complexity.
func Validate(variant Variant, values Values) *errs.CustomError {
	if variant != VariantRegister {
		return nil
	}

	if values.Password != values.ConfirmPassword {
		return errs.NewError(errs.ErrPasswordsMismatch)
	}

	if !user.IsStrongPassword(values.Password) {
		return errs.NewError(errs.ErrPasswordTooWeak)
	}

	return nil
}

// Submit handles a press of the submit button. Loading is true while it runs and
// false when it returns.
func (f *Form) Submit(ctx context.Context, values Values) {
	f.Values = values
	f.Loading = true
	defer func() { f.Loading = false }()

	if f.Variant == VariantRegister {
		f.register(ctx)
		return
	}

	f.signIn(ctx, ProviderCredentials, values)
}

// SocialAction signs in with a social provider.
func (f *Form) SocialAction(ctx context.Context, provider string) {
	f.Loading = true
	defer func() { f.Loading = false }()

	if provider != ProviderGitHub && provider != ProviderGoogle {
		f.error(errs.NewError(errs.ErrUnknownProvider, provider).Message)
		return
	}

	f.signIn(ctx, provider, Values{})
}

func (f *Form) register(ctx context.Context) {
	if customErr := Validate(f.Variant, f.Values); customErr != nil {
		f.error(customErr.Message)
		return
	}

	if err := f.registrar.Register(ctx, f.Values); err != nil {
		logx.FromContext(ctx).Warn().Err(err).Msg("Registration failed.")
		f.error(MessageSomethingWrong)
		return
	}

	f.success(MessageRegistered)
	f.Variant = VariantLogin
}

func (f *Form) signIn(ctx context.Context, provider string, values Values) {
	result, err := f.sessions.SignIn(ctx, provider, values)
	if err != nil {
		logx.FromContext(ctx).Error().Err(err).Str("provider", provider).Msg("Sign-in request failed.")
		f.error(MessageSomethingWrong)
		return
	}

	if result.Error != "" {
		f.error(MessageInvalidCredentials)
		return
	}

	if result.URL != "" {
		f.RedirectTo = result.URL
		return
	}

	if result.OK {
		f.success(MessageLoggedIn)
		f.RedirectTo = HomePath
	}
}
