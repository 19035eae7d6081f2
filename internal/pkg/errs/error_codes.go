/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both inside the server
and in responses sent to browsers and API clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Account and Credential Errors
const (
	// ErrMissingFields indicates that a required credential field was left empty.
	ErrMissingFields = 2001

	// ErrPasswordsMismatch indicates that password and confirmation differ on registration.
	ErrPasswordsMismatch = 2002

	// ErrPasswordTooWeak indicates that the password fails the complexity rule.
	ErrPasswordTooWeak = 2003

	// ErrEmailTaken indicates that an account with the email already exists.
	ErrEmailTaken = 2004

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	ErrInvalidCredentials = 2005

	// ErrAlreadyLoggedIn indicates that a signed-in user attempted to sign in or register again.
	ErrAlreadyLoggedIn = 2006

	// ErrUnknownProvider indicates a sign-in provider that is not configured.
	ErrUnknownProvider = 2007

	// ErrOAuthStateInvalid indicates that the OAuth callback state did not match the issued one.
	ErrOAuthStateInvalid = 2008

	// ErrUserNotFound indicates the account referenced by the session no longer exists.
	ErrUserNotFound = 2009

	// ErrAccountNotLinked indicates a social sign-in whose email belongs to an unverified account.
	ErrAccountNotLinked = 2010
)

// 3xxx: Session and Security Errors
const (
	// ErrUnauthorized indicates the request requires a valid session.
	ErrUnauthorized = 3001

	// ErrSignatureInvalid indicates a webhook whose signature did not verify.
	ErrSignatureInvalid = 3002

	// ErrWebhookExpired indicates a webhook batch outside the accepted time window.
	ErrWebhookExpired = 3003

	// ErrCrossOriginRequest indicates a state-changing form post sent from another site.
	ErrCrossOriginRequest = 3004
)

// 4xxx: Profile and File Errors
const (
	// ErrFileTypeInvalid indicates an avatar upload with a disallowed MIME type or extension.
	ErrFileTypeInvalid = 4001

	// ErrFileSizeTooLarge indicates an avatar upload above the size limit.
	ErrFileSizeTooLarge = 4002

	// ErrFileStorageFailed indicates that the object storage rejected or failed the operation.
	ErrFileStorageFailed = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
