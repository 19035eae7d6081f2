package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status is reported as HTTP 200, with the failure carried in the business code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process submitted data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Account and Credential Errors
	ErrMissingFields:     {Code: ErrMissingFields, Message: "Please fill in all required fields.", Status: http.StatusBadRequest},
	ErrPasswordsMismatch: {Code: ErrPasswordsMismatch, Message: "Passwords do not match!", Status: http.StatusBadRequest},
	ErrPasswordTooWeak: {
		Code:    ErrPasswordTooWeak,
		Message: "Password must contain at least 8 characters, including at least one upper letter, one normal letter, one number, and one special character.",
		Status:  http.StatusBadRequest,
	},
	ErrEmailTaken:         {Code: ErrEmailTaken, Message: "An account with this email already exists.", Status: http.StatusConflict},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid credentials!", Status: http.StatusUnauthorized},
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrUnknownProvider:    {Code: ErrUnknownProvider, Message: "Sign-in provider %q is not available.", Status: http.StatusNotFound},
	ErrOAuthStateInvalid:  {Code: ErrOAuthStateInvalid, Message: "Sign-in expired. Please try again.", Status: http.StatusBadRequest},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrAccountNotLinked:   {Code: ErrAccountNotLinked, Message: "This email is already registered. Sign in with your password.", Status: http.StatusConflict},

	// 3xxx: Session and Security Errors
	ErrUnauthorized:     {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrSignatureInvalid: {Code: ErrSignatureInvalid, Message: "Invalid signature.", Status: http.StatusUnauthorized},
	ErrWebhookExpired:   {Code: ErrWebhookExpired, Message: "Webhook batch expired.", Status: http.StatusBadRequest},

	ErrCrossOriginRequest: {Code: ErrCrossOriginRequest, Message: "This request was blocked. Please reload the page and try again.", Status: http.StatusForbidden},

	// 4xxx: Profile and File Errors
	ErrFileTypeInvalid:   {Code: ErrFileTypeInvalid, Message: "Unsupported image type.", Status: http.StatusBadRequest},
	ErrFileSizeTooLarge:  {Code: ErrFileSizeTooLarge, Message: "Image must be at most %d MB.", Status: http.StatusBadRequest},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusBadGateway},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong!", Status: http.StatusInternalServerError},
}
