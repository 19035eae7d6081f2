package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"rubiechat/internal/app/authform"
)

const (
	// FlashCookieName carries toasts to the page shown after a redirect.
	FlashCookieName = "rubie_flash"

	maxFlashToasts = 5
)

// SetFlash stores toasts for the next page view. Nothing is written for an empty list.
func SetFlash(w http.ResponseWriter, secure bool, toasts []authform.Toast) {
	if len(toasts) == 0 {
		return
	}
	if len(toasts) > maxFlashToasts {
		toasts = toasts[len(toasts)-maxFlashToasts:]
	}

	raw, err := json.Marshal(toasts)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the stored toasts and clears them. A malformed cookie yields nothing.
func PopFlash(w http.ResponseWriter, r *http.Request) []authform.Toast {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var toasts []authform.Toast
	if err := json.Unmarshal(raw, &toasts); err != nil {
		return nil
	}

	valid := toasts[:0]
	for _, t := range toasts {
		if t.Message == "" || (t.Kind != authform.ToastSuccess && t.Kind != authform.ToastError) {
			continue
		}
		valid = append(valid, t)
	}
	if len(valid) > maxFlashToasts {
		valid = valid[:maxFlashToasts]
	}
	return valid
}
