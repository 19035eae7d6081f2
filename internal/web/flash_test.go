package web

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rubiechat/internal/app/authform"
)

func flashCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == FlashCookieName {
			return c
		}
	}
	return nil
}

func TestFlashRoundTrip(t *testing.T) {
	toasts := []authform.Toast{
		{Kind: authform.ToastSuccess, Message: "Logged in!"},
		{Kind: authform.ToastError, Message: "Something went wrong!"},
	}

	rec := httptest.NewRecorder()
	SetFlash(rec, true, toasts)
	cookie := flashCookie(t, rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(cookie)
	next := httptest.NewRecorder()

	assert.Equal(t, toasts, PopFlash(next, req))

	cleared := flashCookie(t, next)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestSetFlashEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, false, nil)
	assert.Nil(t, flashCookie(t, rec))
}

func TestSetFlashKeepsNewest(t *testing.T) {
	var toasts []authform.Toast
	for _, msg := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		toasts = append(toasts, authform.Toast{Kind: authform.ToastSuccess, Message: msg})
	}

	rec := httptest.NewRecorder()
	SetFlash(rec, false, toasts)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(flashCookie(t, rec))
	got := PopFlash(httptest.NewRecorder(), req)

	require.Len(t, got, maxFlashToasts)
	assert.Equal(t, "3", got[0].Message)
	assert.Equal(t, "7", got[4].Message)
}

func TestPopFlashRejectsTampering(t *testing.T) {
	encode := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		value string
		want  []authform.Toast
	}{
		{"not base64", "%%%", nil},
		{"not json", encode("hello"), nil},
		{"unknown kind dropped", encode(`[{"kind":"info","message":"x"},{"kind":"error","message":"bad"}]`),
			[]authform.Toast{{Kind: authform.ToastError, Message: "bad"}}},
		{"empty message dropped", encode(`[{"kind":"success","message":""}]`), []authform.Toast{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: tt.value})
			assert.Equal(t, tt.want, PopFlash(httptest.NewRecorder(), req))
		})
	}
}

func TestPopFlashWithoutCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Nil(t, PopFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Nil(t, flashCookie(t, rec))
}
