package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rubiechat/internal/app/authform"
	"rubiechat/internal/app/chat"
	"rubiechat/internal/app/presence"
	"rubiechat/internal/app/session"
	"rubiechat/internal/app/storage"
	"rubiechat/internal/app/user"
	"rubiechat/internal/configs"
	"rubiechat/internal/pkg/auth/jwt"
	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/web"
)

const (
	testJWTSecret      = "handler-test-secret"
	testPresenceSecret = "presence-test-secret"
	testChannel        = "presence-messenger"
	testAssetBase      = "https://assets.example.com"
)

// fakeUsers is an in-memory account store serving both the handlers and the
// session provider.
type fakeUsers struct {
	mu          sync.Mutex
	byID        map[string]user.User
	passwords   map[string]string
	registerErr error
	nextID      int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[string]user.User), passwords: make(map[string]string)}
}

func (f *fakeUsers) add(name, email, password string) user.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	u := user.User{ID: fmt.Sprintf("user-%d", f.nextID), Name: name, Email: email, CreatedAt: time.Now()}
	f.byID[u.ID] = u
	f.passwords[email] = password
	return u
}

func (f *fakeUsers) byEmail(email string) (user.User, bool) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, true
		}
	}
	return user.User{}, false
}

func (f *fakeUsers) Register(ctx context.Context, input user.RegisterInput) (user.User, error) {
	if f.registerErr != nil {
		return user.User{}, f.registerErr
	}
	f.mu.Lock()
	_, taken := f.byEmail(input.Email)
	f.mu.Unlock()
	if taken {
		return user.User{}, errs.NewError(errs.ErrEmailTaken)
	}
	return f.add(input.Name, input.Email, input.Password), nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byEmail(email)
	if !ok || f.passwords[email] != password {
		return user.User{}, errs.NewError(errs.ErrInvalidCredentials)
	}
	return u, nil
}

func (f *fakeUsers) SignInWithProvider(ctx context.Context, params user.OAuthParams) (user.User, error) {
	return user.User{}, errs.NewError(errs.ErrInvalidCredentials)
}

func (f *fakeUsers) Get(ctx context.Context, id string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return user.User{}, errs.NewError(errs.ErrUserNotFound)
	}
	return u, nil
}

func (f *fakeUsers) ListOthers(ctx context.Context, viewerEmail string) ([]user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var others []user.User
	for _, u := range f.byID {
		if u.Email != viewerEmail {
			others = append(others, u)
		}
	}
	return others, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, params user.ProfileParams) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[params.ID]
	if !ok {
		return user.User{}, errs.NewError(errs.ErrUserNotFound)
	}
	if params.Name != "" {
		u.Name = params.Name
	}
	if params.Image != "" {
		u.Image = params.Image
	}
	f.byID[u.ID] = u
	return u, nil
}

type fakeConversations struct {
	summaries []chat.ConversationSummary
	err       error
}

func (f fakeConversations) List(ctx context.Context, viewerID, viewerEmail string) ([]chat.ConversationSummary, error) {
	return f.summaries, f.err
}

// fakeStorage keeps object metadata in memory and reports deletions on a channel.
type fakeStorage struct {
	objects map[string]storage.ObjectInfo
	deleted chan string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]storage.ObjectInfo), deleted: make(chan string, 4)}
}

func (f *fakeStorage) PresignUpload(ctx context.Context, key string, mimeType string, fileSize int64, duration time.Duration) (string, error) {
	return "https://s3.example.com/" + key + "?X-Amz-Signature=sig", nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.deleted <- key
	return nil
}

func (f *fakeStorage) Stat(ctx context.Context, key string) (storage.ObjectInfo, error) {
	info, ok := f.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return info, nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return testAssetBase + "/" + key
}

func (f *fakeStorage) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, testAssetBase+"/") {
		return "", false
	}
	return strings.TrimPrefix(rawURL, testAssetBase+"/"), true
}

type testApp struct {
	handler  http.Handler
	deps     *AppDeps
	users    *fakeUsers
	sessions *session.Provider
	presence *presence.ActiveList
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &configs.AppConfig{
		Environment:     configs.EnvDevelopment,
		BaseURL:         "http://example.com",
		JWTSecret:       testJWTSecret,
		PresenceSecret:  testPresenceSecret,
		PresenceChannel: testChannel,
	}

	pages, err := web.NewRenderer()
	require.NoError(t, err)

	users := newFakeUsers()
	sessions := session.NewProvider(session.Config{Secret: cfg.JWTSecret}, users)
	active := presence.NewActiveList()

	deps := &AppDeps{
		Config:        cfg,
		Users:         users,
		Sessions:      sessions,
		Conversations: fakeConversations{},
		Presence:      active,
		Pages:         pages,
	}

	h, stop := Router(deps)
	t.Cleanup(stop)

	return &testApp{handler: h, deps: deps, users: users, sessions: sessions, presence: active}
}

func (a *testApp) do(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, r)
	return rec
}

// sessionCookie signs u in and returns the session cookie a browser would hold.
func (a *testApp) sessionCookie(t *testing.T, u user.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := a.sessions.Issue(rec, u, session.ProviderCredentials)
	require.NoError(t, err)
	return findCookie(rec, jwt.SessionCookieName)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// flashOf decodes the toasts a response left in the flash cookie.
func flashOf(t *testing.T, rec *httptest.ResponseRecorder) []authform.Toast {
	t.Helper()
	cookie := findCookie(rec, web.FlashCookieName)
	require.NotNil(t, cookie, "flash cookie not set")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	return web.PopFlash(httptest.NewRecorder(), r)
}

func formRequest(target string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}
