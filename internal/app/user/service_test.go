package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rubiechat/internal/pkg/errs"
)

type memStore struct {
	users    map[string]User
	accounts map[string]string // provider:accountID -> user id
	failWith error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]User{}, accounts: map[string]string{}}
}

func (m *memStore) CreateUser(_ context.Context, p CreateParams) (User, error) {
	if m.failWith != nil {
		return User{}, m.failWith
	}
	for _, u := range m.users {
		if u.Email == p.Email {
			return User{}, ErrDuplicateEmail
		}
	}
	u := User{ID: fmt.Sprintf("u%d", len(m.users)+1), Name: p.Name, Email: p.Email, HashedPassword: p.HashedPassword}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) GetUserByID(_ context.Context, id string) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	if m.failWith != nil {
		return User{}, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *memStore) ListUsersExcept(_ context.Context, email string) ([]User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []User
	for _, u := range m.users {
		if u.Email != email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) UpsertOAuthUser(_ context.Context, p OAuthParams) (User, error) {
	if m.failWith != nil {
		return User{}, m.failWith
	}
	key := p.Provider + ":" + p.ProviderAccountID
	if id, ok := m.accounts[key]; ok {
		return m.users[id], nil
	}
	for _, u := range m.users {
		if u.Email == p.Email {
			if !u.CanLinkProvider() {
				return User{}, ErrAccountNotLinked
			}
			m.accounts[key] = u.ID
			return u, nil
		}
	}
	verified := time.Now()
	u := User{ID: fmt.Sprintf("u%d", len(m.users)+1), Name: p.Name, Email: p.Email, Image: p.Image, EmailVerified: &verified}
	m.users[u.ID] = u
	m.accounts[key] = u.ID
	return u, nil
}

func (m *memStore) UpdateUserProfile(_ context.Context, p ProfileParams) (User, error) {
	u, ok := m.users[p.ID]
	if !ok {
		return User{}, ErrNotFound
	}
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Image != "" {
		u.Image = p.Image
	}
	m.users[u.ID] = u
	return u, nil
}

func codeOf(t *testing.T, err error) int {
	t.Helper()
	var customErr *errs.CustomError
	require.True(t, errors.As(err, &customErr), "expected *errs.CustomError, got %v", err)
	return customErr.Code
}

func TestRegister(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: "  Rubie ", Email: " Rubie@Example.COM ", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, "Rubie", u.Name)
	assert.Equal(t, "rubie@example.com", u.Email)
	assert.True(t, u.HasPassword())
	assert.NotEqual(t, "Passw0rd!", u.HashedPassword)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "RUBIE@example.com", Password: "Passw0rd!"})
	assert.Equal(t, errs.ErrEmailTaken, codeOf(t, err))
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "Passw0rd!"})
	assert.Equal(t, errs.ErrMissingFields, codeOf(t, err))

	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "password"})
	assert.Equal(t, errs.ErrPasswordTooWeak, codeOf(t, err))
}

func TestRegisterStoreFailure(t *testing.T) {
	store := newMemStore()
	store.failWith = errors.New("connection reset")
	svc := NewService(store)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.c", Password: "Passw0rd!"})
	assert.Equal(t, errs.ErrUnknown, codeOf(t, err))
}

func TestAuthenticate(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "Rubie", Email: "rubie@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "RUBIE@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	for _, tc := range []struct{ email, password string }{
		{"rubie@example.com", "Wrong0rd!"},
		{"nobody@example.com", "Passw0rd!"},
		{"", "Passw0rd!"},
		{"rubie@example.com", ""},
	} {
		_, err := svc.Authenticate(ctx, tc.email, tc.password)
		assert.Equal(t, errs.ErrInvalidCredentials, codeOf(t, err), tc)
	}
}

func TestAuthenticateSocialOnlyAccount(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	_, err := svc.SignInWithProvider(ctx, OAuthParams{Provider: "github", ProviderAccountID: "1", Email: "gh@example.com", Name: "GH"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "gh@example.com", "")
	assert.Equal(t, errs.ErrInvalidCredentials, codeOf(t, err))

	_, err = svc.Authenticate(ctx, "gh@example.com", "Passw0rd!")
	assert.Equal(t, errs.ErrInvalidCredentials, codeOf(t, err))
}

func TestSignInWithProvider(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	first, err := svc.SignInWithProvider(ctx, OAuthParams{Provider: "google", ProviderAccountID: "g-1", Email: "Rubie@Gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, "rubie@gmail.com", first.Email)
	assert.Equal(t, "rubie", first.Name, "name falls back to the email local part")

	again, err := svc.SignInWithProvider(ctx, OAuthParams{Provider: "google", ProviderAccountID: "g-1", Email: "rubie@gmail.com", Name: "Rubie"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = svc.SignInWithProvider(ctx, OAuthParams{Provider: "google", Email: "x@gmail.com"})
	assert.Equal(t, errs.ErrInvalidCredentials, codeOf(t, err))
}

func TestSignInWithProviderRefusesUnverifiedAccount(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	squatter, err := svc.Register(ctx, RegisterInput{Name: "Squatter", Email: "victim@gmail.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	require.Nil(t, squatter.EmailVerified)

	_, err = svc.SignInWithProvider(ctx, OAuthParams{Provider: "google", ProviderAccountID: "g-victim", Email: "Victim@Gmail.com"})
	assert.Equal(t, errs.ErrAccountNotLinked, codeOf(t, err))
	assert.Empty(t, store.accounts, "identity must not be attached to the unverified account")

	verifiedAt := time.Now()
	owner := store.users[squatter.ID]
	owner.EmailVerified = &verifiedAt
	store.users[owner.ID] = owner

	linked, err := svc.SignInWithProvider(ctx, OAuthParams{Provider: "google", ProviderAccountID: "g-victim", Email: "victim@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, squatter.ID, linked.ID)
}

func TestCanLinkProvider(t *testing.T) {
	now := time.Now()
	assert.False(t, User{Email: "a@b.c"}.CanLinkProvider())
	assert.True(t, User{Email: "a@b.c", EmailVerified: &now}.CanLinkProvider())
}

func TestGetAndUpdateProfile(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.Equal(t, errs.ErrUserNotFound, codeOf(t, err))

	u, err := svc.Register(ctx, RegisterInput{Name: "Rubie", Email: "rubie@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, ProfileParams{ID: u.ID, Name: "   ", Image: "https://cdn.example.com/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "Rubie", updated.Name)
	assert.Equal(t, "https://cdn.example.com/a.png", updated.Image)

	_, err = svc.UpdateProfile(ctx, ProfileParams{ID: "missing", Name: "x"})
	assert.Equal(t, errs.ErrUserNotFound, codeOf(t, err))
}

func TestListOthers(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.SignInWithProvider(ctx, OAuthParams{Provider: "github", ProviderAccountID: email, Email: email})
		require.NoError(t, err)
	}

	others, err := svc.ListOthers(ctx, " B@Example.com")
	require.NoError(t, err)
	assert.Len(t, others, 2)
	for _, u := range others {
		assert.NotEqual(t, "b@example.com", u.Email)
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	raw, err := json.Marshal(User{ID: "1", Email: "a@b.c", HashedPassword: "$2a$12$secret"})
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "secret"))
	assert.Contains(t, string(raw), `"emailVerified":null`)
}
