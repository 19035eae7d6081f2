package handler

import (
	"context"
	"net/http"

	"rubiechat/internal/app/chat"
	"rubiechat/internal/app/presence"
	"rubiechat/internal/app/session"
	"rubiechat/internal/app/storage"
	"rubiechat/internal/app/user"
	"rubiechat/internal/configs"
	"rubiechat/internal/web"
)

// UserService is the account use-case surface the handlers need.
type UserService interface {
	Register(ctx context.Context, input user.RegisterInput) (user.User, error)
	Get(ctx context.Context, id string) (user.User, error)
	ListOthers(ctx context.Context, viewerEmail string) ([]user.User, error)
	UpdateProfile(ctx context.Context, params user.ProfileParams) (user.User, error)
}

// SessionService issues, reads and clears sessions.
type SessionService interface {
	Providers() []string
	Credentials(ctx context.Context, email, password string) (user.User, error)
	Issue(w http.ResponseWriter, u user.User, provider string) (string, error)
	Current(r *http.Request) session.Session
	SignOut(w http.ResponseWriter)
	BeginOAuth(w http.ResponseWriter, provider string) (string, error)
	CompleteOAuth(w http.ResponseWriter, r *http.Request, provider string) (user.User, error)
}

// ConversationLister lists a viewer's conversations.
type ConversationLister interface {
	List(ctx context.Context, viewerID, viewerEmail string) ([]chat.ConversationSummary, error)
}

// Presence is the active member list fed by the presence webhook.
type Presence interface {
	chat.ActiveMembers
	Apply(channel string, events []presence.Event) int
	Len() int
}

// AppDeps holds everything the handlers depend on. Storage is nil when avatar
// storage is not configured.
type AppDeps struct {
	Config        *configs.AppConfig
	Users         UserService
	Sessions      SessionService
	Conversations ConversationLister
	Presence      Presence
	Storage       storage.StorageService
	Pages         *web.Renderer
}
