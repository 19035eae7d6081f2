package chat

import (
	"context"
	"fmt"

	"rubiechat/internal/pkg/errs"
)

// ConversationStore loads the composed conversation read model.
type ConversationStore interface {
	ListFullConversations(ctx context.Context, userID string) ([]FullConversation, error)
}

// ConversationSummary is a listed conversation as seen by one viewer.
type ConversationSummary struct {
	Conversation FullConversation `json:"conversation"`
	Title        string           `json:"title"`
	Preview      string           `json:"preview"`
	Unseen       bool             `json:"unseen"`
	Avatars      AvatarGroup      `json:"avatars"`
}

// Service lists conversations for a viewer.
type Service struct {
	store   ConversationStore
	members ActiveMembers
}

// NewService returns a Service reading from store and consulting members for presence.
func NewService(store ConversationStore, members ActiveMembers) *Service {
	return &Service{store: store, members: members}
}

// List returns the viewer's conversations, most recently active first.
func (s *Service) List(ctx context.Context, viewerID, viewerEmail string) ([]ConversationSummary, error) {
	conversations, err := s.store.ListFullConversations(ctx, viewerID)
	if err != nil {
		return nil, errs.NewError(errs.ErrUnknown, fmt.Errorf("list conversations: %w", err))
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		avatarUsers := c.Users
		if !c.IsGroup {
			avatarUsers = c.OtherUsers(viewerEmail)
		}

		summaries = append(summaries, ConversationSummary{
			Conversation: c,
			Title:        c.Title(viewerEmail),
			Preview:      c.Preview(),
			Unseen:       c.HasUnseen(viewerEmail),
			Avatars:      NewAvatarGroup(avatarUsers, s.members, viewerEmail),
		})
	}
	return summaries, nil
}
