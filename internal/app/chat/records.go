/*
Package chat defines the conversation and message records, their composed read
models, and the avatar-group view used wherever a conversation is listed.
*/
package chat

import (
	"slices"
	"time"

	"rubiechat/internal/app/user"
)

// Conversation is the persisted conversation record.
type Conversation struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	Name          string    `json:"name"`
	IsGroup       bool      `json:"isGroup"`
	UserIDs       []string  `json:"userIds"`
}

// Message is the persisted message record.
type Message struct {
	ID             string    `json:"id"`
	Body           string    `json:"body"`
	Image          string    `json:"image"`
	CreatedAt      time.Time `json:"createdAt"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	SeenIDs        []string  `json:"seenIds"`
}

// FullMessage is a Message widened with its sender and the users who have seen it.
// Embedding keeps the Message fields at the top level of the JSON object.
type FullMessage struct {
	Message
	Sender user.User   `json:"sender"`
	Seen   []user.User `json:"seen"`
}

// FullConversation is a Conversation widened with its members and its messages,
// oldest message first.
type FullConversation struct {
	Conversation
	Users    []user.User   `json:"users"`
	Messages []FullMessage `json:"messages"`
}

// SeenBy reports whether the user with email appears in the seen list.
func (m FullMessage) SeenBy(email string) bool {
	return slices.ContainsFunc(m.Seen, func(u user.User) bool { return u.Email == email })
}

// LastMessage returns the most recent message, or nil for an empty conversation.
func (c FullConversation) LastMessage() *FullMessage {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// OtherUsers returns the members other than the viewer.
func (c FullConversation) OtherUsers(viewerEmail string) []user.User {
	others := make([]user.User, 0, len(c.Users))
	for _, u := range c.Users {
		if u.Email != viewerEmail {
			others = append(others, u)
		}
	}
	return others
}

// Title is the conversation name, or the other member's name for unnamed one-to-one chats.
func (c FullConversation) Title(viewerEmail string) string {
	if c.Name != "" {
		return c.Name
	}

	if others := c.OtherUsers(viewerEmail); len(others) > 0 {
		return others[0].Name
	}
	return "Conversation"
}

// Preview is the one-line summary of the last message shown in conversation lists.
func (c FullConversation) Preview() string {
	last := c.LastMessage()
	switch {
	case last == nil:
		return "Started a conversation"
	case last.Image != "":
		return "Sent an image"
	case last.Body != "":
		return last.Body
	default:
		return "Started a conversation"
	}
}

// HasUnseen reports whether the last message has not been seen by the viewer.
func (c FullConversation) HasUnseen(viewerEmail string) bool {
	last := c.LastMessage()
	if last == nil {
		return false
	}
	return !last.SeenBy(viewerEmail)
}
