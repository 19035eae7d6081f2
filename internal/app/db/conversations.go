package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"rubiechat/internal/app/chat"
	"rubiechat/internal/app/user"
)

// conversationsQuery lists a user's conversations. Members come in join order,
// ties broken by id, so avatar groups show the same participants on every read.
const conversationsQuery = `
	SELECT c.id::text, c.created_at, c.last_message_at, c.name, c.is_group,
		ARRAY(
			SELECT cm.user_id::text FROM conversation_members cm
			WHERE cm.conversation_id = c.id
			ORDER BY cm.joined_at, cm.user_id
		)
	FROM conversations c
	JOIN conversation_members m ON m.conversation_id = c.id
	WHERE m.user_id = $1::uuid
	ORDER BY c.last_message_at DESC, c.id`

// ListFullConversations loads every conversation userID belongs to, most recently
// active first, with members, messages (oldest first), senders and seen lists.
func (q *Queries) ListFullConversations(ctx context.Context, userID string) ([]chat.FullConversation, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return []chat.FullConversation{}, nil
	}

	rows, err := q.db.Query(ctx, conversationsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}

	conversations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (chat.Conversation, error) {
		var c chat.Conversation
		err := row.Scan(&c.ID, &c.CreatedAt, &c.LastMessageAt, &c.Name, &c.IsGroup, &c.UserIDs)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan conversations: %w", err)
	}

	if len(conversations) == 0 {
		return []chat.FullConversation{}, nil
	}

	conversationIDs := make([]string, 0, len(conversations))
	for _, c := range conversations {
		conversationIDs = append(conversationIDs, c.ID)
	}

	const messagesQuery = `
		SELECT msg.id::text, msg.body, msg.image, msg.created_at, msg.conversation_id::text, msg.sender_id::text,
			ARRAY(SELECT s.user_id::text FROM message_seen s WHERE s.message_id = msg.id ORDER BY s.seen_at)
		FROM messages msg
		WHERE msg.conversation_id = ANY($1::text[]::uuid[])
		ORDER BY msg.created_at ASC, msg.id`

	rows, err = q.db.Query(ctx, messagesQuery, conversationIDs)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (chat.Message, error) {
		var m chat.Message
		err := row.Scan(&m.ID, &m.Body, &m.Image, &m.CreatedAt, &m.ConversationID, &m.SenderID, &m.SeenIDs)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}

	users, err := q.getUsersByIDs(ctx, referencedUserIDs(conversations, messages))
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	return assembleConversations(conversations, messages, users), nil
}

// referencedUserIDs returns the distinct member, sender and seen ids.
func referencedUserIDs(conversations []chat.Conversation, messages []chat.Message) []string {
	seen := make(map[string]struct{})
	ids := []string{}

	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, c := range conversations {
		for _, id := range c.UserIDs {
			add(id)
		}
	}
	for _, m := range messages {
		add(m.SenderID)
		for _, id := range m.SeenIDs {
			add(id)
		}
	}
	return ids
}

// assembleConversations joins the flat rows into the composed read model, keeping
// the order of conversations and of messages as given. Ids missing from users are
// dropped from member and seen lists; a missing sender leaves a zero Sender.
func assembleConversations(conversations []chat.Conversation, messages []chat.Message, users map[string]user.User) []chat.FullConversation {
	byConversation := make(map[string][]chat.FullMessage, len(conversations))
	for _, m := range messages {
		full := chat.FullMessage{
			Message: m,
			Sender:  users[m.SenderID],
			Seen:    resolveUsers(m.SeenIDs, users),
		}
		byConversation[m.ConversationID] = append(byConversation[m.ConversationID], full)
	}

	result := make([]chat.FullConversation, 0, len(conversations))
	for _, c := range conversations {
		msgs := byConversation[c.ID]
		if msgs == nil {
			msgs = []chat.FullMessage{}
		}

		result = append(result, chat.FullConversation{
			Conversation: c,
			Users:        resolveUsers(c.UserIDs, users),
			Messages:     msgs,
		})
	}
	return result
}

func resolveUsers(ids []string, users map[string]user.User) []user.User {
	resolved := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			resolved = append(resolved, u)
		}
	}
	return resolved
}
