package presence

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
	SignatureHeader = "X-Pusher-Signature"

	EventMemberAdded   = "member_added"
	EventMemberRemoved = "member_removed"

	// MaxBatchAge bounds how far a batch timestamp may be from the receiver's clock.
	MaxBatchAge = 5 * time.Minute
)

// Event is one membership change. UserID is the member's email.
type Event struct {
	Name    string `json:"name"`
	Channel string `json:"channel"`
	UserID  string `json:"user_id"`
}

// Batch is the webhook body: events in the order they happened.
type Batch struct {
	TimeMs int64   `json:"time_ms"`
	Events []Event `json:"events"`
}

// Fresh reports whether the batch was sent within window of now, in either
// direction. A batch without a timestamp is never fresh.
func (b Batch) Fresh(now time.Time, window time.Duration) bool {
	if b.TimeMs <= 0 {
		return false
	}
	age := now.Sub(time.UnixMilli(b.TimeMs))
	return age <= window && age >= -window
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against body in constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	expected, err := hex.DecodeString(Sign(secret, body))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

// ParseBatch decodes a webhook body.
func ParseBatch(body []byte) (Batch, error) {
	var batch Batch
	if err := json.Unmarshal(body, &batch); err != nil {
		return Batch{}, fmt.Errorf("decode presence batch: %w", err)
	}
	return batch, nil
}

// Apply replays the events for channel onto the list in order and returns how many
// were applied. Events for other channels or with unknown names are skipped.
func (l *ActiveList) Apply(channel string, events []Event) int {
	applied := 0
	for _, ev := range events {
		if ev.Channel != channel {
			continue
		}

		id := strings.ToLower(strings.TrimSpace(ev.UserID))
		switch ev.Name {
		case EventMemberAdded:
			l.Add(id)
		case EventMemberRemoved:
			l.Remove(id)
		default:
			continue
		}
		applied++
	}
	return applied
}
