package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const channel = "presence-messenger"

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"time_ms":1,"events":[]}`)
	sig := Sign("s3cret", body)

	assert.True(t, VerifySignature("s3cret", body, sig))
	assert.True(t, VerifySignature("s3cret", body, " "+sig+"\n"))
	assert.False(t, VerifySignature("other", body, sig))
	assert.False(t, VerifySignature("s3cret", append(body, ' '), sig))
	assert.False(t, VerifySignature("s3cret", body, "not-hex"))
	assert.False(t, VerifySignature("s3cret", body, ""))
	assert.False(t, VerifySignature("", body, Sign("", body)))
}

func TestParseBatch(t *testing.T) {
	batch, err := ParseBatch([]byte(`{"time_ms":1700000000000,"events":[{"name":"member_added","channel":"presence-messenger","user_id":"a@x"}]}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), batch.TimeMs)
	assert.Equal(t, []Event{{Name: EventMemberAdded, Channel: channel, UserID: "a@x"}}, batch.Events)

	_, err = ParseBatch([]byte(`{"events":`))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	l := NewActiveList()

	applied := l.Apply(channel, []Event{
		{Name: EventMemberAdded, Channel: channel, UserID: "A@X"},
		{Name: EventMemberAdded, Channel: channel, UserID: "b@x"},
		{Name: EventMemberAdded, Channel: "presence-other", UserID: "c@x"},
		{Name: "channel_occupied", Channel: channel, UserID: "d@x"},
		{Name: EventMemberRemoved, Channel: channel, UserID: "b@x"},
	})

	assert.Equal(t, 3, applied)
	assert.Equal(t, []string{"a@x"}, l.Members())
}

func TestBatchFresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) Batch { return Batch{TimeMs: now.Add(d).UnixMilli()} }

	assert.True(t, at(0).Fresh(now, MaxBatchAge))
	assert.True(t, at(-MaxBatchAge).Fresh(now, MaxBatchAge))
	assert.True(t, at(30*time.Second).Fresh(now, MaxBatchAge), "small clock skew is tolerated")
	assert.False(t, at(-MaxBatchAge-time.Second).Fresh(now, MaxBatchAge), "replayed batch")
	assert.False(t, at(time.Hour).Fresh(now, MaxBatchAge))
	assert.False(t, Batch{}.Fresh(now, MaxBatchAge), "missing timestamp")
}
