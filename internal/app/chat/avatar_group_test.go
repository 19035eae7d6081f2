package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rubiechat/internal/app/user"
)

type memberSet map[string]bool

func (m memberSet) IsMember(email string) bool { return m[email] }

func people(emails ...string) []user.User {
	users := make([]user.User, 0, len(emails))
	for i, email := range emails {
		users = append(users, user.User{ID: string(rune('a' + i)), Name: email, Email: email, Image: "/img/" + email})
	}
	return users
}

func TestAvatarGroupShowsAtMostThree(t *testing.T) {
	group := NewAvatarGroup(people("a@x", "b@x", "c@x", "d@x", "e@x"), nil, "")

	require.Len(t, group.Slots, MaxGroupAvatars)
	for i, slot := range group.Slots {
		assert.Equal(t, AvatarPosition(i), slot.Position)
	}
	assert.Equal(t, "a@x", group.Slots[0].Name)
	assert.Equal(t, "c@x", group.Slots[2].Name)
}

func TestAvatarGroupPositions(t *testing.T) {
	assert.Equal(t, "top-0 left-[12px]", PositionTop.Class())
	assert.Equal(t, "bottom-0", PositionBottomLeft.Class())
	assert.Equal(t, "bottom-0 right-0", PositionBottomRight.Class())
	assert.Empty(t, AvatarPosition(3).Class())
	assert.Empty(t, AvatarPosition(-1).Class())
}

func TestAvatarGroupEmptyInput(t *testing.T) {
	group := NewAvatarGroup(nil, memberSet{"a@x": true}, "a@x")
	assert.Empty(t, group.Slots)
	assert.NotNil(t, group.Slots)
	assert.False(t, group.Online)
}

func TestAvatarGroupDefaultImage(t *testing.T) {
	users := people("a@x")
	users[0].Image = ""

	group := NewAvatarGroup(users, nil, "")
	assert.Equal(t, DefaultAvatar, group.Slots[0].Image)
	assert.Equal(t, "/images/avatar.png", group.Slots[0].Image)
}

func TestAvatarGroupOnline(t *testing.T) {
	users := people("viewer@x", "b@x", "c@x", "d@x")

	tests := []struct {
		name    string
		members ActiveMembers
		want    bool
	}{
		{"nobody active", memberSet{}, false},
		{"nil list", nil, false},
		{"shown participant active", memberSet{"b@x": true}, true},
		{"only the viewer active", memberSet{"viewer@x": true}, false},
		{"only a hidden participant active", memberSet{"d@x": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := NewAvatarGroup(users, tt.members, "viewer@x")
			assert.Equal(t, tt.want, group.Online)
		})
	}
}
