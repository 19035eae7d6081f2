package chat

import "rubiechat/internal/app/user"

const (
	// MaxGroupAvatars is how many participants an avatar group shows.
	MaxGroupAvatars = 3

	// DefaultAvatar is used for participants without an image.
	DefaultAvatar = "/images/avatar.png"
)

// AvatarPosition is the fixed place of a slot inside the stacked group.
type AvatarPosition int

const (
	PositionTop AvatarPosition = iota
	PositionBottomLeft
	PositionBottomRight
)

var positionClasses = [MaxGroupAvatars]string{
	PositionTop:         "top-0 left-[12px]",
	PositionBottomLeft:  "bottom-0",
	PositionBottomRight: "bottom-0 right-0",
}

// Class returns the utility classes placing a slot at p.
func (p AvatarPosition) Class() string {
	if p < 0 || int(p) >= len(positionClasses) {
		return ""
	}
	return positionClasses[p]
}

// ActiveMembers is the externally maintained list of currently active emails.
type ActiveMembers interface {
	IsMember(email string) bool
}

// AvatarSlot is one rendered participant.
type AvatarSlot struct {
	UserID   string         `json:"userId"`
	Name     string         `json:"name"`
	Image    string         `json:"image"`
	Position AvatarPosition `json:"position"`
}

// AvatarGroup is the view model of a stacked participant indicator.
type AvatarGroup struct {
	Slots  []AvatarSlot `json:"slots"`
	Online bool         `json:"online"`
}

// NewAvatarGroup shows at most the first MaxGroupAvatars users, slot i at position i.
// Online is set when a shown user other than the viewer is in members.
// users and members may both be nil.
func NewAvatarGroup(users []user.User, members ActiveMembers, viewerEmail string) AvatarGroup {
	shown := users[:min(len(users), MaxGroupAvatars)]

	group := AvatarGroup{Slots: make([]AvatarSlot, 0, len(shown))}

	for i, u := range shown {
		image := u.Image
		if image == "" {
			image = DefaultAvatar
		}

		group.Slots = append(group.Slots, AvatarSlot{
			UserID:   u.ID,
			Name:     u.Name,
			Image:    image,
			Position: AvatarPosition(i),
		})

		if members != nil && u.Email != viewerEmail && members.IsMember(u.Email) {
			group.Online = true
		}
	}

	return group
}
