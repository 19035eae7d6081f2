package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/randx"
)

const (
	// MaxAvatarSizeMB is the maximum allowed avatar size in megabytes.
	MaxAvatarSizeMB = 2

	// MaxAvatarSize is the maximum allowed avatar size in bytes.
	MaxAvatarSize = MaxAvatarSizeMB * 1024 * 1024

	// PresignedURLDuration is how long an upload URL stays valid.
	PresignedURLDuration = 5 * time.Minute

	avatarKeyPrefix = "avatars/"
)

// ExtToMIME maps the allowed avatar extensions to their MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ValidateAvatar checks the declared size, MIME type and file extension of an upload.
func ValidateAvatar(fileName string, mimeType string, fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if fileSize > MaxAvatarSize {
		return errs.NewError(errs.ErrFileSizeTooLarge, MaxAvatarSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	expectedMIME, ok := ExtToMIME[ext]
	if !ok || expectedMIME != strings.ToLower(mimeType) {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	return nil
}

// AvatarKey returns a fresh object key for userID's avatar with the file's extension.
func AvatarKey(userID, fileName string) string {
	return fmt.Sprintf("%s%s/%s%s", avatarKeyPrefix, userID, randx.ID(), strings.ToLower(filepath.Ext(fileName)))
}

// IsAvatarKeyOf reports whether key lies in userID's avatar namespace.
func IsAvatarKeyOf(key, userID string) bool {
	return userID != "" && strings.HasPrefix(key, avatarKeyPrefix+userID+"/") && !strings.Contains(key, "..")
}
