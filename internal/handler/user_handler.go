/*
Package handler provides HTTP handler functions for users, conversations and profiles.
*/
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"rubiechat/internal/app/session"
	"rubiechat/internal/app/storage"
	"rubiechat/internal/app/user"
	"rubiechat/internal/pkg/auth/jwt"
	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/logx"
	"rubiechat/internal/pkg/req"
	"rubiechat/internal/pkg/resp"
)

// viewer returns the signed-in user or responds with ErrUnauthorized.
func viewer(deps *AppDeps, w http.ResponseWriter, r *http.Request) (session.User, bool) {
	current := deps.Sessions.Current(r)
	if !current.Authenticated() {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return session.User{}, false
	}
	return *current.User, true
}

// HandleListUsers returns every user except the viewer.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, ok := viewer(deps, w, r)
		if !ok {
			return
		}

		users, err := deps.Users.ListOthers(r.Context(), me.Email)
		if err != nil {
			resp.RespondError(w, r, errs.As(err))
			return
		}
		resp.RespondSuccess(w, r, map[string]any{"users": users})
	}
}

// HandleListConversations returns the viewer's conversations with members, messages
// and avatar groups.
func HandleListConversations(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, ok := viewer(deps, w, r)
		if !ok {
			return
		}

		conversations, err := deps.Conversations.List(r.Context(), me.ID, me.Email)
		if err != nil {
			resp.RespondError(w, r, errs.As(err))
			return
		}
		resp.RespondSuccess(w, r, map[string]any{"conversations": conversations})
	}
}

// HandleGetUserProfile returns the viewer's stored account.
func HandleGetUserProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, ok := viewer(deps, w, r)
		if !ok {
			return
		}

		u, err := deps.Users.Get(r.Context(), me.ID)
		if err != nil {
			if errors.Is(err, errs.NewError(errs.ErrUserNotFound)) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}
			resp.RespondError(w, r, errs.As(err))
			return
		}
		resp.RespondSuccess(w, r, map[string]any{"user": u})
	}
}

// PresignAvatarInput defines the JSON input for an avatar upload URL.
type PresignAvatarInput struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// HandlePresignAvatarURL returns a time-limited PUT URL for a new avatar of the viewer.
func HandlePresignAvatarURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, ok := viewer(deps, w, r)
		if !ok {
			return
		}

		if deps.Storage == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateAvatar(input.FileName, input.MimeType, input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := storage.AvatarKey(me.ID, input.FileName)
		url, err := deps.Storage.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, storage.PresignedURLDuration)
		if err != nil {
			logx.FromContext(r.Context()).Error().Err(err).Str("key", key).Msg("Avatar presign failed.")
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"presignedUrl": url,
			"fileKey":      key,
			"publicUrl":    deps.Storage.PublicURL(key),
		})
	}
}

// UpdateProfileInput is the editable profile. An empty field keeps the current value.
type UpdateProfileInput struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// HandleUpdateUserProfile changes the viewer's name and avatar and re-issues the
// session so it carries the new values. A replaced avatar object is deleted.
func HandleUpdateUserProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, ok := viewer(deps, w, r)
		if !ok {
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Image != "" {
			if customErr := checkUploadedAvatar(r.Context(), deps.Storage, me.ID, input.Image); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		}

		old, err := deps.Users.Get(r.Context(), me.ID)
		if err != nil {
			resp.RespondError(w, r, errs.As(err))
			return
		}

		updated, err := deps.Users.UpdateProfile(r.Context(), user.ProfileParams{
			ID:    me.ID,
			Name:  input.Name,
			Image: input.Image,
		})
		if err != nil {
			resp.RespondError(w, r, errs.As(err))
			return
		}

		if deps.Storage != nil && old.Image != "" && old.Image != updated.Image {
			if oldKey, ours := deps.Storage.KeyFromURL(old.Image); ours {
				go func(key string) {
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					if err := deps.Storage.Delete(ctx, key); err != nil {
						logx.Error(err, "update_profile: failed to delete replaced avatar", "key", key)
					}
				}(oldKey)
			}
		}

		finalResponse := map[string]any{"user": updated}

		provider := ""
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			provider = payload.Provider
		}
		token, err := deps.Sessions.Issue(w, updated, provider)
		if err != nil {
			logx.Error(err, "update_profile: session re-issue failed, keeping the old session")
		} else {
			finalResponse["token"] = token
		}

		resp.RespondSuccess(w, r, finalResponse)
	}
}

// checkUploadedAvatar accepts only a public URL of an object in the viewer's avatar
// namespace that exists and is a valid image.
func checkUploadedAvatar(ctx context.Context, store storage.StorageService, userID, imageURL string) *errs.CustomError {
	if store == nil {
		return errs.NewError(errs.ErrInvalidParams)
	}

	key, ok := store.KeyFromURL(imageURL)
	if !ok || !storage.IsAvatarKeyOf(key, userID) {
		return errs.NewError(errs.ErrInvalidParams)
	}

	info, err := store.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return errs.NewError(errs.ErrInvalidParams)
		}
		logx.FromContext(ctx).Error().Err(err).Str("key", key).Msg("Avatar stat failed.")
		return errs.NewError(errs.ErrFileStorageFailed)
	}

	return storage.ValidateAvatar(key, info.ContentType, info.ContentLength)
}
