package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"rubiechat/internal/app/presence"
	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/logx"
	"rubiechat/internal/pkg/req"
	"rubiechat/internal/pkg/resp"
)

// HandlePresenceWebhook applies a signed batch of membership events to the active list.
func HandlePresenceWebhook(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, req.MaxJSONBodySize))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRequestEntityTooLarge))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrFormParseFailed))
			return
		}

		if !presence.VerifySignature(deps.Config.PresenceSecret, body, r.Header.Get(presence.SignatureHeader)) {
			logx.FromContext(r.Context()).Warn().Msg("Presence webhook rejected: bad signature.")
			resp.RespondError(w, r, errs.NewError(errs.ErrSignatureInvalid))
			return
		}

		batch, err := presence.ParseBatch(body)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidJSONFormat))
			return
		}

		if !batch.Fresh(time.Now(), presence.MaxBatchAge) {
			logx.FromContext(r.Context()).Warn().Int64("time_ms", batch.TimeMs).Msg("Presence webhook rejected: stale batch.")
			resp.RespondError(w, r, errs.NewError(errs.ErrWebhookExpired))
			return
		}

		applied := deps.Presence.Apply(deps.Config.PresenceChannel, batch.Events)
		logx.FromContext(r.Context()).Debug().
			Int("received", len(batch.Events)).
			Int("applied", applied).
			Msg("Presence webhook applied.")

		resp.RespondSuccess(w, r, map[string]any{
			"applied": applied,
			"active":  deps.Presence.Len(),
		})
	}
}
