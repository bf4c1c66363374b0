// internal/app/features/users/resend.go
package users

import (
	"net/http"
	"strings"

	"github.com/campusbridge/precollegehub/internal/app/notify"
	"github.com/campusbridge/precollegehub/internal/app/system/credentials"
	"github.com/campusbridge/precollegehub/internal/app/system/status"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type resendResponse struct {
	Delivered bool           `json:"delivered"`
	Email     channelOutcome `json:"email"`
	SMS       channelOutcome `json:"sms"`
}

type channelOutcome struct {
	Attempted bool   `json:"attempted"`
	Error     string `json:"error,omitempty"`
}

// ServeResendInvite handles POST /users/{id}/resend-invite. The password is
// rotated (the old one stops working), the identity is re-enabled, the user
// drops back to invited, and the invitation goes out again.
func (h *Handler) ServeResendInvite(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "resend invite")
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.Log.Error("load user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user.LoginEmail == "" {
		writeError(w, http.StatusConflict, "user has no identity to re-invite")
		return
	}

	password, err := credentials.GeneratePassword(credentials.DefaultPasswordLength)
	if err != nil {
		h.Log.Error("generate password failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.Identities.UpdatePassword(ctx, user.LoginEmail, password); err != nil {
		h.Log.Error("rotate password failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.Users.SetStatus(ctx, id, status.Invited); err != nil {
		h.Log.Warn("reset status to invited failed", zap.Error(err))
	}

	// Username shown in the invitation is the login address's local part;
	// for placeholder identities that is the generated username.
	username := user.LoginEmail
	if i := strings.IndexByte(username, '@'); i > 0 {
		username = username[:i]
	}

	results := h.Importer.Notify.Dispatch(ctx, notify.Invitation{
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Username: username,
		Password: password,
	})

	resp := resendResponse{Delivered: notify.Delivered(results)}
	for _, cr := range results {
		out := channelOutcome{Attempted: cr.Attempted}
		if cr.Err != nil {
			out.Error = cr.Err.Error()
		}
		switch cr.Channel {
		case notify.ChannelEmail:
			resp.Email = out
		case notify.ChannelSMS:
			resp.SMS = out
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
