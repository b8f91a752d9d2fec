package handler

import (
	"net/http"

	"github.com/potatoland/potatoland/shared/api"
	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/errors"
	"github.com/potatoland/potatoland/shared/utils"
)

func (h *Handler) InviteBoard(w http.ResponseWriter, r *http.Request) {
	user, id, err := requestContext(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.InviteBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	err = h.board.Invite(r.Context(), user, id, domain.InviteRequest{
		UserId:         body.UserId,
		Role:           domain.Role(body.Role),
		ExpiresInHours: body.ExpiresIn,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, api.MessageResponse{Message: "Invitation sent"})
}

// ConfirmInvite is reached from the link in the invitation email, so it needs no session.
func (h *Handler) ConfirmInvite(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.WriteErrorAndStatusCode(w, errors.BadRequest("token is required"))
		return
	}

	if _, err := h.board.Confirm(r.Context(), token); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Invitation accepted"})
}
