package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/potatoland/potatoland/shared/api"
	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/errors"
	mw "github.com/potatoland/potatoland/shared/middleware"
	"github.com/potatoland/potatoland/shared/utils"
)

// requestContext resolves the signed-in user and the {id} path parameter.
func requestContext(r *http.Request) (domain.User, domain.BoardId, error) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		return domain.User{}, 0, errors.Unauthorized("Please sign-in")
	}
	id, err := utils.ParseId(chi.URLParam(r, "id"), "board id")
	if err != nil {
		return domain.User{}, 0, err
	}
	return *user, id, nil
}

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		utils.WriteErrorAndStatusCode(w, errors.Unauthorized("Please sign-in"))
		return
	}
	var body api.CreateBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, err := h.board.Create(r.Context(), *user, domain.BoardCreationData{
		Name:            body.Name,
		BackgroundColor: body.BackgroundColor,
		Description:     body.Description,
		Visibility:      domain.Visibility(body.Visibility),
		InvitePolicy:    domain.InvitePolicy(body.InviteOption),
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.BoardResponse{Message: "Board created", Board: board})
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	user, id, err := requestContext(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, err := h.board.Get(r.Context(), user, id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.BoardResponse{Board: board})
}

func (h *Handler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	user, id, err := requestContext(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.UpdateBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	patch := domain.BoardPatch{
		Name:            body.Name,
		BackgroundColor: body.BackgroundColor,
		Description:     body.Description,
	}
	if body.Visibility != nil {
		v := domain.Visibility(*body.Visibility)
		patch.Visibility = &v
	}
	if body.InviteOption != nil {
		p := domain.InvitePolicy(*body.InviteOption)
		patch.InvitePolicy = &p
	}

	if err := h.board.Update(r.Context(), user, id, patch); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Board updated"})
}

func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	user, id, err := requestContext(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.Delete(r.Context(), user, id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Board deleted"})
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	user, id, err := requestContext(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.UpdateMemberRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.UpdateMemberRole(r.Context(), user, id, body.MemberId, domain.Role(body.Role)); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Member role updated"})
}

func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	user, id, err := requestContext(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.DeleteMemberRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.DeleteMember(r.Context(), user, id, body.MemberId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Member removed"})
}
