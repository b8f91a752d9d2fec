package api

import "github.com/potatoland/potatoland/shared/domain"

type CreateBoardRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	BackgroundColor string `json:"backgroundColor" validate:"omitempty,hexcolor"`
	Description     string `json:"description" validate:"max=500"`
	Visibility      string `json:"visibility" validate:"omitempty,oneof=public private"`
	InviteOption    string `json:"inviteOption" validate:"omitempty,oneof=all adminOnly"`
}

type UpdateBoardRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=100"`
	BackgroundColor *string `json:"backgroundColor" validate:"omitempty,hexcolor"`
	Description     *string `json:"description" validate:"omitempty,max=500"`
	Visibility      *string `json:"visibility" validate:"omitempty,oneof=public private"`
	InviteOption    *string `json:"inviteOption" validate:"omitempty,oneof=all adminOnly"`
}

type InviteBoardRequest struct {
	UserId    int64  `json:"userId" validate:"required,gt=0"`
	Role      string `json:"role" validate:"omitempty,oneof=admin member guest observer"`
	ExpiresIn int    `json:"expiresIn" validate:"required,min=1"` // hours
}

type UpdateMemberRequest struct {
	MemberId int64  `json:"memberId" validate:"required,gt=0"`
	Role     string `json:"role" validate:"required,oneof=admin member guest observer"`
}

type DeleteMemberRequest struct {
	MemberId int64 `json:"memberId" validate:"required,gt=0"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type BoardResponse struct {
	Message string        `json:"message,omitempty"`
	Board   *domain.Board `json:"board"`
}
