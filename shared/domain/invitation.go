package domain

// InvitationPayload is carried inside a signed invitation token.
type InvitationPayload struct {
	UserId  UserId  `json:"userId"`
	Role    Role    `json:"role"`
	BoardId BoardId `json:"boardId"`
}

type InviteRequest struct {
	UserId         UserId
	Role           Role // empty means "same as the inviter"
	ExpiresInHours int
}

// InvitationMail is everything needed to render an invitation email.
type InvitationMail struct {
	BoardId        BoardId
	BoardName      BoardName
	InviterName    string
	Role           Role
	Link           string
	ExpiresInHours int
}
