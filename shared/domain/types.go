package domain

type (
	Email        = string
	UserId       = int64
	BoardId      = int64
	MembershipId = int64

	BoardName       = string
	BackgroundColor = string
)
