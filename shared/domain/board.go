package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type BoardCreationData struct {
	Name            BoardName
	BackgroundColor BackgroundColor
	Description     string
	Visibility      Visibility
	InvitePolicy    InvitePolicy
}

// BoardPatch holds the mutable board fields. Nil fields are left untouched.
type BoardPatch struct {
	Name            *BoardName
	BackgroundColor *BackgroundColor
	Description     *string
	Visibility      *Visibility
	InvitePolicy    *InvitePolicy
}

func (p BoardPatch) IsEmpty() bool {
	return p.Name == nil && p.BackgroundColor == nil && p.Description == nil && p.Visibility == nil && p.InvitePolicy == nil
}

type Membership struct {
	Id      MembershipId `json:"id"`
	BoardId BoardId      `json:"boardId"`
	User    User         `json:"user"`
	Role    Role         `json:"role"`
}

// Board is a snapshot of a board together with its creator and every membership.
type Board struct {
	Id              BoardId         `json:"id"`
	Name            BoardName       `json:"name"`
	BackgroundColor BackgroundColor `json:"backgroundColor"`
	Description     string          `json:"description"`
	Visibility      Visibility      `json:"visibility"`
	InvitePolicy    InvitePolicy    `json:"inviteOption"`
	CreatedBy       User            `json:"createdBy"`
	Members         []Membership    `json:"members"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Member returns the membership of userId or nil.
func (b *Board) Member(userId UserId) *Membership {
	for i := range b.Members {
		if b.Members[i].User.Id == userId {
			return &b.Members[i]
		}
	}
	return nil
}

// MemberById returns the membership with the given id or nil.
func (b *Board) MemberById(id MembershipId) *Membership {
	for i := range b.Members {
		if b.Members[i].Id == id {
			return &b.Members[i]
		}
	}
	return nil
}

// Admins counts memberships holding RoleAdmin.
func (b *Board) Admins() int {
	n := 0
	for _, m := range b.Members {
		if m.Role == RoleAdmin {
			n++
		}
	}
	return n
}
