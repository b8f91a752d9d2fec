// Package access decides what a user may do on a board. Every function is pure:
// it only looks at the board snapshot it is given.
package access

import (
	"fmt"
	"strings"

	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/errors"
)

// CanModify allows admins, members and guests. Observers and outsiders are denied.
func CanModify(board *domain.Board, userId domain.UserId) bool {
	m := board.Member(userId)
	return m != nil && m.Role.AtLeast(domain.RoleGuest)
}

// CanDelete allows only the board creator.
func CanDelete(board *domain.Board, userId domain.UserId) bool {
	return board.CreatedBy.Id == userId
}

// CanView allows anyone on public boards and any member on private ones.
func CanView(board *domain.Board, userId domain.UserId) bool {
	return board.Visibility == domain.VisibilityPublic || board.Member(userId) != nil
}

// IsMember reports whether userId holds any role on board.
func IsMember(board *domain.Board, userId domain.UserId) bool {
	return board.Member(userId) != nil
}

// ResolveInviteRole defaults an unspecified role to the inviter's own role.
func ResolveInviteRole(inviter *domain.Membership, requested domain.Role) domain.Role {
	if requested == "" && inviter != nil {
		return inviter.Role
	}
	return requested
}

// CanInvite reports whether inviter may grant requested on board.
func CanInvite(board *domain.Board, inviter *domain.Membership, requested domain.Role) bool {
	return CheckInvite(board, inviter, requested) == nil
}

// CheckInviter denies outsiders, and non-admins on adminOnly boards, before
// anything else about the invitation is looked at.
func CheckInviter(board *domain.Board, inviter *domain.Membership) error {
	if inviter == nil {
		return errors.Forbidden("Only board members can invite")
	}
	if board.InvitePolicy == domain.InviteAdminOnly && inviter.Role != domain.RoleAdmin {
		return errors.Forbidden("Only board admins can invite to this board")
	}
	return nil
}

// CheckInvite is CanInvite with the reason of the denial as an error.
// An inviter may grant only roles whose authority does not exceed their own.
// An unknown role is a BadRequest, every other denial is Forbidden.
func CheckInvite(board *domain.Board, inviter *domain.Membership, requested domain.Role) error {
	if err := CheckInviter(board, inviter); err != nil {
		return err
	}
	role := ResolveInviteRole(inviter, requested)
	if !role.IsValid() {
		return errors.BadRequest(fmt.Sprintf("Unknown role '%s'", role))
	}
	if !inviter.Role.AtLeast(role) {
		return errors.Forbidden(fmt.Sprintf("'%s' can only invite %s", inviter.Role, strings.Join(grantable(inviter.Role), ", ")))
	}
	return nil
}

// grantable lists the roles r may hand out, highest first.
func grantable(r domain.Role) []string {
	var roles []string
	for _, candidate := range domain.Roles() {
		if r.AtLeast(candidate) {
			roles = append(roles, string(candidate))
		}
	}
	return roles
}

// CanChangeRole allows only admins to change roles.
func CanChangeRole(board *domain.Board, actingUserId domain.UserId) bool {
	m := board.Member(actingUserId)
	return m != nil && m.Role == domain.RoleAdmin
}

// CanRemoveMember allows admins to remove non-admin memberships.
// Admin memberships are never removable, so every board keeps its admins.
func CanRemoveMember(board *domain.Board, actingUserId domain.UserId, target *domain.Membership) bool {
	if target == nil || !CanChangeRole(board, actingUserId) {
		return false
	}
	return target.Role != domain.RoleAdmin
}

// KeepsAdmin reports whether changing target to newRole leaves the board with an admin.
func KeepsAdmin(board *domain.Board, target *domain.Membership, newRole domain.Role) bool {
	if target.Role != domain.RoleAdmin || newRole == domain.RoleAdmin {
		return true
	}
	return board.Admins() > 1
}
