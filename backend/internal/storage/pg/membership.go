package pg

import (
	"context"
	"database/sql"

	"github.com/potatoland/potatoland/shared/domain"
	internal_errors "github.com/potatoland/potatoland/shared/errors"
)

// SaveMembership adds userId to a live board. The UNIQUE (board_id, user_id)
// constraint turns a second insert for the same pair into a Conflict.
func (s *Storage) SaveMembership(ctx context.Context, boardId domain.BoardId, userId domain.UserId, role domain.Role) (domain.MembershipId, error) {
	var id domain.MembershipId
	err := s.db.QueryRowContext(ctx, `
	INSERT INTO board_members(board_id, user_id, role)
	SELECT $1::bigint, $2::bigint, $3
	WHERE EXISTS (SELECT 1 FROM boards WHERE id = $1 AND deleted_at IS NULL)
	RETURNING id`, boardId, userId, role).Scan(&id)
	if err != nil {
		return 0, translate(err, "Board or user not found", "User is already a member of this board")
	}
	return id, nil
}

// UpdateMembershipRole refuses to demote the board's last admin, whatever
// snapshot the caller decided on.
func (s *Storage) UpdateMembershipRole(ctx context.Context, boardId domain.BoardId, memberId domain.MembershipId, role domain.Role) error {
	result, err := s.db.ExecContext(ctx, `
	UPDATE board_members SET role = $3::text
	WHERE id = $2 AND board_id = $1
	AND ($3::text = 'admin' OR role <> 'admin'
		OR (SELECT count(*) FROM board_members WHERE board_id = $1 AND role = 'admin') > 1)`,
		boardId, memberId, role)
	if err != nil {
		return err
	}
	return s.expectMembershipAffected(ctx, result, boardId, memberId, "A board must keep at least one admin")
}

// DeleteMembership never removes an admin membership.
func (s *Storage) DeleteMembership(ctx context.Context, boardId domain.BoardId, memberId domain.MembershipId) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM board_members WHERE id = $2 AND board_id = $1 AND role <> 'admin'", boardId, memberId)
	if err != nil {
		return err
	}
	return s.expectMembershipAffected(ctx, result, boardId, memberId, "Admins cannot be removed from a board")
}

// expectMembershipAffected tells a missing membership (NotFound) apart from one
// the guard in the statement kept (Forbidden).
func (s *Storage) expectMembershipAffected(ctx context.Context, result sql.Result, boardId domain.BoardId, memberId domain.MembershipId, forbidden string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM board_members WHERE id = $2 AND board_id = $1)", boardId, memberId).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return internal_errors.NotFound("Member not found")
	}
	return internal_errors.Forbidden(forbidden)
}
