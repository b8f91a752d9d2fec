package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/potatoland/potatoland/shared/domain"
	internal_errors "github.com/potatoland/potatoland/shared/errors"
)

func (s *Storage) CreateBoard(ctx context.Context, creator domain.UserId, data domain.BoardCreationData) (domain.BoardId, error) {
	var id domain.BoardId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
		INSERT INTO boards(name, background_color, description, visibility, invite_option, created_by)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id`,
			data.Name, data.BackgroundColor, data.Description, data.Visibility, data.InvitePolicy, creator,
		).Scan(&id)
		if err != nil {
			return translate(err, "User not found", "Board already exists")
		}

		_, err = tx.ExecContext(ctx, "INSERT INTO board_members(board_id, user_id, role) VALUES($1, $2, $3)", id, creator, domain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to add board creator: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Board loads the board with its creator and every membership in a single query.
func (s *Storage) Board(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT
		b.id, b.name, b.background_color, b.description, b.visibility, b.invite_option,
		b.created_at, b.updated_at,
		c.id, c.email, c.name,
		m.id, m.role, u.id, u.email, u.name
	FROM boards AS b
	JOIN users AS c
		ON c.id = b.created_by
	LEFT JOIN board_members AS m
		ON m.board_id = b.id
	LEFT JOIN users AS u
		ON u.id = m.user_id
	WHERE b.id = $1 AND b.deleted_at IS NULL
	ORDER BY m.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var board *domain.Board
	for rows.Next() {
		var (
			b         domain.Board
			memberId  sql.NullInt64
			role      sql.NullString
			userId    sql.NullInt64
			userEmail sql.NullString
			userName  sql.NullString
		)
		err = rows.Scan(
			&b.Id, &b.Name, &b.BackgroundColor, &b.Description, &b.Visibility, &b.InvitePolicy,
			&b.CreatedAt, &b.UpdatedAt,
			&b.CreatedBy.Id, &b.CreatedBy.Email, &b.CreatedBy.Name,
			&memberId, &role, &userId, &userEmail, &userName,
		)
		if err != nil {
			return nil, err
		}
		if board == nil {
			b.Members = []domain.Membership{}
			board = &b
		}
		if memberId.Valid {
			board.Members = append(board.Members, domain.Membership{
				Id:      memberId.Int64,
				BoardId: board.Id,
				User:    domain.User{Id: userId.Int64, Email: userEmail.String, Name: userName.String},
				Role:    domain.Role(role.String),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if board == nil {
		return nil, internal_errors.NotFound("Board not found")
	}
	return board, nil
}

func (s *Storage) UpdateBoard(ctx context.Context, id domain.BoardId, patch domain.BoardPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.BackgroundColor != nil {
		add("background_color", *patch.BackgroundColor)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Visibility != nil {
		add("visibility", *patch.Visibility)
	}
	if patch.InvitePolicy != nil {
		add("invite_option", *patch.InvitePolicy)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE boards SET %s WHERE id = $%d AND deleted_at IS NULL", strings.Join(sets, ", "), len(args))
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectAffected(result, "Board not found")
}

func (s *Storage) SoftDeleteBoard(ctx context.Context, id domain.BoardId) error {
	result, err := s.db.ExecContext(ctx, "UPDATE boards SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	return expectAffected(result, "Board not found")
}

func (s *Storage) BoardExists(ctx context.Context, id domain.BoardId) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM boards WHERE id = $1 AND deleted_at IS NULL)", id).Scan(&exists)
	return exists, err
}

func expectAffected(result sql.Result, notFound string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internal_errors.NotFound(notFound)
	}
	return nil
}
