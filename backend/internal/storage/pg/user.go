package pg

import (
	"context"

	"github.com/potatoland/potatoland/shared/domain"
)

func (s *Storage) User(ctx context.Context, id domain.UserId) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx, "SELECT id, email, name FROM users WHERE id = $1", id).Scan(&user.Id, &user.Email, &user.Name)
	if err != nil {
		return domain.User{}, translate(err, "User not found", "")
	}
	return user, nil
}

// SaveUser inserts a user or refreshes the name of an existing one with the same email.
func (s *Storage) SaveUser(ctx context.Context, email domain.Email, name string) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRowContext(ctx, `
	INSERT INTO users(email, name) VALUES($1, $2)
	ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
	RETURNING id`, email, name).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
