package service

import (
	"context"
	"sync"
	"time"

	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/errors"
)

// memStore is an in-memory BoardStorage that enforces the same
// uniqueness and soft delete rules as the Postgres store.
type memStore struct {
	mu          sync.Mutex
	users       map[domain.UserId]domain.User
	boards      map[domain.BoardId]*domain.Board
	deleted     map[domain.BoardId]bool
	nextBoard   domain.BoardId
	nextMember  domain.MembershipId
	failOnBoard error
}

func newMemStore(users ...domain.User) *memStore {
	s := &memStore{
		users:   make(map[domain.UserId]domain.User),
		boards:  make(map[domain.BoardId]*domain.Board),
		deleted: make(map[domain.BoardId]bool),
	}
	for _, u := range users {
		s.users[u.Id] = u
	}
	return s
}

func (s *memStore) CreateBoard(ctx context.Context, creator domain.UserId, data domain.BoardCreationData) (domain.BoardId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[creator]
	if !ok {
		return 0, errors.NotFound("User not found")
	}
	s.nextBoard++
	s.nextMember++
	now := time.Now()
	s.boards[s.nextBoard] = &domain.Board{
		Id:              s.nextBoard,
		Name:            data.Name,
		BackgroundColor: data.BackgroundColor,
		Description:     data.Description,
		Visibility:      data.Visibility,
		InvitePolicy:    data.InvitePolicy,
		CreatedBy:       user,
		Members:         []domain.Membership{{Id: s.nextMember, BoardId: s.nextBoard, User: user, Role: domain.RoleAdmin}},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.nextBoard, nil
}

func (s *memStore) Board(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOnBoard != nil {
		return nil, s.failOnBoard
	}
	board, ok := s.boards[id]
	if !ok || s.deleted[id] {
		return nil, errors.NotFound("Board not found")
	}
	snapshot := *board
	snapshot.Members = append([]domain.Membership(nil), board.Members...)
	return &snapshot, nil
}

func (s *memStore) UpdateBoard(ctx context.Context, id domain.BoardId, patch domain.BoardPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	board, ok := s.boards[id]
	if !ok || s.deleted[id] {
		return errors.NotFound("Board not found")
	}
	if patch.Name != nil {
		board.Name = *patch.Name
	}
	if patch.BackgroundColor != nil {
		board.BackgroundColor = *patch.BackgroundColor
	}
	if patch.Description != nil {
		board.Description = *patch.Description
	}
	if patch.Visibility != nil {
		board.Visibility = *patch.Visibility
	}
	if patch.InvitePolicy != nil {
		board.InvitePolicy = *patch.InvitePolicy
	}
	board.UpdatedAt = time.Now()
	return nil
}

func (s *memStore) SoftDeleteBoard(ctx context.Context, id domain.BoardId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[id]; !ok || s.deleted[id] {
		return errors.NotFound("Board not found")
	}
	s.deleted[id] = true
	return nil
}

func (s *memStore) BoardExists(ctx context.Context, id domain.BoardId) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.boards[id]
	return ok && !s.deleted[id], nil
}

func (s *memStore) User(ctx context.Context, id domain.UserId) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, errors.NotFound("User not found")
	}
	return user, nil
}

func (s *memStore) SaveMembership(ctx context.Context, boardId domain.BoardId, userId domain.UserId, role domain.Role) (domain.MembershipId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	board, ok := s.boards[boardId]
	if !ok || s.deleted[boardId] {
		return 0, errors.NotFound("Board not found")
	}
	if board.Member(userId) != nil {
		return 0, errors.Conflict("User is already a member of this board")
	}
	s.nextMember++
	board.Members = append(board.Members, domain.Membership{Id: s.nextMember, BoardId: boardId, User: s.users[userId], Role: role})
	return s.nextMember, nil
}

func (s *memStore) UpdateMembershipRole(ctx context.Context, boardId domain.BoardId, memberId domain.MembershipId, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	board, ok := s.boards[boardId]
	if !ok {
		return errors.NotFound("Board not found")
	}
	m := board.MemberById(memberId)
	if m == nil {
		return errors.NotFound("Member not found")
	}
	if m.Role == domain.RoleAdmin && role != domain.RoleAdmin && board.Admins() < 2 {
		return errors.Forbidden("A board must keep at least one admin")
	}
	m.Role = role
	return nil
}

func (s *memStore) DeleteMembership(ctx context.Context, boardId domain.BoardId, memberId domain.MembershipId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	board, ok := s.boards[boardId]
	if !ok {
		return errors.NotFound("Board not found")
	}
	for i := range board.Members {
		if board.Members[i].Id == memberId {
			if board.Members[i].Role == domain.RoleAdmin {
				return errors.Forbidden("Admins cannot be removed from a board")
			}
			board.Members = append(board.Members[:i], board.Members[i+1:]...)
			return nil
		}
	}
	return errors.NotFound("Member not found")
}

// role returns the current role of userId on board id, or "" if absent.
func (s *memStore) role(id domain.BoardId, userId domain.UserId) domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.boards[id].Member(userId); m != nil {
		return m.Role
	}
	return ""
}

func (s *memStore) memberId(id domain.BoardId, userId domain.UserId) domain.MembershipId {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.boards[id].Member(userId); m != nil {
		return m.Id
	}
	return 0
}
