package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/potatoland/potatoland/backend/internal/access"
	"github.com/potatoland/potatoland/shared/config"
	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/errors"
	"github.com/potatoland/potatoland/shared/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var invitationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "potatoland",
		Name:      "invitations_total",
		Help:      "Invitations by workflow step and outcome",
	},
	[]string{"step", "result"},
)

// to mock service in tests
type BoardService interface {
	Create(ctx context.Context, user domain.User, data domain.BoardCreationData) (*domain.Board, error)
	Update(ctx context.Context, user domain.User, id domain.BoardId, patch domain.BoardPatch) error
	Delete(ctx context.Context, user domain.User, id domain.BoardId) error
	Get(ctx context.Context, user domain.User, id domain.BoardId) (*domain.Board, error)
	Invite(ctx context.Context, user domain.User, id domain.BoardId, req domain.InviteRequest) error
	Confirm(ctx context.Context, token string) (domain.BoardId, error)
	UpdateMemberRole(ctx context.Context, user domain.User, id domain.BoardId, memberId domain.MembershipId, role domain.Role) error
	DeleteMember(ctx context.Context, user domain.User, id domain.BoardId, memberId domain.MembershipId) error
}

type Board struct {
	storage   BoardStorage
	validator BoardValidator
	codec     TokenCodec
	mailer    Mailer
	renderer  InviteRenderer
	cfg       *config.Public
}

type BoardStorage interface {
	// CreateBoard stores the board and the creator's admin membership atomically.
	CreateBoard(ctx context.Context, creator domain.UserId, data domain.BoardCreationData) (domain.BoardId, error)
	Board(ctx context.Context, id domain.BoardId) (*domain.Board, error)
	UpdateBoard(ctx context.Context, id domain.BoardId, patch domain.BoardPatch) error
	SoftDeleteBoard(ctx context.Context, id domain.BoardId) error
	BoardExists(ctx context.Context, id domain.BoardId) (bool, error)
	User(ctx context.Context, id domain.UserId) (domain.User, error)
	// SaveMembership returns a Conflict error if the user is already on the board.
	SaveMembership(ctx context.Context, boardId domain.BoardId, userId domain.UserId, role domain.Role) (domain.MembershipId, error)
	UpdateMembershipRole(ctx context.Context, boardId domain.BoardId, memberId domain.MembershipId, role domain.Role) error
	DeleteMembership(ctx context.Context, boardId domain.BoardId, memberId domain.MembershipId) error
}

type BoardValidator interface {
	Clean(s string) string
	Name(name string) error
	Description(description string) error
	BackgroundColor(color string) error
}

type TokenCodec interface {
	Sign(payload domain.InvitationPayload, expiresInHours int) (string, error)
	Verify(token string) (domain.InvitationPayload, error)
}

type Mailer interface {
	Send(recipientEmail, subject, htmlBody string) error
}

type InviteRenderer interface {
	Subject(boardId domain.BoardId) string
	Render(mail domain.InvitationMail) (string, error)
}

func NewBoard(storage BoardStorage, validator BoardValidator, codec TokenCodec, mailer Mailer, renderer InviteRenderer, cfg *config.Public) BoardService {
	return &Board{
		storage:   storage,
		validator: validator,
		codec:     codec,
		mailer:    mailer,
		renderer:  renderer,
		cfg:       cfg,
	}
}

func (b *Board) Create(ctx context.Context, user domain.User, data domain.BoardCreationData) (*domain.Board, error) {
	data.Name = b.validator.Clean(data.Name)
	data.Description = b.validator.Clean(data.Description)
	if data.Visibility == "" {
		data.Visibility = domain.VisibilityPrivate
	}
	if data.InvitePolicy == "" {
		data.InvitePolicy = domain.InviteAll
	}
	if err := b.validateFields(data.Name, data.Description, data.BackgroundColor, data.Visibility, data.InvitePolicy); err != nil {
		return nil, err
	}

	id, err := b.storage.CreateBoard(ctx, user.Id, data)
	if err != nil {
		return nil, err
	}
	logger.Board(id, user.Id).Info("board created")

	return b.storage.Board(ctx, id)
}

func (b *Board) Update(ctx context.Context, user domain.User, id domain.BoardId, patch domain.BoardPatch) error {
	board, err := b.storage.Board(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanModify(board, user.Id) {
		logger.Board(id, user.Id).Debug("board update denied")
		return errors.Forbidden("Only admins, members and guests can modify this board")
	}
	if patch.IsEmpty() {
		return errors.BadRequest("Nothing to update")
	}

	// validate the patched board as a whole
	if patch.Name != nil {
		name := b.validator.Clean(*patch.Name)
		patch.Name = &name
	}
	if patch.Description != nil {
		description := b.validator.Clean(*patch.Description)
		patch.Description = &description
	}
	name, color, description, visibility, policy := board.Name, board.BackgroundColor, board.Description, board.Visibility, board.InvitePolicy
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.BackgroundColor != nil {
		color = *patch.BackgroundColor
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.Visibility != nil {
		visibility = *patch.Visibility
	}
	if patch.InvitePolicy != nil {
		policy = *patch.InvitePolicy
	}
	if err := b.validateFields(name, description, color, visibility, policy); err != nil {
		return err
	}

	return b.storage.UpdateBoard(ctx, id, patch)
}

func (b *Board) Delete(ctx context.Context, user domain.User, id domain.BoardId) error {
	board, err := b.storage.Board(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanDelete(board, user.Id) {
		logger.Board(id, user.Id).Debug("board delete denied")
		return errors.Forbidden("Only the board creator can delete this board")
	}
	if err := b.storage.SoftDeleteBoard(ctx, id); err != nil {
		return err
	}
	logger.Board(id, user.Id).Info("board deleted")
	return nil
}

func (b *Board) Get(ctx context.Context, user domain.User, id domain.BoardId) (*domain.Board, error) {
	board, err := b.storage.Board(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanView(board, user.Id) {
		logger.Board(id, user.Id).Debug("board view denied")
		return nil, errors.Forbidden("This board is private")
	}
	return board, nil
}

func (b *Board) Invite(ctx context.Context, user domain.User, id domain.BoardId, req domain.InviteRequest) error {
	if req.ExpiresInHours < 1 || req.ExpiresInHours > b.cfg.InviteMaxHours {
		return errors.BadRequest(fmt.Sprintf("expiresIn must be between 1 and %d hours", b.cfg.InviteMaxHours))
	}

	board, err := b.storage.Board(ctx, id)
	if err != nil {
		return err
	}
	inviter := board.Member(user.Id)
	// membership of a board is only disclosed to those allowed to invite to it
	if err := access.CheckInviter(board, inviter); err != nil {
		logger.Board(id, user.Id).Debug("invite denied", "error", err)
		invitationsTotal.WithLabelValues("invite", "denied").Inc()
		return err
	}
	if access.IsMember(board, req.UserId) {
		return errors.Forbidden("User is already a member of this board")
	}
	if err := access.CheckInvite(board, inviter, req.Role); err != nil {
		logger.Board(id, user.Id).Debug("invite denied", "error", err)
		invitationsTotal.WithLabelValues("invite", "denied").Inc()
		return err
	}
	role := access.ResolveInviteRole(inviter, req.Role)

	invitee, err := b.storage.User(ctx, req.UserId)
	if err != nil {
		return err
	}

	token, err := b.codec.Sign(domain.InvitationPayload{UserId: invitee.Id, Role: role, BoardId: id}, req.ExpiresInHours)
	if err != nil {
		return err
	}
	body, err := b.renderer.Render(domain.InvitationMail{
		BoardId:        id,
		BoardName:      board.Name,
		InviterName:    inviter.User.Name,
		Role:           role,
		Link:           b.confirmLink(token),
		ExpiresInHours: req.ExpiresInHours,
	})
	if err != nil {
		return err
	}
	if err := b.mailer.Send(invitee.Email, b.renderer.Subject(id), body); err != nil {
		logger.Log.Error("failed to send invitation", "board_id", id, "user_id", invitee.Id, "error", err)
		invitationsTotal.WithLabelValues("invite", "mail_failed").Inc()
		return errors.BadGateway("Failed to send invitation email")
	}

	invitationsTotal.WithLabelValues("invite", "sent").Inc()
	logger.Log.Info("invitation sent", "board_id", id, "user_id", invitee.Id, "role", role)
	return nil
}

func (b *Board) Confirm(ctx context.Context, token string) (domain.BoardId, error) {
	payload, err := b.codec.Verify(token)
	if err != nil {
		logger.Log.Debug("invitation token rejected", "error", err)
		invitationsTotal.WithLabelValues("confirm", "invalid_token").Inc()
		return 0, errors.Unauthorized("invalid token")
	}
	if !payload.Role.IsValid() {
		logger.Log.Debug("invitation token carries unknown role", "role", payload.Role)
		return 0, errors.Unauthorized("invalid token")
	}

	if _, err := b.storage.User(ctx, payload.UserId); err != nil {
		return 0, err
	}
	exists, err := b.storage.BoardExists(ctx, payload.BoardId)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, errors.NotFound("Board not found")
	}

	if _, err := b.storage.SaveMembership(ctx, payload.BoardId, payload.UserId, payload.Role); err != nil {
		if errors.IsConflict(err) {
			invitationsTotal.WithLabelValues("confirm", "conflict").Inc()
		}
		return 0, err
	}

	invitationsTotal.WithLabelValues("confirm", "accepted").Inc()
	logger.Board(payload.BoardId, payload.UserId).Info("invitation accepted", "role", payload.Role)
	return payload.BoardId, nil
}

func (b *Board) UpdateMemberRole(ctx context.Context, user domain.User, id domain.BoardId, memberId domain.MembershipId, role domain.Role) error {
	board, err := b.storage.Board(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanChangeRole(board, user.Id) {
		logger.Board(id, user.Id).Debug("role change denied")
		return errors.Forbidden("Only board admins can change roles")
	}
	target := board.MemberById(memberId)
	if target == nil {
		return errors.NotFound("Member not found")
	}
	if !role.IsValid() {
		return errors.BadRequest(fmt.Sprintf("Unknown role '%s'", role))
	}
	if !access.KeepsAdmin(board, target, role) {
		return errors.Forbidden("A board must keep at least one admin")
	}

	return b.storage.UpdateMembershipRole(ctx, id, memberId, role)
}

func (b *Board) DeleteMember(ctx context.Context, user domain.User, id domain.BoardId, memberId domain.MembershipId) error {
	board, err := b.storage.Board(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanChangeRole(board, user.Id) {
		logger.Board(id, user.Id).Debug("member removal denied")
		return errors.Forbidden("Only board admins can remove members")
	}
	target := board.MemberById(memberId)
	if target == nil {
		return errors.NotFound("Member not found")
	}
	if !access.CanRemoveMember(board, user.Id, target) {
		return errors.Forbidden("Admins cannot be removed from a board")
	}

	return b.storage.DeleteMembership(ctx, id, memberId)
}

func (b *Board) validateFields(name, description, color string, visibility domain.Visibility, policy domain.InvitePolicy) error {
	if err := b.validator.Name(name); err != nil {
		return err
	}
	if err := b.validator.Description(description); err != nil {
		return err
	}
	if err := b.validator.BackgroundColor(color); err != nil {
		return err
	}
	if !visibility.IsValid() {
		return errors.BadRequest(fmt.Sprintf("Unknown visibility '%s'", visibility))
	}
	if !policy.IsValid() {
		return errors.BadRequest(fmt.Sprintf("Unknown invite option '%s'", policy))
	}
	return nil
}

func (b *Board) confirmLink(token string) string {
	return strings.TrimRight(b.cfg.PublicBaseURL, "/") + "/api/board/confirm?token=" + url.QueryEscape(token)
}
