package pg

import (
	"net/http"
	"testing"

	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveMembership(t *testing.T) {
	creator := createTestUser(t, "creator")
	invitee := createTestUser(t, "invitee")
	id := createTestBoard(t, creator)

	memberId, err := storage.SaveMembership(t.Context(), id, invitee.Id, domain.RoleGuest)
	require.NoError(t, err)
	assert.Positive(t, memberId)

	t.Run("second insert for the same user conflicts", func(t *testing.T) {
		_, err := storage.SaveMembership(t.Context(), id, invitee.Id, domain.RoleAdmin)
		require.Error(t, err)
		assert.True(t, errors.IsConflict(err))

		board, err := storage.Board(t.Context(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleGuest, board.Member(invitee.Id).Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := storage.SaveMembership(t.Context(), id, 987654321, domain.RoleGuest)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("unknown board", func(t *testing.T) {
		_, err := storage.SaveMembership(t.Context(), 987654321, invitee.Id, domain.RoleGuest)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestUpdateMembershipRole(t *testing.T) {
	creator := createTestUser(t, "creator")
	member := createTestUser(t, "member")
	id := createTestBoard(t, creator)
	otherBoard := createTestBoard(t, creator)
	memberId, err := storage.SaveMembership(t.Context(), id, member.Id, domain.RoleMember)
	require.NoError(t, err)

	require.NoError(t, storage.UpdateMembershipRole(t.Context(), id, memberId, domain.RoleObserver))
	board, err := storage.Board(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleObserver, board.Member(member.Id).Role)

	// membership ids are scoped to their board
	err = storage.UpdateMembershipRole(t.Context(), otherBoard, memberId, domain.RoleAdmin)
	assert.True(t, errors.IsNotFound(err))
}

func TestDeleteMembership(t *testing.T) {
	creator := createTestUser(t, "creator")
	member := createTestUser(t, "member")
	id := createTestBoard(t, creator)
	memberId, err := storage.SaveMembership(t.Context(), id, member.Id, domain.RoleMember)
	require.NoError(t, err)

	require.NoError(t, storage.DeleteMembership(t.Context(), id, memberId))
	board, err := storage.Board(t.Context(), id)
	require.NoError(t, err)
	assert.Nil(t, board.Member(member.Id))

	assert.True(t, errors.IsNotFound(storage.DeleteMembership(t.Context(), id, memberId)))

	// a removed member can be invited again
	_, err = storage.SaveMembership(t.Context(), id, member.Id, domain.RoleGuest)
	require.NoError(t, err)
}

func TestMembershipKeepsAdmins(t *testing.T) {
	creator := createTestUser(t, "creator")
	second := createTestUser(t, "second")
	id := createTestBoard(t, creator)
	secondId, err := storage.SaveMembership(t.Context(), id, second.Id, domain.RoleMember)
	require.NoError(t, err)

	board, err := storage.Board(t.Context(), id)
	require.NoError(t, err)
	creatorId := board.Member(creator.Id).Id

	t.Run("admin membership is never deleted", func(t *testing.T) {
		err := storage.DeleteMembership(t.Context(), id, creatorId)
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))

		board, err := storage.Board(t.Context(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, board.Member(creator.Id).Role)
	})

	t.Run("last admin is not demoted", func(t *testing.T) {
		err := storage.UpdateMembershipRole(t.Context(), id, creatorId, domain.RoleMember)
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
	})

	t.Run("promoted member is protected", func(t *testing.T) {
		require.NoError(t, storage.UpdateMembershipRole(t.Context(), id, secondId, domain.RoleAdmin))

		// a caller still holding the snapshot where second was a member
		err := storage.DeleteMembership(t.Context(), id, secondId)
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
	})

	t.Run("one of two admins can step down", func(t *testing.T) {
		require.NoError(t, storage.UpdateMembershipRole(t.Context(), id, creatorId, domain.RoleMember))

		err := storage.UpdateMembershipRole(t.Context(), id, secondId, domain.RoleGuest)
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
	})
}

func TestUser(t *testing.T) {
	u := createTestUser(t, "someone")

	got, err := storage.User(t.Context(), u.Id)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = storage.User(t.Context(), 987654321)
	assert.True(t, errors.IsNotFound(err))

	// saving the same email again keeps the id
	id, err := storage.SaveUser(t.Context(), u.Email, "renamed")
	require.NoError(t, err)
	assert.Equal(t, u.Id, id)
}
