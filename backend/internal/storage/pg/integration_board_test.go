package pg

import (
	"net/http"
	"testing"

	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBoard(t *testing.T) {
	creator := createTestUser(t, "creator")

	t.Run("creator becomes admin", func(t *testing.T) {
		id, err := storage.CreateBoard(t.Context(), creator.Id, domain.BoardCreationData{
			Name:            "Roadmap",
			BackgroundColor: "#00FF00",
			Description:     "Q3",
			Visibility:      domain.VisibilityPublic,
			InvitePolicy:    domain.InviteAdminOnly,
		})
		require.NoError(t, err)

		board, err := storage.Board(t.Context(), id)
		require.NoError(t, err)
		assert.Equal(t, "Roadmap", board.Name)
		assert.Equal(t, "#00FF00", board.BackgroundColor)
		assert.Equal(t, "Q3", board.Description)
		assert.Equal(t, domain.VisibilityPublic, board.Visibility)
		assert.Equal(t, domain.InviteAdminOnly, board.InvitePolicy)
		assert.Equal(t, creator, board.CreatedBy)
		require.Len(t, board.Members, 1)
		assert.Equal(t, creator, board.Members[0].User)
		assert.Equal(t, domain.RoleAdmin, board.Members[0].Role)
		assert.Equal(t, id, board.Members[0].BoardId)
	})

	t.Run("unknown creator", func(t *testing.T) {
		_, err := storage.CreateBoard(t.Context(), 987654321, domain.BoardCreationData{Name: "x", Visibility: domain.VisibilityPrivate, InvitePolicy: domain.InviteAll})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, errors.StatusCode(err))
	})
}

func TestBoardSnapshot(t *testing.T) {
	creator := createTestUser(t, "creator")
	member := createTestUser(t, "member")
	observer := createTestUser(t, "observer")
	id := createTestBoard(t, creator)

	_, err := storage.SaveMembership(t.Context(), id, member.Id, domain.RoleMember)
	require.NoError(t, err)
	_, err = storage.SaveMembership(t.Context(), id, observer.Id, domain.RoleObserver)
	require.NoError(t, err)

	board, err := storage.Board(t.Context(), id)
	require.NoError(t, err)
	require.Len(t, board.Members, 3)
	assert.Equal(t, domain.RoleMember, board.Member(member.Id).Role)
	assert.Equal(t, observer.Email, board.Member(observer.Id).User.Email)
	assert.Equal(t, 1, board.Admins())

	_, err = storage.Board(t.Context(), 987654321)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateBoard(t *testing.T) {
	creator := createTestUser(t, "creator")
	id := createTestBoard(t, creator)
	before, err := storage.Board(t.Context(), id)
	require.NoError(t, err)

	name := "Renamed"
	public := domain.VisibilityPublic
	require.NoError(t, storage.UpdateBoard(t.Context(), id, domain.BoardPatch{Name: &name, Visibility: &public}))

	after, err := storage.Board(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", after.Name)
	assert.Equal(t, domain.VisibilityPublic, after.Visibility)
	assert.Equal(t, before.Description, after.Description)
	assert.Equal(t, domain.InviteAll, after.InvitePolicy)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))

	err = storage.UpdateBoard(t.Context(), 987654321, domain.BoardPatch{Name: &name})
	assert.True(t, errors.IsNotFound(err))
}

func TestSoftDeleteBoard(t *testing.T) {
	creator := createTestUser(t, "creator")
	id := createTestBoard(t, creator)

	require.NoError(t, storage.SoftDeleteBoard(t.Context(), id))

	_, err := storage.Board(t.Context(), id)
	assert.True(t, errors.IsNotFound(err))
	exists, err := storage.BoardExists(t.Context(), id)
	require.NoError(t, err)
	assert.False(t, exists)

	name := "late"
	assert.True(t, errors.IsNotFound(storage.UpdateBoard(t.Context(), id, domain.BoardPatch{Name: &name})))
	assert.True(t, errors.IsNotFound(storage.SoftDeleteBoard(t.Context(), id)))

	other := createTestUser(t, "other")
	_, err = storage.SaveMembership(t.Context(), id, other.Id, domain.RoleGuest)
	assert.True(t, errors.IsNotFound(err))
}
