package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/potatoland/potatoland/backend/internal/service"
	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/logger"
	"github.com/redis/go-redis/v9"
)

// Cache wraps a BoardStorage with a Redis read-through cache of board snapshots.
// Every mutation of a board or its memberships bumps the board's generation and
// evicts its entry. A snapshot is only written back if the generation it was
// read under is still current, so a read that overlaps a write never caches
// the pre-write membership.
type Cache struct {
	service.BoardStorage
	redis *redis.Client
	ttl   time.Duration
}

func New(base service.BoardStorage, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("cache.New: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{BoardStorage: base, redis: client, ttl: ttl}
}

func (c *Cache) Board(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	if board, ok := c.load(ctx, id); ok {
		return board, nil
	}

	// read the generation before the snapshot, never after
	gen, cacheable := c.generation(ctx, id)
	board, err := c.BoardStorage.Board(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheable {
		c.store(ctx, board, gen)
	}
	return board, nil
}

func (c *Cache) UpdateBoard(ctx context.Context, id domain.BoardId, patch domain.BoardPatch) error {
	defer c.evict(ctx, id)
	return c.BoardStorage.UpdateBoard(ctx, id, patch)
}

func (c *Cache) SoftDeleteBoard(ctx context.Context, id domain.BoardId) error {
	defer c.evict(ctx, id)
	return c.BoardStorage.SoftDeleteBoard(ctx, id)
}

func (c *Cache) SaveMembership(ctx context.Context, boardId domain.BoardId, userId domain.UserId, role domain.Role) (domain.MembershipId, error) {
	defer c.evict(ctx, boardId)
	return c.BoardStorage.SaveMembership(ctx, boardId, userId, role)
}

func (c *Cache) UpdateMembershipRole(ctx context.Context, boardId domain.BoardId, memberId domain.MembershipId, role domain.Role) error {
	defer c.evict(ctx, boardId)
	return c.BoardStorage.UpdateMembershipRole(ctx, boardId, memberId, role)
}

func (c *Cache) DeleteMembership(ctx context.Context, boardId domain.BoardId, memberId domain.MembershipId) error {
	defer c.evict(ctx, boardId)
	return c.BoardStorage.DeleteMembership(ctx, boardId, memberId)
}

func (c *Cache) load(ctx context.Context, id domain.BoardId) (*domain.Board, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, boardKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing storage without failing.
			logger.Log.Warn("board cache read failed", "board_id", id, "error", err)
		}
		return nil, false
	}
	var board domain.Board
	if err := json.Unmarshal(data, &board); err != nil {
		c.evict(ctx, id)
		return nil, false
	}
	return &board, true
}

var errStaleGeneration = errors.New("board generation changed")

func (c *Cache) generation(ctx context.Context, id domain.BoardId) (string, bool) {
	if c.redis == nil || c.ttl == 0 {
		return "", false
	}
	gen, err := c.redis.Get(ctx, generationKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Log.Warn("board cache generation read failed", "board_id", id, "error", err)
		return "", false
	}
	return gen, true
}

// store writes board under WATCH on its generation key, so a concurrent evict
// either aborts the write or runs after it.
func (c *Cache) store(ctx context.Context, board *domain.Board, gen string) {
	data, err := json.Marshal(board)
	if err != nil {
		return
	}

	genKey := generationKey(board.Id)
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, boardKey(board.Id), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		logger.Log.Debug("board cache write skipped, snapshot is stale", "board_id", board.Id)
	default:
		logger.Log.Warn("board cache write failed", "board_id", board.Id, "error", err)
	}
}

func (c *Cache) evict(ctx context.Context, id domain.BoardId) {
	if c.redis == nil {
		return
	}
	// the request context may already be done after a slow write
	ctx = context.WithoutCancel(ctx)
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(id))
		pipe.Del(ctx, boardKey(id))
		return nil
	})
	if err != nil {
		logger.Log.Warn("board cache eviction failed", "board_id", id, "error", err)
	}
}

func boardKey(id domain.BoardId) string {
	return "board:" + strconv.FormatInt(id, 10)
}

func generationKey(id domain.BoardId) string {
	return "board:" + strconv.FormatInt(id, 10) + ":gen"
}
