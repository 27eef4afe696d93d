package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// Cached keeps players' best records in redis in front of another
// ResultStore. Redis failures fall through to the wrapped store.
//
// Every insert bumps a per-key generation before deleting the cached
// record. A read only caches what it loaded if the generation is still
// the one it saw before going to the wrapped store.
type Cached struct {
	ResultStore

	rdb *redis.Client
	ttl time.Duration
}

func NewCached(next ResultStore, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{ResultStore: next, rdb: rdb, ttl: ttl}
}

var errStaleRead = errors.New("generation changed during read")

type cachedBest struct {
	Best  Best `json:"best"`
	Found bool `json:"found"`
}

func minesweeperKey(player uuid.UUID) string {
	return "voxelsweep:best:minesweeper:" + player.String()
}

func streakKey(player uuid.UUID) string {
	return "voxelsweep:best:rsg:" + player.String()
}

func (c *Cached) InsertMinesweeper(ctx context.Context, result MinesweeperResult) (int64, error) {
	n, err := c.ResultStore.InsertMinesweeper(ctx, result)
	if err == nil {
		c.invalidate(ctx, minesweeperKey(result.Player))
	}
	return n, err
}

func (c *Cached) InsertSequence(ctx context.Context, result SequenceResult) (int64, error) {
	n, err := c.ResultStore.InsertSequence(ctx, result)
	if err == nil {
		c.invalidate(ctx, streakKey(result.Player))
	}
	return n, err
}

func generationKey(key string) string {
	return key + ":gen"
}

func (c *Cached) BestMinesweeper(ctx context.Context, player uuid.UUID) (Best, bool, error) {
	key := minesweeperKey(player)

	var cached cachedBest
	if c.get(ctx, key, &cached) {
		return cached.Best, cached.Found, nil
	}

	gen, genOK := c.generation(ctx, key)
	best, found, err := c.ResultStore.BestMinesweeper(ctx, player)
	if err != nil {
		return best, found, err
	}
	if genOK {
		c.setIfCurrent(ctx, key, gen, cachedBest{Best: best, Found: found})
	}
	return best, found, nil
}

func (c *Cached) HighestStreak(ctx context.Context, player uuid.UUID) (int, bool, error) {
	key := streakKey(player)

	var cached cachedBest
	if c.get(ctx, key, &cached) {
		return cached.Best.Ticks, cached.Found, nil
	}

	gen, genOK := c.generation(ctx, key)
	streak, found, err := c.ResultStore.HighestStreak(ctx, player)
	if err != nil {
		return streak, found, err
	}
	// The streak rides in the Ticks field of the cached record.
	if genOK {
		c.setIfCurrent(ctx, key, gen, cachedBest{Best: Best{Ticks: streak}, Found: found})
	}
	return streak, found, nil
}

func (c *Cached) get(ctx context.Context, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).WithField("key", key).Debug("redis get failed")
		}
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (c *Cached) generation(ctx context.Context, key string) (int64, bool) {
	gen, err := c.rdb.Get(ctx, generationKey(key)).Int64()
	switch {
	case err == redis.Nil:
		return 0, true
	case err != nil:
		log.WithError(err).WithField("key", key).Debug("redis generation read failed")
		return 0, false
	}
	return gen, true
}

// setIfCurrent caches value under key unless an insert bumped the key's
// generation since gen was read.
func (c *Cached) setIfCurrent(ctx context.Context, key string, gen int64, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	genKey := generationKey(key)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return errStaleRead
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleRead), errors.Is(err, redis.TxFailedErr):
		log.WithField("key", key).Debug("skipped caching a stale read")
	default:
		log.WithError(err).WithField("key", key).Debug("redis set failed")
	}
}

func (c *Cached) invalidate(ctx context.Context, key string) {
	genKey := generationKey(key)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, c.ttl+time.Minute)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("redis invalidate failed")
	}
}
