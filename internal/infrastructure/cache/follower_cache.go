package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/community"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errStaleFill = errors.New("follower set changed during load")

// emptyMember marks a cached follower set that is known to be empty;
// Redis drops sets without members.
const emptyMember = "-"

// CachedFollowRepository mirrors the storefront -> followers reverse index in
// Redis sets. Writes go to the wrapped repository first and then drop the
// cached set. Redis failures fall back to the wrapped repository.
//
// Every invalidation also bumps a per-storefront generation counter. A fill
// only lands when the generation it read before loading from the database is
// still current, so a reader that loaded before a follow committed can never
// put the older follower set back.
type CachedFollowRepository struct {
	community.FollowRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// Add stores the edge and invalidates the storefront's follower set
func (r *CachedFollowRepository) Add(ctx context.Context, edge community.FollowEdge) (bool, error) {
	added, err := r.FollowRepository.Add(ctx, edge)
	if err != nil {
		return false, err
	}
	if added {
		r.invalidate(ctx, edge.StorefrontID)
	}
	return added, nil
}

// Remove deletes the edge and invalidates the storefront's follower set
func (r *CachedFollowRepository) Remove(ctx context.Context, followerID, storefrontID uuid.UUID) (bool, error) {
	removed, err := r.FollowRepository.Remove(ctx, followerID, storefrontID)
	if err != nil {
		return false, err
	}
	if removed {
		r.invalidate(ctx, storefrontID)
	}
	return removed, nil
}

// FollowersOf serves the follower set from Redis, loading it on a miss
func (r *CachedFollowRepository) FollowersOf(ctx context.Context, storefrontID uuid.UUID) ([]uuid.UUID, error) {
	key := followersKey(storefrontID)

	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		r.logger.Warn("follower cache read failed", zap.String("key", key), zap.Error(err))
		return r.FollowRepository.FollowersOf(ctx, storefrontID)
	}
	if len(members) > 0 {
		return parseMembers(members), nil
	}

	genKey := generationKey(storefrontID)
	gen, err := r.generation(ctx, r.client, genKey)
	if err != nil {
		r.logger.Warn("follower cache generation read failed", zap.String("key", genKey), zap.Error(err))
		return r.FollowRepository.FollowersOf(ctx, storefrontID)
	}

	followers, err := r.FollowRepository.FollowersOf(ctx, storefrontID)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, storefrontID, gen, followers)
	return followers, nil
}

// fill writes the loaded set unless an invalidation ran since gen was read
func (r *CachedFollowRepository) fill(ctx context.Context, storefrontID uuid.UUID, gen int64, followers []uuid.UUID) {
	key, genKey := followersKey(storefrontID), generationKey(storefrontID)
	members := make([]interface{}, 0, len(followers)+1)
	members = append(members, emptyMember)
	for _, id := range followers {
		members = append(members, id.String())
	}

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.generation(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.SAdd(ctx, key, members...)
			pipe.Expire(ctx, key, r.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		r.logger.Debug("follower cache fill skipped, set changed during load", zap.String("key", key))
	default:
		r.logger.Warn("follower cache fill failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedFollowRepository) generation(ctx context.Context, c redis.Cmdable, genKey string) (int64, error) {
	gen, err := c.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *CachedFollowRepository) invalidate(ctx context.Context, storefrontID uuid.UUID) {
	key := followersKey(storefrontID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(storefrontID))
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		r.logger.Warn("follower cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func followersKey(storefrontID uuid.UUID) string {
	return KeyPrefix + "followers:" + storefrontID.String()
}

func generationKey(storefrontID uuid.UUID) string {
	return KeyPrefix + "followers-gen:" + storefrontID.String()
}

// parseMembers skips the empty marker and anything that is not a UUID
func parseMembers(members []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if m == emptyMember {
			continue
		}
		if id, err := uuid.Parse(m); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

var _ community.FollowRepository = (*CachedFollowRepository)(nil)
