package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/estatekit/core"
)

// RedisStore 是 Redis 实现的 ListingStore，多实例共享同一份房源数据时使用。
// 房源以 JSON 存在 hash 中，另用一个 zset 记录插入顺序（score 为自增序号），
// 保证 All 的返回顺序与写入顺序一致。
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 连接 Redis 并返回 ListingStore。
// prefix 用于隔离多套部署的 key 空间，例如 "estatekit:"。
func NewRedisStore(addr string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) hashKey() string  { return r.prefix + "listings" }
func (r *RedisStore) orderKey() string { return r.prefix + "listings:order" }
func (r *RedisStore) seqKey() string   { return r.prefix + "listings:seq" }

// Add 写入房源；ID 已存在时覆盖内容，保持原有顺序。
func (r *RedisStore) Add(ctx context.Context, l *core.Listing) error {
	if l == nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: nil listing")
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}
	field := strconv.FormatInt(l.ID, 10)
	exists, err := r.client.HExists(ctx, r.hashKey(), field).Result()
	if err != nil {
		return err
	}
	if !exists {
		seq, err := r.client.Incr(ctx, r.seqKey()).Result()
		if err != nil {
			return err
		}
		if err := r.client.ZAdd(ctx, r.orderKey(), redis.Z{Score: float64(seq), Member: field}).Err(); err != nil {
			return err
		}
	}
	return r.client.HSet(ctx, r.hashKey(), field, data).Err()
}

func (r *RedisStore) Remove(ctx context.Context, id int64) error {
	field := strconv.FormatInt(id, 10)
	n, err := r.client.HDel(ctx, r.hashKey(), field).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrListingNotFound
	}
	return r.client.ZRem(ctx, r.orderKey(), field).Err()
}

func (r *RedisStore) Get(ctx context.Context, id int64) (*core.Listing, error) {
	field := strconv.FormatInt(id, 10)
	data, err := r.client.HGet(ctx, r.hashKey(), field).Bytes()
	if err == redis.Nil {
		return nil, core.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	var l core.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshal listing %d: %w", id, err)
	}
	return &l, nil
}

func (r *RedisStore) All(ctx context.Context) ([]*core.Listing, error) {
	// zset 按 score 升序即插入顺序
	fields, err := r.client.ZRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	vals, err := r.client.HMGet(ctx, r.hashKey(), fields...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*core.Listing, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var l core.Listing
		if err := json.Unmarshal([]byte(s), &l); err != nil {
			return nil, fmt.Errorf("unmarshal listing: %w", err)
		}
		out = append(out, &l)
	}
	return out, nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := r.client.HLen(ctx, r.hashKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ core.ListingStore = (*RedisStore)(nil)
