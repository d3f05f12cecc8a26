package filter

import (
	"context"
	"strconv"

	"github.com/rushteam/shoprec/core"
)

// ExposedFilter 是已曝光过滤器，过滤掉近期已经推荐/展示过的商品，
// 避免同一用户反复看到相同结果。
//
// 曝光历史存放在 KV 存储中（MemoryStore 开发用，RedisStore 生产用），
// key 为 {KeyPrefix}:{UserID}。读取失败时放行候选：曝光过滤是体验优化，
// 不能因为存储抖动而让请求失败。
type ExposedFilter struct {
	// Store 用于从存储中读取用户曝光历史
	Store ExposedStore

	// KeyPrefix 是 Store 中的 key 前缀，实际 key 为 {KeyPrefix}:{UserID}
	KeyPrefix string

	// TimeWindow 是曝光时间窗口（秒），只剔除窗口内曝光过的商品。
	// 0 表示不限窗口。
	TimeWindow int64
}

// ExposedStore 是曝光历史存储接口。
type ExposedStore interface {
	// GetExposedItems 获取用户在指定时间窗口内已曝光的商品 ID 列表
	GetExposedItems(ctx context.Context, userID int64, keyPrefix string, timeWindow int64) ([]int64, error)
}

// NewExposedFilter 创建一个已曝光过滤器。
func NewExposedFilter(storeAdapter *StoreAdapter, keyPrefix string, timeWindow int64) *ExposedFilter {
	var store ExposedStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &ExposedFilter{
		Store:      store,
		KeyPrefix:  keyPrefix,
		TimeWindow: timeWindow,
	}
}

func (f *ExposedFilter) Name() string {
	return "filter.exposed"
}

func (f *ExposedFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.UserID == 0 {
		return false, nil
	}
	if f.Store == nil {
		return false, nil
	}

	keyPrefix := f.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "user:exposed"
	}

	exposedIDs, err := f.Store.GetExposedItems(ctx, rctx.UserID, keyPrefix, f.TimeWindow)
	if err != nil {
		return false, nil
	}
	for _, id := range exposedIDs {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// RecordExposure 是写入侧辅助：把一次推荐结果记入曝光历史（zset，score 为时间戳）。
// 通常在调用方返回结果后异步调用。
func RecordExposure(ctx context.Context, kv core.KeyValueStore, keyPrefix string, userID int64, productIDs []int64, now int64) error {
	if kv == nil || len(productIDs) == 0 {
		return nil
	}
	key := exposedKey(keyPrefix, userID)
	for _, id := range productIDs {
		if err := kv.ZAdd(ctx, key, float64(now), strconv.FormatInt(id, 10)); err != nil {
			return err
		}
	}
	return nil
}

func exposedKey(keyPrefix string, userID int64) string {
	if keyPrefix == "" {
		keyPrefix = "user:exposed"
	}
	return keyPrefix + ":" + strconv.FormatInt(userID, 10)
}
