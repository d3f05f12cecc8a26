package filter

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rushteam/shoprec/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
//
// 曝光历史支持两种存放形式：
//   - KeyValueStore 有序集合：member 为商品 ID，score 为曝光时间戳（推荐，
//     支持时间窗口截断，由 RecordExposure 写入）
//   - 普通 key：JSON int64 数组（简单场景，不支持时间窗口）
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetExposedItems 从 Store 读取用户曝光历史。
func (a *StoreAdapter) GetExposedItems(ctx context.Context, userID int64, keyPrefix string, timeWindow int64) ([]int64, error) {
	if a.store == nil {
		return nil, nil
	}
	key := exposedKey(keyPrefix, userID)

	// 优先走有序集合：score 为曝光时间戳，可按窗口截断
	if kv, ok := a.store.(core.KeyValueStore); ok {
		members, err := kv.ZRange(ctx, key, 0, -1)
		if err == nil && len(members) > 0 {
			cutoff := time.Now().Unix() - timeWindow
			ids := make([]int64, 0, len(members))
			for _, m := range members {
				id, perr := strconv.ParseInt(m, 10, 64)
				if perr != nil {
					continue
				}
				if timeWindow > 0 {
					ts, serr := kv.ZScore(ctx, key, m)
					if serr == nil && int64(ts) < cutoff {
						continue
					}
				}
				ids = append(ids, id)
			}
			return ids, nil
		}
	}

	// 普通 key：JSON int64 数组
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

var _ ExposedStore = (*StoreAdapter)(nil)
