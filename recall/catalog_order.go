package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// CatalogOrder 是兜底召回源：用户没有任何可用种子时，
// 按商品目录的数据源顺序返回前 TopN 个商品（确定性兜底）。
//
// 可选地，可以用 KeyValueStore 中的热门列表覆盖目录顺序：
//   - Store 实现 KeyValueStore 时，用 ZRange 读取有序集合（按热度分数降序）
//   - 热门列表为空或读取失败时，回退到目录顺序
//
// CatalogOrder 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type CatalogOrder struct {
	Catalog core.CatalogIndex

	// Store/Key 可选：热门商品有序集合，例如 key 为 "hot:products"。
	// 生产环境通常由离线任务定期更新。
	Store core.Store
	Key   string

	// TopN 返回条数，<= 0 时使用默认值。
	TopN int

	// IDs 纯内存 fallback 列表（无目录、无 Store 时的最后手段，测试用）。
	IDs []int64
}

func (r *CatalogOrder) Name() string        { return "recall.catalog_order" }
func (r *CatalogOrder) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *CatalogOrder) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *CatalogOrder) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	topN := r.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	var ids []int64

	// 优先从 Store 读取热门列表（有序集合，按分数降序）
	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(core.KeyValueStore); ok {
			members, err := kvStore.ZRange(ctx, r.Key, 0, int64(topN)-1)
			if err == nil && len(members) > 0 {
				ids = make([]int64, 0, len(members))
				for _, m := range members {
					if id, err := strconv.ParseInt(m, 10, 64); err == nil {
						ids = append(ids, id)
					}
				}
			}
		}
	}

	// 目录顺序兜底
	if len(ids) == 0 && r.Catalog != nil {
		for _, p := range r.Catalog.All() {
			ids = append(ids, p.ID)
			if len(ids) == topN {
				break
			}
		}
	}

	// 最后手段：内存列表
	if len(ids) == 0 {
		ids = r.IDs
		if len(ids) > topN {
			ids = ids[:topN]
		}
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: "catalog_order", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
