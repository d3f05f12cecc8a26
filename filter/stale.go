package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// StaleFilter 剔除向量存储中存在、但商品目录中已不存在的候选
// （例如商品已下架而离线向量工件尚未重建）。
// 这是非致命的数据不一致：静默跳过并可选计数，绝不中断请求。
type StaleFilter struct {
	Catalog core.CatalogIndex

	// OnStale 可选回调，用于观测/计数陈旧向量条目。
	// 回调在请求协程内同步执行，实现方需自行保证轻量与线程安全。
	OnStale func(id int64)
}

func (f *StaleFilter) Name() string {
	return "filter.stale"
}

func (f *StaleFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Catalog == nil {
		return false, nil
	}

	if _, ok := f.Catalog.Get(item.ID); !ok {
		if f.OnStale != nil {
			f.OnStale(item.ID)
		}
		return true, nil
	}
	return false, nil
}
