package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// SeenFilter 剔除用户已交互过的商品：本次请求的种子（最近浏览/最近购买）
// 与自身的相似度恒为 1，必排在候选列表最前面，必须剔除。
// 种子永远不会出现在最终推荐结果中，即使它们是得分最高的候选。
//
// 额外的静态排除列表（IDs）可用于黑名单场景。
type SeenFilter struct {
	// ExcludeSeeds 为 true 时剔除 rctx.SeedIDs 中的商品（默认用法）。
	ExcludeSeeds bool

	// IDs 是静态排除列表（可选，黑名单等）。
	IDs []int64
}

// NewSeenFilter 创建一个剔除种子的过滤器（最常见用法）。
func NewSeenFilter() *SeenFilter {
	return &SeenFilter{ExcludeSeeds: true}
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	if f.ExcludeSeeds && rctx != nil && rctx.IsSeed(item.ID) {
		return true, nil
	}

	for _, id := range f.IDs {
		if item.ID == id {
			return true, nil
		}
	}

	return false, nil
}
