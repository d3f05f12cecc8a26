// Package engine 是推荐流程的组装层：种子选择 -> 召回 -> 过滤 -> 截断 -> 商品还原。
//
// Engine 对外只有两个入口：
//   - Recommend：调用方自带用户快照（生产形态）
//   - RecommendByID：经 UserStore 解析用户快照（demo / 测试形态）
//
// 结果契约：
//   - 有种子的用户走个性化路径，返回 ResultPersonalized
//   - 无任何历史的用户走兜底路径，返回 ResultFallback（目录顺序前 N 个 + 文案）
//   - 有历史但种子全部解析不到向量时返回 core.ErrNoResolvableSeeds，
//     不降级为兜底：这是数据不一致，静默兜底会掩盖问题
package engine

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

// FallbackMessage 是兜底结果携带的说明文案。
const FallbackMessage = "No user history found. Showing popular items."

// Engine 把各领域组件组装为完整的推荐服务。
// 零值不可用：Embeddings 与 Catalog 必须注入。
type Engine struct {
	// Embeddings 是商品向量存储（启动时加载，只读）。
	Embeddings core.EmbeddingStore

	// Catalog 是商品目录（启动时加载，只读），
	// 同时承担候选还原与兜底推荐的数据源。
	Catalog core.CatalogIndex

	// Users 是可选的用户快照存储，仅 RecommendByID 使用。
	Users core.UserStore

	// TopN 是默认推荐条数，请求未指定时生效；<= 0 时取 recall.DefaultTopN。
	TopN int

	// Filters 是追加在内置过滤器（种子剔除、陈旧剔除）之后的业务过滤器，
	// 如 RuleFilter、ExposedFilter。
	Filters []filter.Filter

	// Scene 写入 RecommendContext.Scene，供规则过滤等按场景分流。
	Scene string

	// OnStale 可选回调，观测陈旧向量条目（目录中已不存在的商品）。
	OnStale func(id int64)
}

// Recommend 为给定用户快照生成推荐。
// topN <= 0 时使用 Engine.TopN（再退到 recall.DefaultTopN）。
func (e *Engine) Recommend(ctx context.Context, user *core.User, topN int) (*core.RecommendResult, error) {
	if user == nil {
		return nil, core.NewDomainError(core.ModuleUser, core.ErrorCodeInvalidInput, "engine: user snapshot is required")
	}
	topN = e.resolveTopN(topN)

	seeds := recall.SelectSeeds(user)
	if len(seeds) == 0 {
		return e.fallback(topN), nil
	}

	rctx := &core.RecommendContext{
		UserID:  user.ID,
		Scene:   e.Scene,
		User:    user,
		SeedIDs: seeds,
	}

	items, err := e.buildPipeline(topN).Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	return &core.RecommendResult{
		Kind:     core.ResultPersonalized,
		Products: e.hydrate(items),
		SeedIDs:  seeds,
	}, nil
}

// RecommendByID 按用户 ID 解析快照后生成推荐。
// 需要注入 Users；用户不存在时返回 core.ErrUserNotFound。
func (e *Engine) RecommendByID(ctx context.Context, userID int64, topN int) (*core.RecommendResult, error) {
	if e.Users == nil {
		return nil, core.NewDomainError(core.ModuleUser, core.ErrorCodeNotSupported, "engine: user store is not configured")
	}
	user, err := e.Users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.Recommend(ctx, user, topN)
}

func (e *Engine) resolveTopN(topN int) int {
	if topN > 0 {
		return topN
	}
	if e.TopN > 0 {
		return e.TopN
	}
	return recall.DefaultTopN
}

// buildPipeline 组装个性化路径的 Node 链：
// 向量召回（超取）-> 过滤（种子/陈旧/业务）-> Top-N 截断。
func (e *Engine) buildPipeline(topN int) *pipeline.Pipeline {
	filters := make([]filter.Filter, 0, 2+len(e.Filters))
	filters = append(filters,
		filter.NewSeenFilter(),
		&filter.StaleFilter{Catalog: e.Catalog, OnStale: e.OnStale},
	)
	filters = append(filters, e.Filters...)

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.EmbeddingRecall{Store: e.Embeddings, TopN: topN},
			&filter.FilterNode{Filters: filters},
			&rerank.TopNNode{N: topN},
		},
	}
}

// fallback 返回目录顺序前 N 个商品（确定性兜底）。
func (e *Engine) fallback(topN int) *core.RecommendResult {
	var products []*core.Product
	if e.Catalog != nil {
		all := e.Catalog.All()
		if len(all) > topN {
			all = all[:topN]
		}
		products = append(products, all...)
	}
	return &core.RecommendResult{
		Kind:     core.ResultFallback,
		Message:  FallbackMessage,
		Products: products,
	}
}

// hydrate 将候选 ID 还原为完整商品记录。
// 陈旧候选已在过滤阶段剔除，这里查不到属于防御，直接跳过。
func (e *Engine) hydrate(items []*core.Item) []*core.Product {
	products := make([]*core.Product, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if p, ok := e.Catalog.Get(it.ID); ok {
			products = append(products, p)
		}
	}
	return products
}
