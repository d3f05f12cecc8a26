package recall

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// EmbeddingRecall 是基于商品向量的相似度召回源。
//
// 核心思想："用户刚浏览/购买过某些商品，推荐在向量空间中与之相近的商品"
//
// 算法：
//  1. 将 rctx.SeedIDs 逐个解析为向量；解析不到的种子静默丢弃，
//     一个都解析不到时返回 core.ErrNoResolvableSeeds（由调用方决定报错还是兜底）
//  2. 对向量存储中的每个商品，计算与每个种子向量的余弦相似度
//  3. 多种子按算术平均聚合（浏览/购买同权，不区分种子类型）
//  4. 按聚合分降序排序；同分保持向量存储的加载顺序（稳定排序），
//     逐次运行结果一致
//  5. 超取 TopN+len(seeds) 个候选：种子与自身相似度恒为 1 必然排在前面，
//     超取保证下游剔除种子后仍能填满 TopN
//
// EmbeddingRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type EmbeddingRecall struct {
	Store core.EmbeddingStore

	// TopN 是最终期望返回的推荐条数；召回阶段会超取 TopN+len(seeds)。
	// <= 0 时使用默认值 3。
	TopN int
}

// DefaultTopN 是未显式指定时的推荐条数。
const DefaultTopN = 3

func (r *EmbeddingRecall) Name() string        { return "recall.embedding" }
func (r *EmbeddingRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *EmbeddingRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *EmbeddingRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Store == nil || rctx == nil {
		return nil, nil
	}

	seeds := rctx.SeedIDs
	if len(seeds) == 0 {
		// 无种子不是错误：表示无法个性化，由调用方走兜底路径
		return nil, nil
	}

	// 1. 解析种子向量；解析不到的静默丢弃
	seedVecs := make([][]float64, 0, len(seeds))
	for _, id := range seeds {
		if vec, ok := r.Store.VectorFor(id); ok {
			seedVecs = append(seedVecs, vec)
		}
	}
	if len(seedVecs) == 0 {
		return nil, core.ErrNoResolvableSeeds
	}

	// 2+3. 全库打分：对每个商品求与各种子的余弦相似度的算术平均。
	// 遍历顺序 = 向量存储加载顺序，也是同分 tie-break 的依据。
	ids := r.Store.IDs()
	scored := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		vec, ok := r.Store.VectorFor(id)
		if !ok {
			continue
		}
		var sum float64
		for _, sv := range seedVecs {
			sum += cosineSimilarity(sv, vec)
		}
		it := core.NewItem(id)
		it.Score = sum / float64(len(seedVecs))
		scored = append(scored, it)
	}

	// 4. 稳定排序：同分保持存储加载顺序
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	// 5. 超取 TopN+len(seeds)
	topN := r.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	limit := topN + len(seeds)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	for _, it := range scored {
		it.PutLabel("recall_source", utils.Label{Value: "embedding", Source: "recall"})
		it.PutLabel("seed_count", utils.Label{Value: fmt.Sprintf("%d", len(seedVecs)), Source: "recall"})
	}

	return scored, nil
}

// cosineSimilarity 计算两个向量的余弦相似度：dot(a,b) / (|a|*|b|)。
// 任一向量模长为 0 时定义为 0；维度不一致时按较短长度计算（加载期已校验，防御性处理）。
func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
