package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 支持超时、限流、优先级合并策略。
//
// 典型用法：embedding 相似召回 + 目录兜底召回并发执行，
// priority 策略保证个性化候选优先。
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy string        // 合并策略：first / union / priority（优先级按 Sources 顺序）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	type sourceResult struct {
		priority int
		items    []*core.Item
	}

	var (
		mu      sync.Mutex
		results []sourceResult
		eg, _   = errgroup.WithContext(ctx)
	)

	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		s := src
		priority := i // 优先级（索引越小优先级越高）

		eg.Go(func() error {
			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时返回空结果，不中断其他召回源
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, it := range items {
				it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
			}

			mu.Lock()
			results = append(results, sourceResult{priority: priority, items: items})
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 按优先级（Sources 顺序）排列结果，保证合并的确定性
	ordered := make([][]*core.Item, len(n.Sources))
	for _, r := range results {
		ordered[r.priority] = r.items
	}

	switch n.MergeStrategy {
	case "union":
		return n.mergeUnion(ordered), nil
	case "priority", "first", "":
		fallthrough
	default:
		// priority 与 first 等价：按 Sources 顺序保留首次出现的 ID
		return n.mergeFirst(ordered), nil
	}
}

// mergeFirst 按 Sources 顺序拼接，按 ID 去重，保留第一个出现的。
func (n *Fanout) mergeFirst(ordered [][]*core.Item) []*core.Item {
	if !n.Dedup {
		return n.mergeUnion(ordered)
	}
	seen := make(map[int64]*core.Item)
	var out []*core.Item
	for _, items := range ordered {
		for _, it := range items {
			if it == nil {
				continue
			}
			if old, ok := seen[it.ID]; ok {
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID] = it
			out = append(out, it)
		}
	}
	return out
}

// mergeUnion 合并所有结果，不去重（用于需要保留所有来源的场景）。
func (n *Fanout) mergeUnion(ordered [][]*core.Item) []*core.Item {
	var out []*core.Item
	for _, items := range ordered {
		out = append(out, items...)
	}
	return out
}
