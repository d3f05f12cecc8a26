package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的业务规则过滤器。
// 表达式对每个候选求值，结果为 true 时过滤该候选。
//
// 示例：
//   - `item.meta.category == "banned"` → 过滤指定类目
//   - `item.score < 0.2` → 过滤低相关候选
//   - `label.recall_source == "catalog_order"` → 过滤所有兜底候选
type RuleFilter struct {
	// Expr 是 CEL 表达式，返回值必须是布尔类型。
	// 空表达式不过滤任何候选。
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}

	matched, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		// 表达式错误不应放大为请求失败；FilterNode 会跳过出错的过滤器
		return false, err
	}
	return matched, nil
}
