package core

import "github.com/rushteam/shoprec/pkg/utils"

// RecommendContext 承载一次推荐请求的上下文，贯穿整个 Pipeline 透传。
//
// User 是本次请求的用户快照，必须由调用方显式传入。
// 核心不做任何用户记录的旁路查找（全局变量 / 隐式重载都不允许），
// 这使得链路天然可测试、线程安全。
type RecommendContext struct {
	UserID int64
	Scene  string

	// User 是只读的用户快照，来源于外部用户子系统。
	User *User

	// SeedIDs 是本次请求的种子商品序列（浏览优先，其次最近购买），
	// 由种子选择阶段写入，召回与过滤阶段读取。
	// 顺序只影响下游 tie-break 的可复现性，不参与加权。
	SeedIDs []int64

	// Labels 是请求级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（如 scene、device_type、实验参数等）。
	Params map[string]any
}

// IsSeed 判断商品是否在本次请求的种子序列中。
func (rctx *RecommendContext) IsSeed(id int64) bool {
	for _, sid := range rctx.SeedIDs {
		if sid == id {
			return true
		}
	}
	return false
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
