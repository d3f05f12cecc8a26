package core

// ResultKind 区分个性化结果与兜底结果。
// 这是对调用方可见的契约：两种结果的语义不同，不能混淆。
type ResultKind string

const (
	// ResultPersonalized 表示基于用户种子的个性化结果。
	ResultPersonalized ResultKind = "personalized"

	// ResultFallback 表示用户无任何历史时的兜底结果（目录顺序前 N 个）。
	ResultFallback ResultKind = "fallback"
)

// RecommendResult 是一次推荐请求的最终输出。
type RecommendResult struct {
	// Kind 标记结果类型（personalized / fallback）。
	Kind ResultKind `json:"kind"`

	// Message 仅在兜底结果中携带给调用方的说明文案。
	Message string `json:"message,omitempty"`

	// Products 是按推荐顺序排列的完整商品记录，长度 <= 请求的 top_n。
	Products []*Product `json:"products"`

	// SeedIDs 是本次请求实际使用的种子序列（explain 用途；兜底时为空）。
	SeedIDs []int64 `json:"seed_ids,omitempty"`
}

// Personalized 判断结果是否为个性化结果。
func (r *RecommendResult) Personalized() bool {
	return r != nil && r.Kind == ResultPersonalized
}
