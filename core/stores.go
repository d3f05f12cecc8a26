package core

import "context"

// EmbeddingStore 是商品向量存储的领域接口。
//
// 向量由离线批任务预先计算（训练/编码不在本模块范围内），
// 进程启动时一次性加载，加载后不可变，因此并发读取无需任何锁。
//
// 不变式：
//   - 所有向量维度一致（加载时校验）
//   - EmbeddingStore 中的每个 ID 理应也存在于 CatalogIndex；
//     违反时下游按 stale 跳过，绝不崩溃
//
// 实现：
//   - store.EmbeddingSet 实现此接口（JSON 工件 / 内存构造）
type EmbeddingStore interface {
	// VectorFor 返回商品 id 对应的向量；不存在时 ok 为 false。
	VectorFor(id int64) (vec []float64, ok bool)

	// Dimension 返回向量维度（所有向量一致）。
	Dimension() int

	// Len 返回向量条数。
	Len() int

	// IDs 返回按加载顺序排列的全部商品 ID。
	// 该顺序是全库打分的遍历顺序，也是同分 tie-break 的依据。
	IDs() []int64
}

// CatalogIndex 是商品目录的领域接口。
// 启动时一次性加载，加载后只读。
//
// 实现：
//   - store.Catalog 实现此接口
type CatalogIndex interface {
	// Get 按 id 查询商品；不存在时 ok 为 false。
	Get(id int64) (p *Product, ok bool)

	// All 返回按数据源顺序排列的全部商品。
	// 该顺序同时是无历史用户兜底推荐的确定性顺序。
	All() []*Product

	// Len 返回商品条数。
	Len() int
}

// UserStore 是用户快照的领域接口。
// 用户记录由外部子系统拥有；此接口只提供只读快照（demo 模式 / 测试）。
// 生产环境下调用方通常直接携带 User 快照调用 Engine.Recommend，
// 不经过 UserStore。
//
// 实现：
//   - store.UserSnapshots 实现此接口
type UserStore interface {
	// ByID 返回用户快照；用户不存在时返回 ErrUserNotFound。
	ByID(ctx context.Context, id int64) (*User, error)

	// All 返回全部用户快照（demo 模式用）。
	All(ctx context.Context) ([]*User, error)
}
