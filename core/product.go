package core

// Product 是商品目录中的一条完整记录。
// 启动时从目录数据一次性加载，加载后只读，可被任意并发请求共享。
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`

	// 以下为展示属性，推荐核心不依赖它们，仅透传给调用方。
	Category string   `json:"category,omitempty"`
	Price    float64  `json:"price,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Purchase 是用户购买历史中的一条记录。
// 核心只关心 ProductID 与记录在序列中的位置（最后一条视为最近一次购买），
// Date 仅作展示/审计用途，排序不依赖它。
type Purchase struct {
	ProductID int64  `json:"product_id"`
	Date      string `json:"date,omitempty"`
}

// User 是推荐核心消费的用户快照（只读）。
// 用户记录由外部用户子系统拥有和变更；核心每次请求接收一份快照作为显式入参，
// 绝不通过任何全局状态或旁路查找获取。
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`

	// LastViewedProductID 是用户最近浏览的商品；nil 表示没有浏览记录。
	LastViewedProductID *int64 `json:"last_viewed_product_id"`

	// PurchaseHistory 按时间先后排列，最后一条为最近一次购买。
	PurchaseHistory []Purchase `json:"purchase_history"`
}

// HasHistory 判断用户是否存在任何可用于个性化的行为数据。
// false 表示请求应走兜底（fallback）路径，这是合法状态而非错误。
func (u *User) HasHistory() bool {
	if u == nil {
		return false
	}
	return u.LastViewedProductID != nil || len(u.PurchaseHistory) > 0
}
