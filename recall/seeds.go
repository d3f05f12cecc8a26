package recall

import "github.com/rushteam/shoprec/core"

// SelectSeeds 从用户快照推导种子商品序列。
//
// 规则：
//   - last_viewed_product_id 存在时作为第一个种子
//   - purchase_history 非空时，取最后一条记录的 product_id 作为种子
//     （序列末位即最近一次购买，不依赖 Date 字段）
//
// 返回序列允许重复（最近浏览与最近购买可能是同一商品），
// 顺序只影响下游 tie-break 的可复现性，不参与加权。
// 空序列是合法状态，表示该用户无法个性化，应走兜底路径。
func SelectSeeds(user *core.User) []int64 {
	if user == nil {
		return nil
	}

	seeds := make([]int64, 0, 2)
	if user.LastViewedProductID != nil {
		seeds = append(seeds, *user.LastViewedProductID)
	}
	if n := len(user.PurchaseHistory); n > 0 {
		seeds = append(seeds, user.PurchaseHistory[n-1].ProductID)
	}
	return seeds
}
