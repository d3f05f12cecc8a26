// Package store 包含各类存储实现，接口定义在 core 包。
//
// 两类存储：
//   - 领域存储：EmbeddingSet（core.EmbeddingStore）、Catalog（core.CatalogIndex）、
//     UserSnapshots（core.UserStore），启动时一次性加载，加载后只读
//   - 通用 KV：MemoryStore / RedisStore（core.Store / core.KeyValueStore），
//     用于曝光历史、黑名单、热门列表等可变数据
//
// 示例：
//
//	embeddings, err := store.LoadEmbeddingSet("data/product_embeddings.json")
//	catalog, err := store.LoadCatalog("data/products.json")
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store
