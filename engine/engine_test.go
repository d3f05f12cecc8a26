package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/store"
)

func int64Ptr(v int64) *int64 { return &v }

// 四个商品的固定向量：以 2 为种子时相似度排序为 2 > 3 > 1 > 4。
func testEmbeddings(t *testing.T) *store.EmbeddingSet {
	t.Helper()
	es, err := store.NewEmbeddingSet(
		[]int64{1, 2, 3, 4},
		[][]float64{
			{0.5, 0.866},
			{1.0, 0.0},
			{0.8, 0.6},
			{0.3, 0.954},
		},
	)
	if err != nil {
		t.Fatalf("NewEmbeddingSet: %v", err)
	}
	return es
}

func testCatalog() *store.Catalog {
	return store.NewCatalog([]*core.Product{
		{ID: 1, Name: "Wireless Earbuds", Category: "electronics"},
		{ID: 2, Name: "Mechanical Keyboard", Category: "electronics"},
		{ID: 3, Name: "Gaming Mouse", Category: "electronics"},
		{ID: 4, Name: "Thermos Bottle", Category: "home"},
	})
}

func testEngine(t *testing.T) *Engine {
	return &Engine{
		Embeddings: testEmbeddings(t),
		Catalog:    testCatalog(),
	}
}

func productIDs(ps []*core.Product) []int64 {
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestRecommend_Personalized(t *testing.T) {
	eng := testEngine(t)
	user := &core.User{ID: 42, LastViewedProductID: int64Ptr(2)}

	result, err := eng.Recommend(context.Background(), user, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if !result.Personalized() {
		t.Fatalf("Kind = %s, want personalized", result.Kind)
	}
	if result.Message != "" {
		t.Errorf("personalized result should carry no message, got %q", result.Message)
	}

	// 种子 2 剔除后，相似度排序为 3 > 1
	got := productIDs(result.Products)
	want := []int64{3, 1}
	if len(got) != len(want) {
		t.Fatalf("products = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("products = %v, want %v", got, want)
			break
		}
	}

	if len(result.SeedIDs) != 1 || result.SeedIDs[0] != 2 {
		t.Errorf("SeedIDs = %v, want [2]", result.SeedIDs)
	}
}

func TestRecommend_SeedNeverInResults(t *testing.T) {
	eng := testEngine(t)
	user := &core.User{ID: 42, LastViewedProductID: int64Ptr(2)}

	result, err := eng.Recommend(context.Background(), user, 4)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, p := range result.Products {
		if p.ID == 2 {
			t.Fatal("seed product appeared in results")
		}
	}
}

func TestRecommend_MultiSeed(t *testing.T) {
	eng := testEngine(t)
	user := &core.User{
		ID:                  42,
		LastViewedProductID: int64Ptr(2),
		PurchaseHistory:     []core.Purchase{{ProductID: 3, Date: "2025-06-01"}},
	}

	result, err := eng.Recommend(context.Background(), user, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	// 两个种子都被剔除，剩余候选只有 1 和 4
	got := productIDs(result.Products)
	if len(got) != 2 {
		t.Fatalf("products = %v, want 2 items", got)
	}
	for _, id := range got {
		if id == 2 || id == 3 {
			t.Errorf("seed %d appeared in results", id)
		}
	}
}

func TestRecommend_FallbackForNoHistory(t *testing.T) {
	eng := testEngine(t)
	user := &core.User{ID: 7}

	result, err := eng.Recommend(context.Background(), user, 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if result.Personalized() {
		t.Fatal("expected fallback result")
	}
	if result.Message != FallbackMessage {
		t.Errorf("Message = %q, want %q", result.Message, FallbackMessage)
	}
	if len(result.SeedIDs) != 0 {
		t.Errorf("fallback SeedIDs = %v, want empty", result.SeedIDs)
	}

	// 兜底返回目录顺序前 N 个
	got := productIDs(result.Products)
	want := []int64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fallback products = %v, want %v", got, want)
		}
	}
}

func TestRecommend_FallbackDeterministic(t *testing.T) {
	eng := testEngine(t)
	user := &core.User{ID: 7}

	first, err := eng.Recommend(context.Background(), user, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := eng.Recommend(context.Background(), user, 2)
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		a, b := productIDs(first.Products), productIDs(again.Products)
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("fallback not deterministic: %v vs %v", a, b)
			}
		}
	}
}

func TestRecommend_FewerThanTopN(t *testing.T) {
	eng := testEngine(t)
	user := &core.User{ID: 42, LastViewedProductID: int64Ptr(2)}

	// 只有 3 个非种子候选，请求 10 个
	result, err := eng.Recommend(context.Background(), user, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Products) != 3 {
		t.Errorf("products = %v, want 3 items", productIDs(result.Products))
	}
}

func TestRecommend_StaleEmbeddingSkipped(t *testing.T) {
	// 向量存储含 id 9，目录中不存在（商品下架而工件未重建）
	es, err := store.NewEmbeddingSet(
		[]int64{1, 2, 9},
		[][]float64{
			{0.5, 0.866},
			{1.0, 0.0},
			{0.99, 0.1},
		},
	)
	if err != nil {
		t.Fatalf("NewEmbeddingSet: %v", err)
	}

	var staleIDs []int64
	eng := &Engine{
		Embeddings: es,
		Catalog:    testCatalog(),
		OnStale:    func(id int64) { staleIDs = append(staleIDs, id) },
	}

	user := &core.User{ID: 42, LastViewedProductID: int64Ptr(2)}
	result, err := eng.Recommend(context.Background(), user, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, p := range result.Products {
		if p.ID == 9 {
			t.Fatal("stale product appeared in results")
		}
	}
	if len(staleIDs) != 1 || staleIDs[0] != 9 {
		t.Errorf("staleIDs = %v, want [9]", staleIDs)
	}
}

func TestRecommend_SeedWithoutEmbeddingProceeds(t *testing.T) {
	eng := testEngine(t)
	// 最近浏览的 99 没有向量，最近购买的 2 有：丢弃 99 照常推荐
	user := &core.User{
		ID:                  42,
		LastViewedProductID: int64Ptr(99),
		PurchaseHistory:     []core.Purchase{{ProductID: 2, Date: "2025-06-01"}},
	}

	result, err := eng.Recommend(context.Background(), user, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !result.Personalized() {
		t.Fatalf("Kind = %s, want personalized", result.Kind)
	}
	got := productIDs(result.Products)
	if len(got) != 2 || got[0] != 3 {
		t.Errorf("products = %v, want [3 1]", got)
	}
}

func TestRecommend_NoResolvableSeeds(t *testing.T) {
	eng := testEngine(t)
	user := &core.User{ID: 42, LastViewedProductID: int64Ptr(99)}

	_, err := eng.Recommend(context.Background(), user, 2)
	if !core.IsNoResolvableSeeds(err) {
		t.Errorf("expected ErrNoResolvableSeeds, got %v", err)
	}
}

func TestRecommend_NilUser(t *testing.T) {
	eng := testEngine(t)
	_, err := eng.Recommend(context.Background(), nil, 2)
	if err == nil {
		t.Fatal("expected error for nil user")
	}
	if de := core.GetDomainError(err); de == nil || de.Code != core.ErrorCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestRecommend_DefaultTopN(t *testing.T) {
	eng := testEngine(t)
	user := &core.User{ID: 42, LastViewedProductID: int64Ptr(2)}

	// topN <= 0 时取默认值 3
	result, err := eng.Recommend(context.Background(), user, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Products) != 3 {
		t.Errorf("products = %v, want 3 items", productIDs(result.Products))
	}
}

func TestRecommendByID(t *testing.T) {
	eng := testEngine(t)
	eng.Users = store.NewUserSnapshots([]*core.User{
		{ID: 42, LastViewedProductID: int64Ptr(2)},
	})

	result, err := eng.RecommendByID(context.Background(), 42, 2)
	if err != nil {
		t.Fatalf("RecommendByID: %v", err)
	}
	if !result.Personalized() {
		t.Errorf("Kind = %s, want personalized", result.Kind)
	}

	_, err = eng.RecommendByID(context.Background(), 999, 2)
	if !errors.Is(err, core.ErrUserNotFound) && !core.IsNotFound(err) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRecommendByID_NoUserStore(t *testing.T) {
	eng := testEngine(t)
	_, err := eng.RecommendByID(context.Background(), 42, 2)
	if de := core.GetDomainError(err); de == nil || de.Code != core.ErrorCodeNotSupported {
		t.Errorf("expected NOT_SUPPORTED, got %v", err)
	}
}

func TestRecommend_NoDuplicateProducts(t *testing.T) {
	// 离线工件含重复 id（2 出现两次）：加载期去重，
	// 推荐结果中同一商品绝不出现两次
	es, err := store.NewEmbeddingSet(
		[]int64{1, 2, 2, 3},
		[][]float64{
			{1.0, 0.0},
			{0.9, 0.1},
			{0.5, 0.5},
			{0.8, 0.2},
		},
	)
	if err != nil {
		t.Fatalf("NewEmbeddingSet: %v", err)
	}

	eng := &Engine{Embeddings: es, Catalog: testCatalog()}
	user := &core.User{ID: 42, LastViewedProductID: int64Ptr(1)}

	result, err := eng.Recommend(context.Background(), user, 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	seen := make(map[int64]int)
	for _, p := range result.Products {
		seen[p.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("product %d appears %d times in recommendations", id, n)
		}
	}
}

func TestRecommend_ExtraFilters(t *testing.T) {
	eng := testEngine(t)
	eng.Filters = []filter.Filter{
		&filter.SeenFilter{IDs: []int64{3}}, // 业务黑名单
	}
	user := &core.User{ID: 42, LastViewedProductID: int64Ptr(2)}

	result, err := eng.Recommend(context.Background(), user, 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, p := range result.Products {
		if p.ID == 3 {
			t.Fatal("blacklisted product appeared in results")
		}
	}
}
