package recall

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

func TestCatalogOrder_CatalogOrder(t *testing.T) {
	catalog := store.NewCatalog([]*core.Product{
		{ID: 10}, {ID: 20}, {ID: 30}, {ID: 40},
	})

	r := &CatalogOrder{Catalog: catalog, TopN: 3}
	items, err := r.Recall(context.Background(), nil)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}

	got := itemIDs(items)
	want := []int64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}

	lbl, ok := items[0].Labels["recall_source"]
	if !ok || lbl.Value != "catalog_order" {
		t.Errorf("recall_source label = %+v", lbl)
	}
}

func TestCatalogOrder_HotListOverridesCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := store.NewCatalog([]*core.Product{{ID: 10}, {ID: 20}})

	memStore := store.NewMemoryStore()
	defer memStore.Close()
	memStore.ZAdd(ctx, "hot:products", 100, "20")
	memStore.ZAdd(ctx, "hot:products", 90, "10")

	r := &CatalogOrder{Catalog: catalog, Store: memStore, Key: "hot:products", TopN: 2}
	items, err := r.Recall(ctx, nil)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}

	got := itemIDs(items)
	// 热榜按分数降序：20 优先
	if len(got) != 2 || got[0] != 20 || got[1] != 10 {
		t.Errorf("got %v, want [20 10]", got)
	}
}

func TestCatalogOrder_StaticIDsFallback(t *testing.T) {
	r := &CatalogOrder{IDs: []int64{7, 8, 9, 10}, TopN: 2}
	items, err := r.Recall(context.Background(), nil)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	got := itemIDs(items)
	if len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Errorf("got %v, want [7 8]", got)
	}
}
