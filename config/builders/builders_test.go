package builders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/shoprec/config"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/store"
)

const testYAML = `
pipeline:
  name: fallback
  nodes:
    - type: recall.catalog_order
      config:
        ids: [1, 2, 3, 4, 5]
        top_n: 5
    - type: filter
      config:
        filters:
          - type: seen
            exclude_seeds: true
    - type: rerank.topn
      config:
        n: 3
`

func TestConfigDrivenPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig: %v", err)
	}

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}

	rctx := &core.RecommendContext{UserID: 42, SeedIDs: []int64{2}}
	items, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 召回 5 个，种子 2 被剔除，截断到 3 个
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	want := []int64{1, 3, 4}
	for i, it := range items {
		if it.ID != want[i] {
			t.Errorf("items[%d].ID = %d, want %d", i, it.ID, want[i])
		}
	}
}

func TestUseStore_HotListFromConfig(t *testing.T) {
	ctx := context.Background()

	memStore := store.NewMemoryStore()
	defer memStore.Close()
	memStore.ZAdd(ctx, "hot:products", 100, "30")
	memStore.ZAdd(ctx, "hot:products", 90, "10")
	memStore.ZAdd(ctx, "hot:products", 80, "20")

	// 注入存储后，配置里的热榜 key 才会生效
	UseStore(memStore)
	t.Cleanup(func() { UseStore(nil) })

	node, err := BuildCatalogOrderNode(map[string]interface{}{
		"key":   "hot:products",
		"top_n": 2,
	})
	if err != nil {
		t.Fatalf("BuildCatalogOrderNode: %v", err)
	}

	items, err := node.Process(ctx, &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	got := make([]int64, 0, len(items))
	for _, it := range items {
		got = append(got, it.ID)
	}
	// 热榜按分数降序截断到 top_n
	if len(got) != 2 || got[0] != 30 || got[1] != 10 {
		t.Errorf("got %v, want [30 10]", got)
	}
}

func TestCatalogOrderNode_NoStoreFallsBackToIDs(t *testing.T) {
	node, err := BuildCatalogOrderNode(map[string]interface{}{
		"ids":   []interface{}{7, 8},
		"key":   "hot:products",
		"top_n": 2,
	})
	if err != nil {
		t.Fatalf("BuildCatalogOrderNode: %v", err)
	}

	items, err := node.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(items) != 2 || items[0].ID != 7 || items[1].ID != 8 {
		t.Errorf("expected static ids fallback when no store injected, got %v", items)
	}
}

func TestSupportedTypes(t *testing.T) {
	types := config.SupportedTypes()
	want := map[string]bool{
		"recall.fanout":        false,
		"recall.catalog_order": false,
		"recall.embedding":     false,
		"filter":               false,
		"rerank.topn":          false,
	}
	for _, typ := range types {
		if _, ok := want[typ]; ok {
			want[typ] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Errorf("type %q not registered", typ)
		}
	}
}

func TestBuildEmbeddingNodeRequiresStore(t *testing.T) {
	if _, err := BuildEmbeddingNode(nil); err == nil {
		t.Fatal("expected error: embedding recall requires a store")
	}
}

func TestValidatePipelineConfig_Unsupported(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "rank.xgboost"}}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Fatal("expected error for unsupported node type")
	}
}
