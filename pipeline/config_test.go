package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/shoprec/core"
)

const testYAML = `
pipeline:
  name: test-pipeline
  nodes:
    - type: noop
      config:
        n: 3
`

type noopNode struct {
	n int
}

func (n *noopNode) Name() string { return "noop" }
func (n *noopNode) Kind() Kind   { return KindPostProcess }
func (n *noopNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return items, nil
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if cfg.Pipeline.Name != "test-pipeline" {
		t.Errorf("Name = %q", cfg.Pipeline.Name)
	}
	if len(cfg.Pipeline.Nodes) != 1 || cfg.Pipeline.Nodes[0].Type != "noop" {
		t.Fatalf("Nodes = %+v", cfg.Pipeline.Nodes)
	}
}

func TestBuildPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}

	factory := NewNodeFactory()
	factory.Register("noop", func(config map[string]interface{}) (Node, error) {
		return &noopNode{}, nil
	})

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 1 {
		t.Fatalf("Nodes = %d, want 1", len(p.Nodes))
	}

	out, err := p.Run(context.Background(), &core.RecommendContext{}, []*core.Item{core.NewItem(1)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Errorf("Run output = %v", out)
	}
}

func TestBuildPipeline_UnknownType(t *testing.T) {
	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "unknown"}}

	_, err := cfg.BuildPipeline(NewNodeFactory())
	if err == nil {
		t.Fatal("expected error for unknown node type")
	}
}
