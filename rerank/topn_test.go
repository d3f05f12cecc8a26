package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
)

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		in      int
		wantLen int
	}{
		{"truncate", 2, 5, 2},
		{"fewer than n", 10, 3, 3},
		{"zero keeps all", 0, 4, 4},
		{"negative keeps all", -1, 4, 4},
		{"exact", 3, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]*core.Item, 0, tt.in)
			for i := 0; i < tt.in; i++ {
				in = append(in, core.NewItem(int64(i+1)))
			}

			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), nil, in)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(out) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(out), tt.wantLen)
			}
			// 截断保持原有顺序
			for i, it := range out {
				if it.ID != int64(i+1) {
					t.Errorf("out[%d].ID = %d, want %d", i, it.ID, i+1)
				}
			}
		})
	}
}
