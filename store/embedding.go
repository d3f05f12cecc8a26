package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rushteam/shoprec/core"
)

// EmbeddingSet 是商品向量的内存存储，实现 core.EmbeddingStore。
// 向量由离线批任务预先计算，启动时一次性加载；加载完成后不可变，
// 并发读取无需加锁。
//
// tie-break 约定：IDs() 返回加载顺序（即工件文件中的顺序），
// 全库打分按此顺序遍历，同分候选保持此顺序（稳定排序），保证逐次运行结果一致。
type EmbeddingSet struct {
	ids     []int64
	index   map[int64]int // id -> 下标
	vectors [][]float64
	dim     int
}

// embeddingArtifact 是离线任务产出的向量工件格式：
// ids 与 embeddings 为等长的平行数组。
type embeddingArtifact struct {
	IDs        []int64     `json:"ids"`
	Embeddings [][]float64 `json:"embeddings"`
}

// LoadEmbeddingSet 从 JSON 工件加载向量存储。
// 工件缺失、损坏、平行数组长度不一致或维度不一致时返回 LOAD_FAILED 错误，
// 进程不应在该错误下开始对外服务。
func LoadEmbeddingSet(path string) (*EmbeddingSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loadErr(core.ModuleEmbedding, fmt.Sprintf("embedding: read artifact %s: %v", path, err))
	}

	var artifact embeddingArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, loadErr(core.ModuleEmbedding, fmt.Sprintf("embedding: parse artifact %s: %v", path, err))
	}

	return NewEmbeddingSet(artifact.IDs, artifact.Embeddings)
}

// NewEmbeddingSet 从平行数组构造向量存储（测试/内嵌数据场景）。
// 校验规则与 LoadEmbeddingSet 相同。
func NewEmbeddingSet(ids []int64, vectors [][]float64) (*EmbeddingSet, error) {
	if len(ids) != len(vectors) {
		return nil, loadErr(core.ModuleEmbedding,
			fmt.Sprintf("embedding: ids/vectors length mismatch: %d vs %d", len(ids), len(vectors)))
	}
	if len(ids) == 0 {
		return nil, loadErr(core.ModuleEmbedding, "embedding: artifact is empty")
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, loadErr(core.ModuleEmbedding, "embedding: zero-dimension vector")
	}

	index := make(map[int64]int, len(ids))
	order := make([]int64, 0, len(ids))
	for i, id := range ids {
		if len(vectors[i]) != dim {
			return nil, loadErr(core.ModuleEmbedding,
				fmt.Sprintf("embedding: vector for id %d has dimension %d, want %d", id, len(vectors[i]), dim))
		}
		// 重复 id 以先出现的为准；ids 同步去重，
		// 保证 IDs() 与索引一致，全库打分不会产出重复候选
		if _, dup := index[id]; !dup {
			index[id] = i
			order = append(order, id)
		}
	}

	return &EmbeddingSet{
		ids:     order,
		index:   index,
		vectors: vectors,
		dim:     dim,
	}, nil
}

func (s *EmbeddingSet) VectorFor(id int64) ([]float64, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.vectors[i], true
}

func (s *EmbeddingSet) Dimension() int { return s.dim }

func (s *EmbeddingSet) Len() int { return len(s.index) }

func (s *EmbeddingSet) IDs() []int64 { return s.ids }

var _ core.EmbeddingStore = (*EmbeddingSet)(nil)

func loadErr(module, msg string) error {
	return core.NewDomainError(module, core.ErrorCodeLoadFailed, msg)
}
