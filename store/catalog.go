package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rushteam/shoprec/core"
)

// Catalog 是商品目录的内存索引，实现 core.CatalogIndex。
// 启动时从商品数据一次性加载；加载后只读，并发访问无需加锁。
// All() 保持数据源顺序，该顺序同时是无历史用户兜底推荐的确定性顺序。
type Catalog struct {
	order []*core.Product
	byID  map[int64]*core.Product
}

// LoadCatalog 从 JSON 文件加载商品目录（文件为商品对象数组）。
// 文件缺失或损坏时返回 LOAD_FAILED 错误，进程不应在该错误下开始对外服务。
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loadErr(core.ModuleCatalog, fmt.Sprintf("catalog: read %s: %v", path, err))
	}

	var products []*core.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, loadErr(core.ModuleCatalog, fmt.Sprintf("catalog: parse %s: %v", path, err))
	}

	return NewCatalog(products), nil
}

// NewCatalog 从商品列表构造目录索引（测试/内嵌数据场景）。
// 重复 id 以先出现的为准。
func NewCatalog(products []*core.Product) *Catalog {
	c := &Catalog{
		order: make([]*core.Product, 0, len(products)),
		byID:  make(map[int64]*core.Product, len(products)),
	}
	for _, p := range products {
		if p == nil {
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = p
		c.order = append(c.order, p)
	}
	return c
}

func (c *Catalog) Get(id int64) (*core.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) All() []*core.Product { return c.order }

func (c *Catalog) Len() int { return len(c.order) }

var _ core.CatalogIndex = (*Catalog)(nil)
