package builders

import (
	"fmt"
	"sync"
	"time"

	"github.com/rushteam/shoprec/config"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

func init() {
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("recall.catalog_order", BuildCatalogOrderNode)
	config.Register("recall.embedding", BuildEmbeddingNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
}

var (
	storeMu      sync.RWMutex
	defaultStore core.Store
)

// UseStore 注入配置驱动构建时使用的 KV 存储。
// YAML 只能表达 key/窗口等标量，存储句柄必须在代码中注入一次：
// recall.catalog_order 的热榜 key 与 filter 的 exposed 曝光历史都依赖它。
// 未注入时，热榜 key 不生效（回退目录/静态列表），曝光过滤放行所有候选。
func UseStore(s core.Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	defaultStore = s
}

func configuredStore() core.Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return defaultStore
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "catalog_order":
			ids := conv.SliceAnyToInt64(sourceMap["ids"])
			if ids == nil {
				ids = []int64{}
			}
			sources = append(sources, &recall.CatalogOrder{
				IDs:   ids,
				Store: configuredStore(),
				Key:   conv.ConfigGet(sourceMap, "key", ""),
				TopN:  int(conv.ConfigGetInt64(sourceMap, "top_n", 0)),
			})
		case "embedding":
			// EmbeddingRecall 需注入 core.EmbeddingStore，暂不支持从配置构建
			return nil, fmt.Errorf("embedding source requires an embedding store, construct recall.EmbeddingRecall in code")
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", true),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	fanout.MergeStrategy = conv.ConfigGet(cfg, "merge_strategy", "first")
	return fanout, nil
}

func BuildCatalogOrderNode(cfg map[string]interface{}) (pipeline.Node, error) {
	ids := conv.SliceAnyToInt64(cfg["ids"])
	if ids == nil {
		ids = []int64{}
	}
	return &recall.CatalogOrder{
		IDs:   ids,
		Store: configuredStore(),
		Key:   conv.ConfigGet(cfg, "key", ""),
		TopN:  int(conv.ConfigGetInt64(cfg, "top_n", 0)),
	}, nil
}

func BuildEmbeddingNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return nil, fmt.Errorf("recall.embedding requires an embedding store, construct recall.EmbeddingRecall in code (supported: %v)", config.SupportedTypes())
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "seen":
			ids := conv.SliceAnyToInt64(filterMap["item_ids"])
			filters = append(filters, &filter.SeenFilter{
				ExcludeSeeds: conv.ConfigGet(filterMap, "exclude_seeds", true),
				IDs:          ids,
			})
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter requires expr")
			}
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		case "exposed":
			keyPrefix := conv.ConfigGet(filterMap, "key_prefix", "")
			timeWindow := conv.ConfigGetInt64(filterMap, "time_window", 0)
			var adapter *filter.StoreAdapter
			if s := configuredStore(); s != nil {
				adapter = filter.NewStoreAdapter(s)
			}
			filters = append(filters, filter.NewExposedFilter(adapter, keyPrefix, timeWindow))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: int(conv.ConfigGetInt64(cfg, "n", 0)),
	}, nil
}
