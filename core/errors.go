package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 加载错误：embedding/catalog 数据缺失或损坏（启动期致命）
//   - 请求错误：用户不存在、种子不可解析（请求级可恢复）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "LOAD_FAILED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "embedding", "catalog", "user"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound          = "NOT_FOUND"           // 资源不存在
	ErrorCodeNotSupported      = "NOT_SUPPORTED"       // 操作不支持
	ErrorCodeLoadFailed        = "LOAD_FAILED"         // 数据加载失败（启动期致命）
	ErrorCodeNoResolvableSeeds = "NO_RESOLVABLE_SEEDS" // 没有任何种子能解析出向量
	ErrorCodeInvalidInput      = "INVALID_INPUT"       // 输入无效
	ErrorCodeInternalError     = "INTERNAL_ERROR"      // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 通用 KV 存储
	ModuleEmbedding = "embedding" // 向量存储
	ModuleCatalog   = "catalog"   // 商品目录
	ModuleUser      = "user"      // 用户快照
	ModuleRecall    = "recall"    // 召回
)

// 预定义的领域错误
var (
	// ErrUserNotFound 表示用户快照不存在（请求级，可恢复）。
	ErrUserNotFound = NewDomainError(ModuleUser, ErrorCodeNotFound, "user: not found")

	// ErrNoResolvableSeeds 表示用户有行为数据，但没有任何种子商品能在
	// 向量存储中解析出向量（请求级，由调用方决定报错还是兜底）。
	ErrNoResolvableSeeds = NewDomainError(ModuleRecall, ErrorCodeNoResolvableSeeds, "recall: no seed product has an embedding")
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsLoadFailed 检查错误是否为加载失败（启动期应拒绝服务）
func IsLoadFailed(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeLoadFailed
	}
	return false
}

// IsNoResolvableSeeds 检查错误是否为种子不可解析
func IsNoResolvableSeeds(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNoResolvableSeeds
	}
	return false
}
