package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误分类（对应各组件边界）：
//   - 校验错误：OUT_OF_RANGE（属性值越界、评分越界）
//   - 查找错误：NOT_FOUND（item / user / rating 不存在）
//   - 唯一性错误：DUPLICATE_KEY（重复 item id、重复用户名）
//   - 会话状态错误：NO_ACTIVE_USER / ACTIVE_USER_EXISTS
//   - 凭证错误：BAD_CREDENTIALS
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "OUT_OF_RANGE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "dataset", "recommend", "session"）
}

func (e *DomainError) Error() string {
	return e.Message
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
	ErrorCodeNotFound         = "NOT_FOUND"          // 资源不存在
	ErrorCodeDuplicateKey     = "DUPLICATE_KEY"      // 唯一性约束被破坏
	ErrorCodeOutOfRange       = "OUT_OF_RANGE"       // 值不在声明的取值域内
	ErrorCodeNoActiveUser     = "NO_ACTIVE_USER"     // 没有活跃用户
	ErrorCodeActiveUserExists = "ACTIVE_USER_EXISTS" // 已存在活跃用户
	ErrorCodeBadCredentials   = "BAD_CREDENTIALS"    // 凭证错误
	ErrorCodeInvalidInput     = "INVALID_INPUT"      // 输入无效
	ErrorCodeNotSupported     = "NOT_SUPPORTED"      // 操作不支持
)

// 模块名称常量
const (
	ModuleAttribute = "attribute" // 属性取值域校验
	ModuleDataset   = "dataset"   // 中心数据存储
	ModuleRecommend = "recommend" // 推荐策略
	ModuleSession   = "session"   // 会话/登录
	ModuleStore     = "store"     // KV 存储（缓存后端）
	ModuleLoader    = "loader"    // 数据装载
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsDuplicateKey 检查错误是否为 DUPLICATE_KEY
func IsDuplicateKey(err error) bool { return hasCode(err, ErrorCodeDuplicateKey) }

// IsOutOfRange 检查错误是否为 OUT_OF_RANGE（属性值/评分越界）
func IsOutOfRange(err error) bool { return hasCode(err, ErrorCodeOutOfRange) }

// IsNoActiveUser 检查错误是否为 NO_ACTIVE_USER
func IsNoActiveUser(err error) bool { return hasCode(err, ErrorCodeNoActiveUser) }

// IsActiveUserExists 检查错误是否为 ACTIVE_USER_EXISTS
func IsActiveUserExists(err error) bool { return hasCode(err, ErrorCodeActiveUserExists) }

// IsBadCredentials 检查错误是否为 BAD_CREDENTIALS
func IsBadCredentials(err error) bool { return hasCode(err, ErrorCodeBadCredentials) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }
