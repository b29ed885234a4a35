package core

import (
	"context"
	"time"
)

// Store 是 KV 存储的领域接口，推荐结果缓存的后端契约。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（cache）实现
//   - 领域层定义接口，基础设施层实现接口，避免循环依赖
//
// 实现：
//   - cache.MemoryStore（测试/开发/单进程部署）
//   - cache.RedisStore（多实例共享缓存）
type Store interface {
	// Name 返回存储后端名称（用于诊断）
	Name() string

	// Get 读取单个 key 的值，不存在时返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 为 0 表示不过期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// Close 关闭连接/释放资源
	Close() error
}

// ErrStoreNotFound 表示 key 不存在
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}
