package code

import "sync"

// CodeDefinition 业务错误码的注册信息
type CodeDefinition struct {
	Code            int32
	Message         string
	AffectStability bool
}

var (
	mu       sync.RWMutex
	registry = make(map[int32]*CodeDefinition)
)

type RegisterOption func(*CodeDefinition)

// WithAffectStability 标记该错误是否影响服务稳定性指标
// 业务预期内的失败(参数错误等)不影响稳定性, 依赖故障影响稳定性
func WithAffectStability(affect bool) RegisterOption {
	return func(d *CodeDefinition) {
		d.AffectStability = affect
	}
}

// Register 注册一个错误码及其用户可见的描述信息, 重复注册时覆盖
func Register(code int32, msg string, opts ...RegisterOption) {
	d := &CodeDefinition{Code: code, Message: msg}
	for _, opt := range opts {
		opt(d)
	}
	mu.Lock()
	defer mu.Unlock()
	registry[code] = d
}

// Definition 查询错误码注册信息
func Definition(code int32) (*CodeDefinition, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := registry[code]
	return d, ok
}
