package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ── 业务错误分类 ──
//
// 各模块的业务错误通过 %w 包装以下分类之一，Handler 层按分类映射 HTTP 状态码。

var (
	ErrUnauthenticated   = errors.New("未登录或登录已失效")
	ErrNotFound          = errors.New("资源不存在")
	ErrPermissionDenied  = errors.New("无权操作")
	ErrValidation        = errors.New("参数校验失败")
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	ErrDependentWrite    = errors.New("关联数据写入失败")
)

// Kind 创建一个归属于指定分类的业务错误
func Kind(kind error, message string) error {
	return fmt.Errorf("%w: %s", kind, message)
}

// FieldError 字段级校验错误
type FieldError struct {
	Field   string
	Message string
}

// NewFieldError 创建字段级校验错误
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap 使 errors.Is(err, ErrValidation) 成立
func (e *FieldError) Unwrap() error { return ErrValidation }

// AsFieldError 提取字段级校验错误
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
