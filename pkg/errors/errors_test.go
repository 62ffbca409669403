package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_WrapsCategory(t *testing.T) {
	err := Kind(ErrNotFound, "日志条目不存在")
	if !errors.Is(err, ErrNotFound) {
		t.Error("Kind 生成的错误应归属 ErrNotFound")
	}
	if errors.Is(err, ErrPermissionDenied) {
		t.Error("不应归属 ErrPermissionDenied")
	}
}

func TestFieldError_IsValidation(t *testing.T) {
	err := fmt.Errorf("创建失败: %w", NewFieldError("end_time", "结束时间必须晚于开始时间"))
	if !errors.Is(err, ErrValidation) {
		t.Error("FieldError 应归属 ErrValidation")
	}
	fe, ok := AsFieldError(err)
	if !ok {
		t.Fatal("应能提取 FieldError")
	}
	if fe.Field != "end_time" {
		t.Errorf("期望 Field=end_time，实际=%s", fe.Field)
	}
}
