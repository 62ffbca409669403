package service

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/Maddrobots/hangar13demo/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// structValidator 与 gin 共用 binding 标签，服务层被直接调用时同样生效
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// validateStruct 校验请求结构体，返回第一个字段错误
func validateStruct(s interface{}) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return pkgerrors.NewFieldError(fe.Field(), fieldMessage(fe))
	}
	return pkgerrors.Kind(pkgerrors.ErrValidation, err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "min":
		if fe.Kind() == reflect.String {
			return "长度不能少于 " + fe.Param() + " 个字符"
		}
		return "不能小于 " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "长度不能超过 " + fe.Param() + " 个字符"
		}
		if fe.Kind() == reflect.Slice {
			return "最多 " + fe.Param() + " 项"
		}
		return "不能大于 " + fe.Param()
	case "email":
		return "邮箱格式无效"
	case "uuid":
		return "ID 格式无效"
	case "url":
		return "URL 格式无效"
	case "numeric":
		return "必须为数字"
	case "oneof":
		return "取值必须为 " + fe.Param() + " 之一"
	case "datetime":
		return "日期格式必须为 " + fe.Param()
	default:
		return "格式无效"
	}
}
