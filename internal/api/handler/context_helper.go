package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Maddrobots/hangar13demo/internal/service"
	pkgerrors "github.com/Maddrobots/hangar13demo/pkg/errors"
	"github.com/Maddrobots/hangar13demo/pkg/response"
)

// 上下文键，由 JWTAuth 中间件写入
const (
	ctxUserID      = "user_id"
	ctxEmail       = "email"
	ctxAccessToken = "access_token"
)

// 业务错误码
const (
	codeInvalidParam      = 10001
	codeUnauthenticated   = 10002
	codeForbidden         = 10003
	codeNotFound          = 10006
	codeInvalidTransition = 10007
	codeDependentWrite    = 10008
)

// MustGetIdentity 从 gin.Context 中构造调用者身份
// 若不存在则返回 401 并返回 false
func MustGetIdentity(c *gin.Context) (service.Identity, bool) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		response.Unauthorized(c, codeUnauthenticated, "未认证")
		return service.Identity{}, false
	}
	return service.Identity{UserID: userID, Email: c.GetString(ctxEmail)}, true
}

// RegisterValidatorTagNames 让 gin 的校验错误使用 json 字段名
func RegisterValidatorTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// bindError 请求绑定失败：校验错误定位到字段，其余按 400 处理
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		response.FieldInvalid(c, codeInvalidParam, verrs[0].Field(), "参数校验失败")
		return
	}
	response.BadRequest(c, codeInvalidParam, "参数校验失败")
}

// handleError 按错误分类映射 HTTP 状态码与业务码
func handleError(c *gin.Context, err error) {
	if fe, ok := pkgerrors.AsFieldError(err); ok {
		response.FieldInvalid(c, codeInvalidParam, fe.Field, fe.Message)
		return
	}

	switch {
	case errors.Is(err, pkgerrors.ErrUnauthenticated):
		response.Unauthorized(c, codeUnauthenticated, publicMessage(err, pkgerrors.ErrUnauthenticated))
	case errors.Is(err, pkgerrors.ErrPermissionDenied):
		response.Forbidden(c, codeForbidden, publicMessage(err, pkgerrors.ErrPermissionDenied))
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, codeNotFound, publicMessage(err, pkgerrors.ErrNotFound))
	case errors.Is(err, pkgerrors.ErrValidation):
		response.BadRequest(c, codeInvalidParam, publicMessage(err, pkgerrors.ErrValidation))
	case errors.Is(err, pkgerrors.ErrInvalidTransition):
		response.Conflict(c, codeInvalidTransition, publicMessage(err, pkgerrors.ErrInvalidTransition))
	case errors.Is(err, service.ErrStorageUnavailable):
		response.Error(c, http.StatusServiceUnavailable, codeDependentWrite, publicMessage(err, pkgerrors.ErrDependentWrite))
	case errors.Is(err, pkgerrors.ErrDependentWrite):
		_ = c.Error(err)
		response.Error(c, http.StatusBadGateway, codeDependentWrite, publicMessage(err, pkgerrors.ErrDependentWrite))
	default:
		// 交给请求日志中间件记录
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// publicMessage 取分类之后的业务描述，如 "资源不存在: 日志条目不存在" → "日志条目不存在"
func publicMessage(err, kind error) string {
	msg := err.Error()
	prefix := kind.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return kind.Error()
}
