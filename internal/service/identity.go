package service

import "strings"

// Identity 当前调用者，由认证中间件从已验证的 Access Token 中解析后显式传入
// 业务权限一律依据数据库最新记录判断，不使用 Token 中的角色声明
type Identity struct {
	UserID string
	Email  string
}

func requireIdentity(id Identity) error {
	if strings.TrimSpace(id.UserID) == "" {
		return ErrUnauthenticated
	}
	return nil
}
