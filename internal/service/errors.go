package service

import (
	pkgerrors "github.com/Maddrobots/hangar13demo/pkg/errors"
)

// ── 业务错误 ──
//
// 每个错误归属 pkg/errors 中的一个分类，Handler 按分类映射 HTTP 状态码。

var (
	// 认证
	ErrUnauthenticated    = pkgerrors.Kind(pkgerrors.ErrUnauthenticated, "请先登录")
	ErrInvalidCredentials = pkgerrors.Kind(pkgerrors.ErrUnauthenticated, "邮箱或密码错误")
	ErrInvalidToken       = pkgerrors.Kind(pkgerrors.ErrUnauthenticated, "Token 无效或已过期")
	ErrEmailTaken         = pkgerrors.Kind(pkgerrors.ErrValidation, "邮箱已被注册")

	// 用户 / 学徒
	ErrUserNotFound         = pkgerrors.Kind(pkgerrors.ErrNotFound, "用户不存在")
	ErrApprenticeNotFound   = pkgerrors.Kind(pkgerrors.ErrNotFound, "学徒记录不存在，请联系管理员")
	ErrApprenticeExists     = pkgerrors.Kind(pkgerrors.ErrValidation, "该用户已登记为学徒")
	ErrMentorNotFound       = pkgerrors.Kind(pkgerrors.ErrNotFound, "导师不存在")
	ErrNotAMentor           = pkgerrors.Kind(pkgerrors.ErrValidation, "指定用户不是导师")
	ErrAlreadyAssigned      = pkgerrors.Kind(pkgerrors.ErrInvalidTransition, "该学徒已有导师")
	ErrStaffOnly            = pkgerrors.Kind(pkgerrors.ErrPermissionDenied, "仅管理员可执行该操作")
	ErrMentorOnly           = pkgerrors.Kind(pkgerrors.ErrPermissionDenied, "仅导师可执行该操作")
	ErrRoleChangeForbidden  = pkgerrors.Kind(pkgerrors.ErrPermissionDenied, "无权修改该用户角色")
	ErrCannotChangeOwnRole  = pkgerrors.Kind(pkgerrors.ErrPermissionDenied, "不能修改自己的角色")
	ErrApprenticeAccessDeny = pkgerrors.Kind(pkgerrors.ErrPermissionDenied, "无权查看该学徒")

	// 日志条目
	ErrEntryNotFound      = pkgerrors.Kind(pkgerrors.ErrNotFound, "日志条目不存在")
	ErrEntryNotOwned      = pkgerrors.Kind(pkgerrors.ErrPermissionDenied, "无权修改该日志条目")
	ErrEntryNotEditable   = pkgerrors.Kind(pkgerrors.ErrInvalidTransition, "仅草稿状态的条目可以编辑")
	ErrEntryNotReviewable = pkgerrors.Kind(pkgerrors.ErrInvalidTransition, "仅已提交的条目可以审批")
	ErrEntryConflict      = pkgerrors.Kind(pkgerrors.ErrInvalidTransition, "条目已被其他操作修改，请刷新后重试")
	ErrNotAssignedMentor  = pkgerrors.Kind(pkgerrors.ErrPermissionDenied, "只有该学徒当前的导师可以审批")

	// 周报 / 附件
	ErrStorageUnavailable = pkgerrors.Kind(pkgerrors.ErrDependentWrite, "附件存储未配置")

	// 课程
	ErrCurriculumItemNotFound = pkgerrors.Kind(pkgerrors.ErrNotFound, "课程项不存在")
	ErrProgressNotCompleted   = pkgerrors.Kind(pkgerrors.ErrInvalidTransition, "课程项尚未完成，无法标记为已审核")
	ErrProgressReviewed       = pkgerrors.Kind(pkgerrors.ErrInvalidTransition, "课程项已审核，不能再修改")
	ErrReviewMentorOnly       = pkgerrors.Kind(pkgerrors.ErrPermissionDenied, "仅该学徒的导师可以标记已审核")

	// 导出
	ErrExportGenerateFail = pkgerrors.Kind(pkgerrors.ErrDependentWrite, "生成导出文件失败")
)
