package dto

// ── 用户模块 DTO ──

// UpdateProfileRequest 更新本人档案
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"  binding:"omitempty,min=2,max=100"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

// UpdateRoleRequest 修改用户角色
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=apprentice mentor manager god"`
}
