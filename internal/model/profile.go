package model

// 角色，权限由低到高
const (
	RoleApprentice = "apprentice"
	RoleMentor     = "mentor"
	RoleManager    = "manager"
	RoleGod        = "god"
)

var roleRank = map[string]int{
	RoleApprentice: 1,
	RoleMentor:     2,
	RoleManager:    3,
	RoleGod:        4,
}

// RoleRank 角色等级，未知角色为 0
func RoleRank(role string) int { return roleRank[role] }

// IsValidRole 是否为已知角色
func IsValidRole(role string) bool { return roleRank[role] > 0 }

// Profile 用户档案，对应 profiles
type Profile struct {
	ID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	FullName     string `gorm:"type:varchar(100);not null"                     json:"full_name"`
	Role         string `gorm:"type:varchar(20);not null;default:'apprentice'" json:"role"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	AvatarURL    string `gorm:"type:text;not null;default:''"                  json:"avatar_url"`
	BaseModel
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// IsStaff manager 与 god 可管理学徒档案
func (p *Profile) IsStaff() bool {
	return p.Role == RoleManager || p.Role == RoleGod
}
