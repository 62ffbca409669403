package model

import "time"

// 学徒状态（只做状态变更，不物理删除）
const (
	ApprenticeActive    = "active"
	ApprenticeInactive  = "inactive"
	ApprenticeCompleted = "completed"
)

// IsValidApprenticeStatus 是否为已知学徒状态
func IsValidApprenticeStatus(s string) bool {
	return s == ApprenticeActive || s == ApprenticeInactive || s == ApprenticeCompleted
}

// Apprentice 学徒，对应 apprentices
type Apprentice struct {
	ID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	MentorID  *string    `gorm:"type:uuid;index"                                json:"mentor_id,omitempty"`
	StartDate time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   *time.Time `gorm:"type:date"                                      json:"end_date,omitempty"`
	Status    string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	BaseModel

	// 关联
	Profile *Profile `gorm:"foreignKey:UserID;references:ID"   json:"profile,omitempty"`
	Mentor  *Profile `gorm:"foreignKey:MentorID;references:ID" json:"mentor,omitempty"`
}

// TableName 指定表名
func (Apprentice) TableName() string { return "apprentices" }

// IsMentoredBy 当前导师是否为指定用户
func (a *Apprentice) IsMentoredBy(userID string) bool {
	return a.MentorID != nil && *a.MentorID == userID
}
