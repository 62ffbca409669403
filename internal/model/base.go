package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 通用时间戳字段，由数据库默认值兜底
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SoftDeleteModel 删除草稿条目时保留行
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// VersionedModel 日志条目的乐观锁版本号，编辑与审批均以 version 为条件更新
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// Bump 条件更新成功后同步内存中的版本号
func (m *VersionedModel) Bump() { m.Version++ }
