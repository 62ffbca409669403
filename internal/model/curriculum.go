package model

import "time"

// CurriculumItem 课程项，对应 curriculum_items（全局目录，不属于具体学徒）
type CurriculumItem struct {
	ID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description    string  `gorm:"type:text;not null;default:''"                  json:"description"`
	Category       string  `gorm:"type:varchar(50);not null;default:''"           json:"category"`
	Difficulty     string  `gorm:"type:varchar(20);not null;default:''"           json:"difficulty"`
	EstimatedHours float64 `gorm:"type:numeric(6,2);not null;default:0"           json:"estimated_hours"`
	OrderIndex     int     `gorm:"not null;default:0"                             json:"order_index"`
	IsActive       bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (CurriculumItem) TableName() string { return "curriculum_items" }

// ApprenticeProgress 学徒课程进度，对应 apprentice_progress
// 无记录即视为 not_started
type ApprenticeProgress struct {
	ID               string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ApprenticeID     string     `gorm:"type:uuid;not null"                             json:"apprentice_id"`
	CurriculumItemID string     `gorm:"type:uuid;not null"                             json:"curriculum_item_id"`
	Status           string     `gorm:"type:varchar(20);not null;default:'not_started'" json:"status"`
	HoursSpent       float64    `gorm:"type:numeric(6,2);not null;default:0"           json:"hours_spent"`
	CompletedAt      *time.Time `                                                      json:"completed_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (ApprenticeProgress) TableName() string { return "apprentice_progress" }
