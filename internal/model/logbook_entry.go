package model

import (
	"time"

	"github.com/lib/pq"
)

// LogbookEntry 日志条目，对应 logbook_entries
// HoursWorked 始终由 StartTime/EndTime 计算得出；SkillsPracticed 为旧版章节编码，与 ChapterCode 同步写入
type LogbookEntry struct {
	ID              string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ApprenticeID    string         `gorm:"type:uuid;not null;index"                       json:"apprentice_id"`
	EntryDate       time.Time      `gorm:"type:date;not null"                             json:"entry_date"`
	StartTime       string         `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime         string         `gorm:"type:varchar(5);not null"                       json:"end_time"`
	HoursWorked     float64        `gorm:"type:numeric(5,2);not null"                     json:"hours_worked"`
	Description     string         `gorm:"type:text;not null"                             json:"description"`
	ChapterCode     string         `gorm:"type:varchar(10);not null"                      json:"chapter_code"`
	SkillsPracticed pq.StringArray `gorm:"type:text[]"                                    json:"skills_practiced"`
	Status          string         `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	ApprovedBy      *string        `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `                                                      json:"approved_at,omitempty"`
	RejectedBy      *string        `gorm:"type:uuid"                                      json:"rejected_by,omitempty"`
	RejectedAt      *time.Time     `                                                      json:"rejected_at,omitempty"`
	RejectReason    string         `gorm:"type:varchar(500);not null;default:''"          json:"reject_reason,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (LogbookEntry) TableName() string { return "logbook_entries" }
