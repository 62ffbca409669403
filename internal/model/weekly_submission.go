package model

import "time"

// SubmissionStatusSubmitted 周报唯一状态
const SubmissionStatusSubmitted = "submitted"

// WeeklySubmission 周报，对应 weekly_submissions，(apprentice_id, week_number) 唯一
type WeeklySubmission struct {
	ID               string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ApprenticeID     string    `gorm:"type:uuid;not null"                             json:"apprentice_id"`
	WeekNumber       int       `gorm:"not null"                                       json:"week_number"`
	CurriculumItemID *string   `gorm:"type:uuid"                                      json:"curriculum_item_id,omitempty"`
	ReflectionText   string    `gorm:"type:text;not null;default:''"                  json:"reflection_text"`
	Status           string    `gorm:"type:varchar(20);not null;default:'submitted'"  json:"status"`
	SubmittedAt      time.Time `gorm:"not null"                                       json:"submitted_at"`
	BaseModel

	// 关联
	Files []WeeklySubmissionFile `gorm:"foreignKey:SubmissionID" json:"files"`
}

// TableName 指定表名
func (WeeklySubmission) TableName() string { return "weekly_submissions" }

// WeeklySubmissionFile 周报附件，对应 weekly_submission_files
type WeeklySubmissionFile struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SubmissionID string    `gorm:"type:uuid;not null;index"                       json:"submission_id"`
	FileURL      string    `gorm:"type:text;not null"                             json:"file_url"`
	FileName     string    `gorm:"type:varchar(255);not null"                     json:"file_name"`
	FileSize     int64     `gorm:"not null;default:0"                             json:"file_size"`
	FileType     string    `gorm:"type:varchar(100);not null;default:''"          json:"file_type"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (WeeklySubmissionFile) TableName() string { return "weekly_submission_files" }
