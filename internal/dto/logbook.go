package dto

// ── 日志条目 DTO ──

// EntryRequest 新建 / 编辑日志条目；工时由起止时间计算，不接受客户端传入
type EntryRequest struct {
	EntryDate   string `json:"entry_date"   binding:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time"   binding:"required"`
	EndTime     string `json:"end_time"     binding:"required"`
	Description string `json:"description"  binding:"required,min=10,max=500"`
	ChapterCode string `json:"chapter_code" binding:"required,numeric,max=3"`
	Certify     bool   `json:"certify"`
}

// CreateEntryRequest 新建日志条目
type CreateEntryRequest = EntryRequest

// UpdateEntryRequest 编辑草稿条目
type UpdateEntryRequest = EntryRequest

// EntryListRequest 条目列表查询参数
type EntryListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=draft submitted approved rejected"`
	From   string `form:"from"   binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to"     binding:"omitempty,datetime=2006-01-02"`
}

// RejectEntryRequest 驳回条目，原因可选
type RejectEntryRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// EntryResponse 日志条目
type EntryResponse struct {
	ID           string  `json:"id"`
	ApprenticeID string  `json:"apprentice_id"`
	EntryDate    string  `json:"entry_date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	HoursWorked  float64 `json:"hours_worked"`
	Description  string  `json:"description"`
	ChapterCode  string  `json:"chapter_code"`
	ChapterLabel string  `json:"chapter_label"`
	Status       string  `json:"status"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
	RejectedBy   *string `json:"rejected_by,omitempty"`
	RejectedAt   *string `json:"rejected_at,omitempty"`
	RejectReason string  `json:"reject_reason,omitempty"`
	Version      int     `json:"version"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// PendingEntryResponse 导师待审条目（带学徒信息）
type PendingEntryResponse struct {
	EntryResponse
	ApprenticeName  string `json:"apprentice_name"`
	ApprenticeEmail string `json:"apprentice_email"`
}

// ApprenticeEntriesResponse 导师查看某学徒的全部条目
type ApprenticeEntriesResponse struct {
	Apprentice ApprenticeResponse `json:"apprentice"`
	Entries    []EntryResponse    `json:"entries"`
	Counts     map[string]int     `json:"counts"`
}
