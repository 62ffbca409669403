package dto

// ── 学徒管理 DTO ──

// EnrollApprenticeRequest 登记学徒（manager / god）
type EnrollApprenticeRequest struct {
	UserID    string  `json:"user_id"    binding:"required,uuid"`
	MentorID  *string `json:"mentor_id"  binding:"omitempty,uuid"`
	StartDate string  `json:"start_date" binding:"required,datetime=2006-01-02"`
}

// AssignMentorRequest 指派 / 更换导师，mentor_id 为空表示取消指派
type AssignMentorRequest struct {
	MentorID *string `json:"mentor_id" binding:"omitempty,uuid"`
}

// UpdateApprenticeStatusRequest 修改学徒状态
type UpdateApprenticeStatusRequest struct {
	Status  string  `json:"status"   binding:"required,oneof=active inactive completed"`
	EndDate *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// ApprenticeResponse 学徒信息
type ApprenticeResponse struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	MentorID  *string          `json:"mentor_id,omitempty"`
	StartDate string           `json:"start_date"`
	EndDate   *string          `json:"end_date,omitempty"`
	Status    string           `json:"status"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
	CreatedAt string           `json:"created_at"`
}

// AssignableApprenticeResponse 可认领学徒（含累计工时）
type AssignableApprenticeResponse struct {
	ApprenticeResponse
	TotalHours float64 `json:"total_hours"`
}
