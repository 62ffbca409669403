package dto

// ── 课程进度 DTO ──

// CurriculumItemResponse 课程项及当前学徒的进度
type CurriculumItemResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Difficulty     string  `json:"difficulty"`
	EstimatedHours float64 `json:"estimated_hours"`
	OrderIndex     int     `json:"order_index"`
	Status         string  `json:"status"`
	HoursSpent     float64 `json:"hours_spent"`
	CompletedAt    *string `json:"completed_at,omitempty"`
}

// UpdateCurriculumProgressRequest 更新课程进度
// apprentice_id 仅导师标记 reviewed 时需要
type UpdateCurriculumProgressRequest struct {
	ApprenticeID string  `json:"apprentice_id" binding:"omitempty,uuid"`
	Status       string  `json:"status"        binding:"required,oneof=not_started in_progress completed reviewed"`
	HoursSpent   float64 `json:"hours_spent"   binding:"min=0,max=10000"`
}
