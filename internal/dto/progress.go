package dto

import "github.com/Maddrobots/hangar13demo/internal/logbook"

// ── 进度 / 名册 DTO ──

// ProgressResponse 学徒进度
type ProgressResponse struct {
	Apprentice ApprenticeResponse `json:"apprentice"`
	logbook.Progress
	DueDate string `json:"due_date"`
}

// RosterRequest 导师名册查询参数
type RosterRequest struct {
	Sort string `form:"sort" binding:"omitempty,oneof=created_at_desc created_at_asc name pending_desc pace"`
}

// RosterResponse 导师名册
type RosterResponse struct {
	Apprentices []logbook.RosterRow `json:"apprentices"`
	Total       int                 `json:"total"`
}
