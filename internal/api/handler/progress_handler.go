package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/service"
	"github.com/Maddrobots/hangar13demo/pkg/response"
)

// ProgressHandler 学徒进度与导师花名册
type ProgressHandler struct {
	progressSvc service.ProgressService
	rosterSvc   service.RosterService
}

// NewProgressHandler 创建 ProgressHandler
func NewProgressHandler(progressSvc service.ProgressService, rosterSvc service.RosterService) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc, rosterSvc: rosterSvc}
}

// GetApprenticeProgress 指定学徒进度
// GET /api/v1/apprentices/:id/progress
func (h *ProgressHandler) GetApprenticeProgress(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.progressSvc.GetApprenticeProgress(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// GetMyProgress 本人进度
// GET /api/v1/progress/me
func (h *ProgressHandler) GetMyProgress(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.progressSvc.GetMyProgress(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// GetMentorRoster 导师名下学徒汇总
// GET /api/v1/mentor/roster?sort=
func (h *ProgressHandler) GetMentorRoster(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.RosterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.rosterSvc.GetMentorRoster(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
