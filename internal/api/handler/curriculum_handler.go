package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/service"
	"github.com/Maddrobots/hangar13demo/pkg/response"
)

// CurriculumHandler 课程目录与进度
type CurriculumHandler struct {
	curriculumSvc service.CurriculumService
}

// NewCurriculumHandler 创建 CurriculumHandler
func NewCurriculumHandler(curriculumSvc service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculumSvc: curriculumSvc}
}

// List 课程目录
// GET /api/v1/curriculum
func (h *CurriculumHandler) List(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	list, err := h.curriculumSvc.List(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// UpdateProgress 更新课程项进度
// PUT /api/v1/curriculum/:id/progress
func (h *CurriculumHandler) UpdateProgress(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateCurriculumProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.curriculumSvc.UpdateProgress(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
