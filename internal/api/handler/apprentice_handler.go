package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/service"
	"github.com/Maddrobots/hangar13demo/pkg/response"
)

// ApprenticeHandler 学徒登记与导师分配
type ApprenticeHandler struct {
	apprenticeSvc service.ApprenticeService
}

// NewApprenticeHandler 创建 ApprenticeHandler
func NewApprenticeHandler(apprenticeSvc service.ApprenticeService) *ApprenticeHandler {
	return &ApprenticeHandler{apprenticeSvc: apprenticeSvc}
}

// Enroll 登记学徒
// POST /api/v1/apprentices
func (h *ApprenticeHandler) Enroll(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.EnrollApprenticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.apprenticeSvc.Enroll(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 学徒详情
// GET /api/v1/apprentices/:id
func (h *ApprenticeHandler) Get(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.apprenticeSvc.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListAssignable 可认领的学徒
// GET /api/v1/apprentices/assignable
func (h *ApprenticeHandler) ListAssignable(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	list, err := h.apprenticeSvc.ListAssignable(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// Claim 导师认领学徒
// POST /api/v1/apprentices/:id/claim
func (h *ApprenticeHandler) Claim(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.apprenticeSvc.ClaimApprentice(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// AssignMentor 指派或更换导师
// PUT /api/v1/apprentices/:id/mentor
func (h *ApprenticeHandler) AssignMentor(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.AssignMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.apprenticeSvc.AssignMentor(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateStatus 修改在训状态
// PUT /api/v1/apprentices/:id/status
func (h *ApprenticeHandler) UpdateStatus(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateApprenticeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.apprenticeSvc.UpdateStatus(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
