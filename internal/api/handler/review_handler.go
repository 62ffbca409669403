package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/service"
	"github.com/Maddrobots/hangar13demo/pkg/response"
)

// ReviewHandler 导师审批
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// Approve 批准条目
// POST /api/v1/logbook/entries/:id/approve
func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	entry, err := h.reviewSvc.Approve(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, entry)
}

// Reject 驳回条目
// POST /api/v1/logbook/entries/:id/reject
func (h *ReviewHandler) Reject(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.RejectEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	entry, err := h.reviewSvc.Reject(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, entry)
}

// ListPending 待审条目
// GET /api/v1/mentor/pending
func (h *ReviewHandler) ListPending(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	list, err := h.reviewSvc.ListPending(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// ListApprenticeEntries 学徒条目及各状态计数
// GET /api/v1/apprentices/:id/entries
func (h *ReviewHandler) ListApprenticeEntries(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.reviewSvc.ListApprenticeEntries(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
