package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/logbook"
	"github.com/Maddrobots/hangar13demo/internal/service"
	"github.com/Maddrobots/hangar13demo/pkg/response"
)

// LogbookHandler 学徒工作日志
type LogbookHandler struct {
	logbookSvc service.LogbookService
}

// NewLogbookHandler 创建 LogbookHandler
func NewLogbookHandler(logbookSvc service.LogbookService) *LogbookHandler {
	return &LogbookHandler{logbookSvc: logbookSvc}
}

// CreateEntry 新建日志条目
// POST /api/v1/logbook/entries
func (h *LogbookHandler) CreateEntry(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.logbookSvc.CreateEntry(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, entry)
}

// UpdateEntry 编辑草稿
// PUT /api/v1/logbook/entries/:id
func (h *LogbookHandler) UpdateEntry(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.logbookSvc.UpdateEntry(c.Request.Context(), id, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, entry)
}

// GetEntry 条目详情
// GET /api/v1/logbook/entries/:id
func (h *LogbookHandler) GetEntry(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	entry, err := h.logbookSvc.GetEntry(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, entry)
}

// ListMyEntries 本人条目列表
// GET /api/v1/logbook/entries?status=&from=&to=&page=&page_size=
func (h *LogbookHandler) ListMyEntries(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.EntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.logbookSvc.ListMyEntries(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// DeleteEntry 删除草稿
// DELETE /api/v1/logbook/entries/:id
func (h *LogbookHandler) DeleteEntry(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.logbookSvc.DeleteEntry(c.Request.Context(), id, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListChapters ATA 章节目录
// GET /api/v1/logbook/chapters
func (h *LogbookHandler) ListChapters(c *gin.Context) {
	response.OK(c, logbook.Chapters())
}
