package handler

import (
	"bytes"
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Maddrobots/hangar13demo/internal/service"
	"github.com/Maddrobots/hangar13demo/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportXLSX 导出日志工作簿
// GET /api/v1/apprentices/:id/export/xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	h.export(c, h.exportSvc.ExportLogbookXLSX, contentTypeXLSX)
}

// ExportICS 导出日志日历
// GET /api/v1/apprentices/:id/export/ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	h.export(c, h.exportSvc.ExportLogbookICS, contentTypeICS)
}

type exportFunc func(ctx context.Context, id service.Identity, apprenticeID string) (*bytes.Buffer, string, error)

func (h *ExportHandler) export(c *gin.Context, fn exportFunc, contentType string) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	buf, filename, err := fn(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Attachment(c, contentType, filename, buf.Bytes())
}
