package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/service"
	"github.com/Maddrobots/hangar13demo/pkg/response"
)

// SubmissionHandler 周反思与附件
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// weekParam 解析路径中的周次，范围由服务层校验
func weekParam(c *gin.Context) (int, bool) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		response.FieldInvalid(c, codeInvalidParam, "week_number", "周次必须为整数")
		return 0, false
	}
	return week, true
}

// Submit 提交或覆盖某周反思
// PUT /api/v1/submissions/weeks/:week
func (h *SubmissionHandler) Submit(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	week, ok := weekParam(c)
	if !ok {
		return
	}

	var req dto.SubmitReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.submissionSvc.Submit(c.Request.Context(), id, week, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 某周反思，未提交时 data 为空
// GET /api/v1/submissions/weeks/:week
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	week, ok := weekParam(c)
	if !ok {
		return
	}

	result, err := h.submissionSvc.Get(c.Request.Context(), id, week)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// List 本人全部周反思
// GET /api/v1/submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	list, err := h.submissionSvc.List(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// UploadFile 上传附件（multipart 字段 file）
// POST /api/v1/submissions/weeks/:week/files
func (h *SubmissionHandler) UploadFile(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	week, ok := weekParam(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.FieldInvalid(c, codeInvalidParam, "file", "请选择要上传的文件")
		return
	}
	if fh.Size > service.MaxAttachmentSize {
		response.Error(c, http.StatusRequestEntityTooLarge, codeInvalidParam, "文件大小不能超过 10MB")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, codeInvalidParam, "读取上传文件失败")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxAttachmentSize+1))
	if err != nil {
		response.BadRequest(c, codeInvalidParam, "读取上传文件失败")
		return
	}

	result, err := h.submissionSvc.UploadFile(c.Request.Context(), id, week, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}
