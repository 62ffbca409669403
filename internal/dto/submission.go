package dto

// ── 周报 DTO ──

// SubmissionFileInput 已上传附件的元数据
type SubmissionFileInput struct {
	FileURL  string `json:"file_url"  binding:"required,url"`
	FileName string `json:"file_name" binding:"required,max=255"`
	FileSize int64  `json:"file_size" binding:"min=0"`
	FileType string `json:"file_type" binding:"omitempty,max=100"`
}

// SubmitReflectionRequest 提交周反思，同一周重复提交覆盖之前的内容与附件
type SubmitReflectionRequest struct {
	CurriculumItemID *string               `json:"curriculum_item_id" binding:"omitempty,uuid"`
	ReflectionText   string                `json:"reflection_text"`
	Files            []SubmissionFileInput `json:"files"`
}

// SubmissionFileResponse 附件
type SubmissionFileResponse struct {
	ID       string `json:"id"`
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`
}

// SubmissionResponse 周报
type SubmissionResponse struct {
	ID               string                   `json:"id"`
	ApprenticeID     string                   `json:"apprentice_id"`
	WeekNumber       int                      `json:"week_number"`
	CurriculumItemID *string                  `json:"curriculum_item_id,omitempty"`
	ReflectionText   string                   `json:"reflection_text"`
	Status           string                   `json:"status"`
	SubmittedAt      string                   `json:"submitted_at"`
	Files            []SubmissionFileResponse `json:"files"`
}

// SubmitReflectionResponse 提交结果
// AttachmentsSaved=false 表示周报已保存但附件记录写入失败
type SubmitReflectionResponse struct {
	SubmissionID     string `json:"submission_id"`
	AttachmentsSaved bool   `json:"attachments_saved"`
}

// UploadedFileResponse 附件上传结果，作为 SubmissionFileInput 回传
type UploadedFileResponse struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`
}
