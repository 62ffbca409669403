package handler

import "github.com/Maddrobots/hangar13demo/internal/service"

// Handler 聚合所有 HTTP 处理器
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Apprentice *ApprenticeHandler
	Logbook    *LogbookHandler
	Review     *ReviewHandler
	Submission *SubmissionHandler
	Curriculum *CurriculumHandler
	Progress   *ProgressHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合实例
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Apprentice: NewApprenticeHandler(svc.Apprentice),
		Logbook:    NewLogbookHandler(svc.Logbook),
		Review:     NewReviewHandler(svc.Review),
		Submission: NewSubmissionHandler(svc.Submission),
		Curriculum: NewCurriculumHandler(svc.Curriculum),
		Progress:   NewProgressHandler(svc.Progress, svc.Roster),
		Export:     NewExportHandler(svc.Export),
	}
}
