package service

import (
	"go.uber.org/zap"

	"github.com/Maddrobots/hangar13demo/internal/repository"
	"github.com/Maddrobots/hangar13demo/pkg/jwt"
	"github.com/Maddrobots/hangar13demo/pkg/logger"
	"github.com/Maddrobots/hangar13demo/pkg/storage"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Apprentice ApprenticeService
	Logbook    LogbookService
	Review     ReviewService
	Submission SubmissionService
	Curriculum CurriculumService
	Progress   ProgressService
	Roster     RosterService
	Export     ExportService
}

// Deps 可选依赖：Blacklist 与 Store 为 nil 时对应功能降级
type Deps struct {
	Blacklist TokenBlacklist
	Store     storage.ObjectStore
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	deps Deps,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, deps.Blacklist, logger.Named(log, "auth")),
		User:       NewUserService(repo, logger.Named(log, "user")),
		Apprentice: NewApprenticeService(repo, logger.Named(log, "apprentice")),
		Logbook:    NewLogbookService(repo, logger.Named(log, "logbook")),
		Review:     NewReviewService(repo, logger.Named(log, "review")),
		Submission: NewSubmissionService(repo, deps.Store, logger.Named(log, "submission")),
		Curriculum: NewCurriculumService(repo, logger.Named(log, "curriculum")),
		Progress:   NewProgressService(repo, logger.Named(log, "progress")),
		Roster:     NewRosterService(repo, logger.Named(log, "roster")),
		Export:     NewExportService(repo, logger.Named(log, "export")),
	}
}
