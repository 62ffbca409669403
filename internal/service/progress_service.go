package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/logbook"
	"github.com/Maddrobots/hangar13demo/internal/model"
	"github.com/Maddrobots/hangar13demo/internal/repository"
)

// ProgressService 学徒进度业务接口，所有指标每次请求即时计算
type ProgressService interface {
	GetApprenticeProgress(ctx context.Context, id Identity, apprenticeID string) (*dto.ProgressResponse, error)
	GetMyProgress(ctx context.Context, id Identity) (*dto.ProgressResponse, error)
}

type progressService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewProgressService 创建 ProgressService 实例
func NewProgressService(repo *repository.Repository, logger *zap.Logger) ProgressService {
	return &progressService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── GetApprenticeProgress ──────────────────────

func (s *progressService) GetApprenticeProgress(ctx context.Context, id Identity, apprenticeID string) (*dto.ProgressResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeByID(ctx, s.repo, s.logger, apprenticeID)
	if err != nil {
		return nil, err
	}
	if err := authorizeApprenticeView(ctx, s.repo, s.logger, id, apprentice); err != nil {
		return nil, err
	}
	return s.compute(ctx, apprentice)
}

// ────────────────────── GetMyProgress ──────────────────────

func (s *progressService) GetMyProgress(ctx context.Context, id Identity) (*dto.ProgressResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		return nil, err
	}
	return s.compute(ctx, apprentice)
}

func (s *progressService) compute(ctx context.Context, apprentice *model.Apprentice) (*dto.ProgressResponse, error) {
	var (
		entries  []model.LogbookEntry
		items    []model.CurriculumItem
		progress []model.ApprenticeProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.repo.Entry.ListAllByApprentice(gctx, apprentice.ID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.Curriculum.ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = s.repo.Progress.ListByApprentice(gctx, apprentice.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载进度数据失败", zap.String("apprentice_id", apprentice.ID), zap.Error(err))
		return nil, err
	}

	p := logbook.ComputeProgress(logbook.ProgressInput{
		StartDate:  apprentice.StartDate,
		Entries:    toEntryFacts(entries),
		Curriculum: toCurriculumFacts(items, progress),
	}, s.now())

	return &dto.ProgressResponse{
		Apprentice: toApprenticeResponse(apprentice),
		Progress:   p,
		DueDate:    p.DueDate.Format(dateLayout),
	}, nil
}
