package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/logbook"
	"github.com/Maddrobots/hangar13demo/internal/model"
	"github.com/Maddrobots/hangar13demo/internal/repository"
	pkgerrors "github.com/Maddrobots/hangar13demo/pkg/errors"
)

// CurriculumService 课程进度业务接口
type CurriculumService interface {
	// List 课程目录及调用者本人的进度
	List(ctx context.Context, id Identity) ([]dto.CurriculumItemResponse, error)
	// UpdateProgress 学徒更新本人进度；导师可将所带学徒已完成的课程项标记为 reviewed
	UpdateProgress(ctx context.Context, id Identity, itemID string, req *dto.UpdateCurriculumProgressRequest) (*dto.CurriculumItemResponse, error)
}

type curriculumService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCurriculumService 创建 CurriculumService 实例
func NewCurriculumService(repo *repository.Repository, logger *zap.Logger) CurriculumService {
	return &curriculumService{repo: repo, logger: logger, now: time.Now}
}

func toCurriculumItemResponse(it *model.CurriculumItem, p *model.ApprenticeProgress) dto.CurriculumItemResponse {
	resp := dto.CurriculumItemResponse{
		ID:             it.ID,
		Title:          it.Title,
		Description:    it.Description,
		Category:       it.Category,
		Difficulty:     it.Difficulty,
		EstimatedHours: it.EstimatedHours,
		OrderIndex:     it.OrderIndex,
		Status:         string(logbook.CurriculumNotStarted),
	}
	if p != nil {
		resp.Status = p.Status
		resp.HoursSpent = p.HoursSpent
		resp.CompletedAt = formatTimePtr(p.CompletedAt)
	}
	return resp
}

// ────────────────────── List ──────────────────────

func (s *curriculumService) List(ctx context.Context, id Identity) ([]dto.CurriculumItemResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Curriculum.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询课程目录失败", zap.Error(err))
		return nil, err
	}
	progress, err := s.repo.Progress.ListByApprentice(ctx, apprentice.ID)
	if err != nil {
		s.logger.Error("查询课程进度失败", zap.String("apprentice_id", apprentice.ID), zap.Error(err))
		return nil, err
	}
	byItem := make(map[string]*model.ApprenticeProgress, len(progress))
	for i := range progress {
		byItem[progress[i].CurriculumItemID] = &progress[i]
	}

	result := make([]dto.CurriculumItemResponse, 0, len(items))
	for i := range items {
		result = append(result, toCurriculumItemResponse(&items[i], byItem[items[i].ID]))
	}
	return result, nil
}

// ────────────────────── UpdateProgress ──────────────────────

func (s *curriculumService) UpdateProgress(ctx context.Context, id Identity, itemID string, req *dto.UpdateCurriculumProgressRequest) (*dto.CurriculumItemResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, pkgerrors.Kind(pkgerrors.ErrValidation, "请求体不能为空")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	item, err := s.repo.Curriculum.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCurriculumItemNotFound
		}
		s.logger.Error("查询课程项失败", zap.String("item_id", itemID), zap.Error(err))
		return nil, err
	}

	status := logbook.CurriculumStatus(req.Status)
	var apprentice *model.Apprentice
	if status == logbook.CurriculumReviewed {
		if req.ApprenticeID == "" {
			return nil, pkgerrors.NewFieldError("apprentice_id", "不能为空")
		}
		apprentice, err = apprenticeByID(ctx, s.repo, s.logger, req.ApprenticeID)
		if err != nil {
			return nil, err
		}
		if !apprentice.IsMentoredBy(id.UserID) {
			return nil, ErrReviewMentorOnly
		}
	} else {
		apprentice, err = apprenticeOf(ctx, s.repo, s.logger, id.UserID)
		if err != nil {
			return nil, err
		}
	}

	current, err := s.currentProgress(ctx, apprentice.ID, item.ID)
	if err != nil {
		return nil, err
	}

	next := &model.ApprenticeProgress{
		ApprenticeID:     apprentice.ID,
		CurriculumItemID: item.ID,
		Status:           string(status),
		HoursSpent:       req.HoursSpent,
	}
	if status == logbook.CurriculumReviewed {
		if current == nil || logbook.CurriculumStatus(current.Status) != logbook.CurriculumCompleted {
			return nil, ErrProgressNotCompleted
		}
		next.HoursSpent = current.HoursSpent
		next.CompletedAt = current.CompletedAt
	} else {
		if current != nil && logbook.CurriculumStatus(current.Status) == logbook.CurriculumReviewed {
			return nil, ErrProgressReviewed
		}
		if status.IsComplete() {
			now := s.now().UTC()
			if current != nil && current.CompletedAt != nil {
				now = *current.CompletedAt
			}
			next.CompletedAt = &now
		}
	}

	if err := s.repo.Progress.Upsert(ctx, next); err != nil {
		s.logger.Error("更新课程进度失败",
			zap.String("apprentice_id", apprentice.ID),
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("课程进度已更新",
		zap.String("apprentice_id", apprentice.ID),
		zap.String("item_id", item.ID),
		zap.String("status", next.Status),
	)
	resp := toCurriculumItemResponse(item, next)
	return &resp, nil
}

func (s *curriculumService) currentProgress(ctx context.Context, apprenticeID, itemID string) (*model.ApprenticeProgress, error) {
	list, err := s.repo.Progress.ListByApprentice(ctx, apprenticeID)
	if err != nil {
		s.logger.Error("查询课程进度失败", zap.String("apprentice_id", apprenticeID), zap.Error(err))
		return nil, err
	}
	for i := range list {
		if list[i].CurriculumItemID == itemID {
			return &list[i], nil
		}
	}
	return nil, nil
}
