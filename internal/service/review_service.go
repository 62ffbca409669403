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

// ReviewService 导师审批业务接口
//
// 审批权限在每次请求时按学徒当前的 mentor_id 判定：
// 条目提交后更换导师，原导师立即失去审批权，新导师立即获得。
type ReviewService interface {
	Approve(ctx context.Context, id Identity, entryID string) (*dto.EntryResponse, error)
	Reject(ctx context.Context, id Identity, entryID string, req *dto.RejectEntryRequest) (*dto.EntryResponse, error)
	// ListPending 导师名下在训学徒的全部待审条目
	ListPending(ctx context.Context, id Identity) ([]dto.PendingEntryResponse, error)
	ListApprenticeEntries(ctx context.Context, id Identity, apprenticeID string) (*dto.ApprenticeEntriesResponse, error)
}

type reviewService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, logger: logger, now: time.Now}
}

// loadForReview 读取条目及其学徒最新记录并校验审批权限与状态
func (s *reviewService) loadForReview(ctx context.Context, id Identity, entryID string) (*model.LogbookEntry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	entry, err := s.repo.Entry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("查询日志条目失败", zap.String("entry_id", entryID), zap.Error(err))
		return nil, err
	}
	apprentice, err := apprenticeByID(ctx, s.repo, s.logger, entry.ApprenticeID)
	if err != nil {
		return nil, err
	}
	if !apprentice.IsMentoredBy(id.UserID) {
		return nil, ErrNotAssignedMentor
	}
	if !logbook.CanReview(logbook.EntryStatus(entry.Status)) {
		return nil, ErrEntryNotReviewable
	}
	return entry, nil
}

func (s *reviewService) persistReview(ctx context.Context, entry *model.LogbookEntry, action string) (*dto.EntryResponse, error) {
	if err := s.repo.Entry.Review(ctx, entry, string(logbook.StatusSubmitted)); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrEntryConflict
		}
		s.logger.Error("写入审批结果失败", zap.String("entry_id", entry.ID), zap.String("action", action), zap.Error(err))
		return nil, err
	}
	s.logger.Info("日志条目已审批",
		zap.String("entry_id", entry.ID),
		zap.String("action", action),
	)
	resp := toEntryResponse(entry)
	return &resp, nil
}

// ────────────────────── Approve ──────────────────────

func (s *reviewService) Approve(ctx context.Context, id Identity, entryID string) (*dto.EntryResponse, error) {
	entry, err := s.loadForReview(ctx, id, entryID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	reviewer := id.UserID
	entry.Status = string(logbook.StatusApproved)
	entry.ApprovedBy = &reviewer
	entry.ApprovedAt = &now
	return s.persistReview(ctx, entry, "approve")
}

// ────────────────────── Reject ──────────────────────

func (s *reviewService) Reject(ctx context.Context, id Identity, entryID string, req *dto.RejectEntryRequest) (*dto.EntryResponse, error) {
	if req == nil {
		req = &dto.RejectEntryRequest{}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	entry, err := s.loadForReview(ctx, id, entryID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	reviewer := id.UserID
	entry.Status = string(logbook.StatusRejected)
	entry.RejectedBy = &reviewer
	entry.RejectedAt = &now
	entry.RejectReason = req.Reason
	return s.persistReview(ctx, entry, "reject")
}

// ────────────────────── ListPending ──────────────────────

func (s *reviewService) ListPending(ctx context.Context, id Identity) ([]dto.PendingEntryResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	apprentices, err := s.repo.Apprentice.ListByMentor(ctx, id.UserID, model.ApprenticeActive)
	if err != nil {
		s.logger.Error("查询导师名下学徒失败", zap.String("mentor_id", id.UserID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.PendingEntryResponse, 0)
	if len(apprentices) == 0 {
		return result, nil
	}

	apprenticeIDs := make([]string, 0, len(apprentices))
	userIDs := make([]string, 0, len(apprentices))
	userByApprentice := make(map[string]string, len(apprentices))
	for _, a := range apprentices {
		apprenticeIDs = append(apprenticeIDs, a.ID)
		userIDs = append(userIDs, a.UserID)
		userByApprentice[a.ID] = a.UserID
	}

	entries, err := s.repo.Entry.ListByApprenticeIDs(ctx, apprenticeIDs, string(logbook.StatusSubmitted))
	if err != nil {
		s.logger.Error("批量查询待审条目失败", zap.Error(err))
		return nil, err
	}
	profiles, err := s.repo.Profile.ListByIDs(ctx, userIDs)
	if err != nil {
		s.logger.Error("批量查询学徒档案失败", zap.Error(err))
		return nil, err
	}
	profileByUser := make(map[string]*model.Profile, len(profiles))
	for i := range profiles {
		profileByUser[profiles[i].ID] = &profiles[i]
	}

	for i := range entries {
		item := dto.PendingEntryResponse{EntryResponse: toEntryResponse(&entries[i])}
		if p, ok := profileByUser[userByApprentice[entries[i].ApprenticeID]]; ok {
			item.ApprenticeName = p.FullName
			item.ApprenticeEmail = p.Email
		}
		result = append(result, item)
	}
	return result, nil
}

// ────────────────────── ListApprenticeEntries ──────────────────────

func (s *reviewService) ListApprenticeEntries(ctx context.Context, id Identity, apprenticeID string) (*dto.ApprenticeEntriesResponse, error) {
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

	entries, err := s.repo.Entry.ListAllByApprentice(ctx, apprenticeID)
	if err != nil {
		s.logger.Error("查询学徒日志条目失败", zap.String("apprentice_id", apprenticeID), zap.Error(err))
		return nil, err
	}

	counts := map[string]int{
		string(logbook.StatusDraft):     0,
		string(logbook.StatusSubmitted): 0,
		string(logbook.StatusApproved):  0,
		string(logbook.StatusRejected):  0,
	}
	list := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		counts[entries[i].Status]++
		list = append(list, toEntryResponse(&entries[i]))
	}

	return &dto.ApprenticeEntriesResponse{
		Apprentice: toApprenticeResponse(apprentice),
		Entries:    list,
		Counts:     counts,
	}, nil
}
