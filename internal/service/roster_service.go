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

// RosterService 导师名册业务接口
type RosterService interface {
	// GetMentorRoster 调用者名下在训学徒的进度汇总
	GetMentorRoster(ctx context.Context, id Identity, req *dto.RosterRequest) (*dto.RosterResponse, error)
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewRosterService 创建 RosterService 实例
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger, now: time.Now}
}

func (s *rosterService) GetMentorRoster(ctx context.Context, id Identity, req *dto.RosterRequest) (*dto.RosterResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if req == nil {
		req = &dto.RosterRequest{}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	apprentices, err := s.repo.Apprentice.ListByMentor(ctx, id.UserID, model.ApprenticeActive)
	if err != nil {
		s.logger.Error("查询导师名下学徒失败", zap.String("mentor_id", id.UserID), zap.Error(err))
		return nil, err
	}
	if len(apprentices) == 0 {
		return &dto.RosterResponse{Apprentices: []logbook.RosterRow{}, Total: 0}, nil
	}

	apprenticeIDs := make([]string, 0, len(apprentices))
	userIDs := make([]string, 0, len(apprentices))
	for _, a := range apprentices {
		apprenticeIDs = append(apprenticeIDs, a.ID)
		userIDs = append(userIDs, a.UserID)
	}

	// 每类数据各一次批量查询，与学徒人数无关
	var (
		entries  []model.LogbookEntry
		progress []model.ApprenticeProgress
		items    []model.CurriculumItem
		profiles []model.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.repo.Entry.ListByApprenticeIDs(gctx, apprenticeIDs, "")
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = s.repo.Progress.ListByApprenticeIDs(gctx, apprenticeIDs)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.Curriculum.ListActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.repo.Profile.ListByIDs(gctx, userIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载名册数据失败", zap.String("mentor_id", id.UserID), zap.Error(err))
		return nil, err
	}

	entriesBy := make(map[string][]model.LogbookEntry, len(apprentices))
	for _, e := range entries {
		entriesBy[e.ApprenticeID] = append(entriesBy[e.ApprenticeID], e)
	}
	progressBy := make(map[string][]model.ApprenticeProgress, len(apprentices))
	for _, p := range progress {
		progressBy[p.ApprenticeID] = append(progressBy[p.ApprenticeID], p)
	}
	profileBy := make(map[string]model.Profile, len(profiles))
	for _, p := range profiles {
		profileBy[p.ID] = p
	}

	members := make([]logbook.RosterMember, 0, len(apprentices))
	for _, a := range apprentices {
		profile := profileBy[a.UserID]
		members = append(members, logbook.RosterMember{
			ApprenticeID: a.ID,
			UserID:       a.UserID,
			FullName:     profile.FullName,
			Email:        profile.Email,
			StartDate:    a.StartDate,
			CreatedAt:    a.CreatedAt,
			Entries:      toEntryFacts(entriesBy[a.ID]),
			Curriculum:   toCurriculumFacts(items, progressBy[a.ID]),
		})
	}

	rows := logbook.BuildRoster(members, s.now(), logbook.ParseRosterSort(req.Sort))
	return &dto.RosterResponse{Apprentices: rows, Total: len(rows)}, nil
}
