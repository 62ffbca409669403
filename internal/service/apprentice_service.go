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

// ApprenticeService 学徒档案管理业务接口
type ApprenticeService interface {
	Enroll(ctx context.Context, id Identity, req *dto.EnrollApprenticeRequest) (*dto.ApprenticeResponse, error)
	Get(ctx context.Context, id Identity, apprenticeID string) (*dto.ApprenticeResponse, error)
	// ListAssignable 在训且未分配导师的学徒及其累计工时
	ListAssignable(ctx context.Context, id Identity) ([]dto.AssignableApprenticeResponse, error)
	ClaimApprentice(ctx context.Context, id Identity, apprenticeID string) (*dto.ApprenticeResponse, error)
	// AssignMentor 管理员指派或更换导师，后写覆盖先写
	AssignMentor(ctx context.Context, id Identity, apprenticeID string, req *dto.AssignMentorRequest) (*dto.ApprenticeResponse, error)
	UpdateStatus(ctx context.Context, id Identity, apprenticeID string, req *dto.UpdateApprenticeStatusRequest) (*dto.ApprenticeResponse, error)
}

type apprenticeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewApprenticeService 创建 ApprenticeService 实例
func NewApprenticeService(repo *repository.Repository, logger *zap.Logger) ApprenticeService {
	return &apprenticeService{repo: repo, logger: logger}
}

func (s *apprenticeService) requireStaff(ctx context.Context, id Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	caller, err := profileOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrStaffOnly
		}
		return err
	}
	if !caller.IsStaff() {
		return ErrStaffOnly
	}
	return nil
}

func (s *apprenticeService) requireMentor(ctx context.Context, id Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	caller, err := profileOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrMentorOnly
		}
		return err
	}
	if caller.Role != model.RoleMentor {
		return ErrMentorOnly
	}
	return nil
}

// checkMentor 目标用户必须存在且为导师
func (s *apprenticeService) checkMentor(ctx context.Context, mentorID string) error {
	mentor, err := s.repo.Profile.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMentorNotFound
		}
		s.logger.Error("查询导师档案失败", zap.String("mentor_id", mentorID), zap.Error(err))
		return err
	}
	if mentor.Role != model.RoleMentor {
		return ErrNotAMentor
	}
	return nil
}

// ────────────────────── Enroll ──────────────────────

func (s *apprenticeService) Enroll(ctx context.Context, id Identity, req *dto.EnrollApprenticeRequest) (*dto.ApprenticeResponse, error) {
	if err := s.requireStaff(ctx, id); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, pkgerrors.Kind(pkgerrors.ErrValidation, "请求体不能为空")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, pkgerrors.NewFieldError("start_date", "日期格式必须为 YYYY-MM-DD")
	}

	profile, err := s.repo.Profile.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户档案失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Apprentice.GetByUserID(ctx, req.UserID); err == nil {
		return nil, ErrApprenticeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学徒记录失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}
	if req.MentorID != nil {
		if err := s.checkMentor(ctx, *req.MentorID); err != nil {
			return nil, err
		}
	}

	apprentice := &model.Apprentice{
		UserID:    req.UserID,
		MentorID:  req.MentorID,
		StartDate: startDate,
		Status:    model.ApprenticeActive,
	}
	if err := s.repo.Apprentice.Create(ctx, apprentice); err != nil {
		s.logger.Error("登记学徒失败", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}
	apprentice.Profile = profile

	s.logger.Info("学徒已登记",
		zap.String("apprentice_id", apprentice.ID),
		zap.String("user_id", req.UserID),
		zap.String("operator", id.UserID),
	)
	resp := toApprenticeResponse(apprentice)
	return &resp, nil
}

// ────────────────────── Get ──────────────────────

func (s *apprenticeService) Get(ctx context.Context, id Identity, apprenticeID string) (*dto.ApprenticeResponse, error) {
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
	resp := toApprenticeResponse(apprentice)
	return &resp, nil
}

// ────────────────────── ListAssignable ──────────────────────

func (s *apprenticeService) ListAssignable(ctx context.Context, id Identity) ([]dto.AssignableApprenticeResponse, error) {
	if err := s.requireMentor(ctx, id); err != nil {
		return nil, err
	}
	list, err := s.repo.Apprentice.ListUnassigned(ctx)
	if err != nil {
		s.logger.Error("查询未分配学徒失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AssignableApprenticeResponse, 0, len(list))
	if len(list) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	sums, err := s.repo.Entry.SumHoursByApprenticeIDs(ctx, ids)
	if err != nil {
		s.logger.Error("汇总学徒工时失败", zap.Error(err))
		return nil, err
	}
	hours := make(map[string]float64, len(sums))
	for _, h := range sums {
		hours[h.ApprenticeID] = h.TotalHours
	}

	for i := range list {
		result = append(result, dto.AssignableApprenticeResponse{
			ApprenticeResponse: toApprenticeResponse(&list[i]),
			TotalHours:         logbook.Round2(hours[list[i].ID]),
		})
	}
	return result, nil
}

// ────────────────────── ClaimApprentice ──────────────────────

func (s *apprenticeService) ClaimApprentice(ctx context.Context, id Identity, apprenticeID string) (*dto.ApprenticeResponse, error) {
	if err := s.requireMentor(ctx, id); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeByID(ctx, s.repo, s.logger, apprenticeID)
	if err != nil {
		return nil, err
	}
	if apprentice.MentorID != nil {
		return nil, ErrAlreadyAssigned
	}
	claimed, err := s.repo.Apprentice.ClaimMentor(ctx, apprenticeID, id.UserID)
	if err != nil {
		s.logger.Error("认领学徒失败", zap.String("apprentice_id", apprenticeID), zap.Error(err))
		return nil, err
	}
	if !claimed {
		return nil, ErrAlreadyAssigned
	}

	mentorID := id.UserID
	apprentice.MentorID = &mentorID
	s.logger.Info("导师已认领学徒",
		zap.String("apprentice_id", apprenticeID),
		zap.String("mentor_id", mentorID),
	)
	resp := toApprenticeResponse(apprentice)
	return &resp, nil
}

// ────────────────────── AssignMentor ──────────────────────

func (s *apprenticeService) AssignMentor(ctx context.Context, id Identity, apprenticeID string, req *dto.AssignMentorRequest) (*dto.ApprenticeResponse, error) {
	if err := s.requireStaff(ctx, id); err != nil {
		return nil, err
	}
	if req == nil {
		req = &dto.AssignMentorRequest{}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeByID(ctx, s.repo, s.logger, apprenticeID)
	if err != nil {
		return nil, err
	}
	if req.MentorID != nil {
		if err := s.checkMentor(ctx, *req.MentorID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Apprentice.UpdateMentor(ctx, apprenticeID, req.MentorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApprenticeNotFound
		}
		s.logger.Error("指派导师失败", zap.String("apprentice_id", apprenticeID), zap.Error(err))
		return nil, err
	}

	apprentice.MentorID = req.MentorID
	s.logger.Info("学徒导师已变更",
		zap.String("apprentice_id", apprenticeID),
		zap.Stringp("mentor_id", req.MentorID),
		zap.String("operator", id.UserID),
	)
	resp := toApprenticeResponse(apprentice)
	return &resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *apprenticeService) UpdateStatus(ctx context.Context, id Identity, apprenticeID string, req *dto.UpdateApprenticeStatusRequest) (*dto.ApprenticeResponse, error) {
	if err := s.requireStaff(ctx, id); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, pkgerrors.Kind(pkgerrors.ErrValidation, "请求体不能为空")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeByID(ctx, s.repo, s.logger, apprenticeID)
	if err != nil {
		return nil, err
	}

	var endDate *time.Time
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, pkgerrors.NewFieldError("end_date", "日期格式必须为 YYYY-MM-DD")
		}
		if d.Before(apprentice.StartDate) {
			return nil, pkgerrors.NewFieldError("end_date", "结束日期不能早于入职日期")
		}
		endDate = &d
	}
	if err := s.repo.Apprentice.UpdateStatus(ctx, apprenticeID, req.Status, endDate); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApprenticeNotFound
		}
		s.logger.Error("更新学徒状态失败", zap.String("apprentice_id", apprenticeID), zap.Error(err))
		return nil, err
	}

	apprentice.Status = req.Status
	apprentice.EndDate = endDate
	s.logger.Info("学徒状态已更新",
		zap.String("apprentice_id", apprenticeID),
		zap.String("status", req.Status),
	)
	resp := toApprenticeResponse(apprentice)
	return &resp, nil
}
