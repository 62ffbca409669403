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

// LogbookService 学徒日志条目业务接口
type LogbookService interface {
	CreateEntry(ctx context.Context, id Identity, req *dto.CreateEntryRequest) (*dto.EntryResponse, error)
	// UpdateEntry 仅本人草稿可编辑；certify=true 时转为已提交
	UpdateEntry(ctx context.Context, id Identity, entryID string, req *dto.UpdateEntryRequest) (*dto.EntryResponse, error)
	GetEntry(ctx context.Context, id Identity, entryID string) (*dto.EntryResponse, error)
	ListMyEntries(ctx context.Context, id Identity, req *dto.EntryListRequest) ([]dto.EntryResponse, int64, error)
	DeleteEntry(ctx context.Context, id Identity, entryID string) error
}

type logbookService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLogbookService 创建 LogbookService 实例
func NewLogbookService(repo *repository.Repository, logger *zap.Logger) LogbookService {
	return &logbookService{repo: repo, logger: logger}
}

// entryFields 校验通过后的条目字段
type entryFields struct {
	date        time.Time
	start, end  logbook.ClockTime
	hours       float64
	description string
	chapterCode string
}

// validateEntry 字段校验；结束时间必须严格晚于开始时间
func validateEntry(req *dto.EntryRequest) (*entryFields, error) {
	if req == nil {
		return nil, pkgerrors.Kind(pkgerrors.ErrValidation, "请求体不能为空")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.EntryDate)
	if err != nil {
		return nil, pkgerrors.NewFieldError("entry_date", "日期格式必须为 YYYY-MM-DD")
	}
	start, err := logbook.ParseClockTime(req.StartTime)
	if err != nil {
		return nil, pkgerrors.NewFieldError("start_time", "时间格式必须为 HH:MM")
	}
	end, err := logbook.ParseClockTime(req.EndTime)
	if err != nil {
		return nil, pkgerrors.NewFieldError("end_time", "时间格式必须为 HH:MM")
	}
	if end <= start {
		return nil, pkgerrors.NewFieldError("end_time", "结束时间必须晚于开始时间")
	}
	if !logbook.IsKnownChapter(req.ChapterCode) {
		return nil, pkgerrors.NewFieldError("chapter_code", "未知的 ATA 章节")
	}
	return &entryFields{
		date:        date,
		start:       start,
		end:         end,
		hours:       logbook.ComputeHoursWorked(start, end),
		description: req.Description,
		chapterCode: req.ChapterCode,
	}, nil
}

func (f *entryFields) applyTo(e *model.LogbookEntry) {
	e.EntryDate = f.date
	e.StartTime = f.start.String()
	e.EndTime = f.end.String()
	e.HoursWorked = f.hours
	e.Description = f.description
	e.ChapterCode = f.chapterCode
	e.SkillsPracticed = logbook.EncodeLegacyChapter(f.chapterCode)
}

func (s *logbookService) getEntry(ctx context.Context, entryID string) (*model.LogbookEntry, error) {
	entry, err := s.repo.Entry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("查询日志条目失败", zap.String("entry_id", entryID), zap.Error(err))
		return nil, err
	}
	return entry, nil
}

// ownedEntry 加载条目并确认调用者是条目所属学徒本人
// 调用者没有学徒记录（导师、管理员）时同样视为无权，而非学徒不存在
func (s *logbookService) ownedEntry(ctx context.Context, id Identity, entryID string) (*model.LogbookEntry, error) {
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	owner, err := apprenticeByID(ctx, s.repo, s.logger, entry.ApprenticeID)
	if err != nil {
		return nil, err
	}
	if owner.UserID != id.UserID {
		return nil, ErrEntryNotOwned
	}
	return entry, nil
}

// ────────────────────── CreateEntry ──────────────────────

func (s *logbookService) CreateEntry(ctx context.Context, id Identity, req *dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		return nil, err
	}
	fields, err := validateEntry(req)
	if err != nil {
		return nil, err
	}

	entry := &model.LogbookEntry{
		ApprenticeID: apprentice.ID,
		Status:       string(logbook.InitialStatus(req.Certify)),
	}
	fields.applyTo(entry)

	if err := s.repo.Entry.Create(ctx, entry); err != nil {
		s.logger.Error("创建日志条目失败", zap.String("apprentice_id", apprentice.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("日志条目已创建",
		zap.String("entry_id", entry.ID),
		zap.String("status", entry.Status),
		zap.Float64("hours", entry.HoursWorked),
	)
	resp := toEntryResponse(entry)
	return &resp, nil
}

// ────────────────────── UpdateEntry ──────────────────────

func (s *logbookService) UpdateEntry(ctx context.Context, id Identity, entryID string, req *dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	entry, err := s.ownedEntry(ctx, id, entryID)
	if err != nil {
		return nil, err
	}

	// 权限与状态守卫先于字段校验，终态条目不因请求内容不同而返回不同错误
	current := logbook.EntryStatus(entry.Status)
	if !logbook.CanEdit(current) {
		return nil, ErrEntryNotEditable
	}

	fields, err := validateEntry(req)
	if err != nil {
		return nil, err
	}
	fields.applyTo(entry)
	entry.Status = string(logbook.NextOnEdit(current, req.Certify))

	if err := s.repo.Entry.Update(ctx, entry); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrEntryConflict
		}
		s.logger.Error("更新日志条目失败", zap.String("entry_id", entryID), zap.Error(err))
		return nil, err
	}

	resp := toEntryResponse(entry)
	return &resp, nil
}

// ────────────────────── GetEntry ──────────────────────

func (s *logbookService) GetEntry(ctx context.Context, id Identity, entryID string) (*dto.EntryResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	apprentice, err := apprenticeByID(ctx, s.repo, s.logger, entry.ApprenticeID)
	if err != nil {
		return nil, err
	}
	if err := authorizeApprenticeView(ctx, s.repo, s.logger, id, apprentice); err != nil {
		return nil, err
	}
	resp := toEntryResponse(entry)
	return &resp, nil
}

// ────────────────────── ListMyEntries ──────────────────────

func (s *logbookService) ListMyEntries(ctx context.Context, id Identity, req *dto.EntryListRequest) ([]dto.EntryResponse, int64, error) {
	if err := requireIdentity(id); err != nil {
		return nil, 0, err
	}
	apprentice, err := apprenticeOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		return nil, 0, err
	}
	if req == nil {
		req = &dto.EntryListRequest{}
	}

	filter := repository.EntryFilter{
		Status: req.Status,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	}
	if req.From != "" {
		from, err := parseDate(req.From)
		if err != nil {
			return nil, 0, pkgerrors.NewFieldError("from", "日期格式必须为 YYYY-MM-DD")
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			return nil, 0, pkgerrors.NewFieldError("to", "日期格式必须为 YYYY-MM-DD")
		}
		filter.To = &to
	}

	entries, total, err := s.repo.Entry.List(ctx, apprentice.ID, filter)
	if err != nil {
		s.logger.Error("查询日志条目列表失败", zap.String("apprentice_id", apprentice.ID), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		list = append(list, toEntryResponse(&entries[i]))
	}
	return list, total, nil
}

// ────────────────────── DeleteEntry ──────────────────────

func (s *logbookService) DeleteEntry(ctx context.Context, id Identity, entryID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	entry, err := s.ownedEntry(ctx, id, entryID)
	if err != nil {
		return err
	}
	if !logbook.CanEdit(logbook.EntryStatus(entry.Status)) {
		return ErrEntryNotEditable
	}
	if err := s.repo.Entry.Delete(ctx, entryID); err != nil {
		s.logger.Error("删除日志条目失败", zap.String("entry_id", entryID), zap.Error(err))
		return err
	}
	return nil
}
