package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/model"
	"github.com/Maddrobots/hangar13demo/internal/repository"
	pkgerrors "github.com/Maddrobots/hangar13demo/pkg/errors"
	"github.com/Maddrobots/hangar13demo/pkg/storage"
)

// 周报限制
const (
	MaxReflectionLength = 1000
	MaxSubmissionFiles  = 5
	MaxAttachmentSize   = 10 * 1024 * 1024
)

var allowedAttachmentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var allowedAttachmentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// SubmissionService 周反思业务接口
type SubmissionService interface {
	// Submit 同一周重复提交覆盖原内容，附件整体替换
	Submit(ctx context.Context, id Identity, week int, req *dto.SubmitReflectionRequest) (*dto.SubmitReflectionResponse, error)
	// Get 该周尚未提交时返回 nil, nil
	Get(ctx context.Context, id Identity, week int) (*dto.SubmissionResponse, error)
	List(ctx context.Context, id Identity) ([]dto.SubmissionResponse, error)
	UploadFile(ctx context.Context, id Identity, week int, fileName, contentType string, data []byte) (*dto.UploadedFileResponse, error)
}

type submissionService struct {
	repo   *repository.Repository
	store  storage.ObjectStore
	logger *zap.Logger
	now    func() time.Time
}

// NewSubmissionService 创建 SubmissionService 实例，store 为 nil 时附件上传不可用
func NewSubmissionService(repo *repository.Repository, store storage.ObjectStore, logger *zap.Logger) SubmissionService {
	return &submissionService{repo: repo, store: store, logger: logger, now: time.Now}
}

// validateWeek 只要求周次为正整数，学徒延期超过培养周期后仍可继续提交
func validateWeek(week int) error {
	if week < 1 {
		return pkgerrors.NewFieldError("week_number", "周次必须为正整数")
	}
	return nil
}

func validateReflection(req *dto.SubmitReflectionRequest) error {
	if req == nil {
		return pkgerrors.Kind(pkgerrors.ErrValidation, "请求体不能为空")
	}
	if strings.TrimSpace(req.ReflectionText) == "" {
		return pkgerrors.NewFieldError("reflection_text", "不能为空")
	}
	if utf8.RuneCountInString(req.ReflectionText) > MaxReflectionLength {
		return pkgerrors.NewFieldError("reflection_text", fmt.Sprintf("长度不能超过 %d 个字符", MaxReflectionLength))
	}
	if len(req.Files) > MaxSubmissionFiles {
		return pkgerrors.NewFieldError("files", fmt.Sprintf("最多 %d 个附件", MaxSubmissionFiles))
	}
	for i := range req.Files {
		if err := validateStruct(&req.Files[i]); err != nil {
			return err
		}
		if req.Files[i].FileSize > MaxAttachmentSize {
			return pkgerrors.NewFieldError("files", "单个附件不能超过 10MB")
		}
	}
	return validateStruct(req)
}

// ────────────────────── Submit ──────────────────────

func (s *submissionService) Submit(ctx context.Context, id Identity, week int, req *dto.SubmitReflectionRequest) (*dto.SubmitReflectionResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	if err := validateReflection(req); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		return nil, err
	}

	var itemID *string
	if req.CurriculumItemID != nil && *req.CurriculumItemID != "" {
		if _, err := s.repo.Curriculum.GetByID(ctx, *req.CurriculumItemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCurriculumItemNotFound
			}
			s.logger.Error("查询课程项失败", zap.String("item_id", *req.CurriculumItemID), zap.Error(err))
			return nil, err
		}
		itemID = req.CurriculumItemID
	}

	submission := &model.WeeklySubmission{
		ApprenticeID:     apprentice.ID,
		WeekNumber:       week,
		CurriculumItemID: itemID,
		ReflectionText:   req.ReflectionText,
		Status:           model.SubmissionStatusSubmitted,
		SubmittedAt:      s.now().UTC(),
	}
	if err := s.repo.Submission.Upsert(ctx, submission); err != nil {
		s.logger.Error("保存周报失败",
			zap.String("apprentice_id", apprentice.ID),
			zap.Int("week", week),
			zap.Error(err),
		)
		return nil, err
	}

	files := make([]model.WeeklySubmissionFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, model.WeeklySubmissionFile{
			SubmissionID: submission.ID,
			FileURL:      f.FileURL,
			FileName:     f.FileName,
			FileSize:     f.FileSize,
			FileType:     f.FileType,
		})
	}

	result := &dto.SubmitReflectionResponse{SubmissionID: submission.ID, AttachmentsSaved: true}
	// 周报本身已保存，附件记录写入失败不回滚
	if err := s.repo.Submission.ReplaceFiles(ctx, submission.ID, files); err != nil {
		s.logger.Warn("周报附件记录写入失败",
			zap.String("submission_id", submission.ID),
			zap.Int("files", len(files)),
			zap.Error(err),
		)
		result.AttachmentsSaved = false
	}

	s.logger.Info("周报已提交",
		zap.String("submission_id", submission.ID),
		zap.String("apprentice_id", apprentice.ID),
		zap.Int("week", week),
		zap.Bool("attachments_saved", result.AttachmentsSaved),
	)
	return result, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *submissionService) Get(ctx context.Context, id Identity, week int) (*dto.SubmissionResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		return nil, err
	}
	sub, err := s.repo.Submission.GetByApprenticeAndWeek(ctx, apprentice.ID, week)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询周报失败", zap.String("apprentice_id", apprentice.ID), zap.Int("week", week), zap.Error(err))
		return nil, err
	}
	resp := toSubmissionResponse(sub)
	return &resp, nil
}

func (s *submissionService) List(ctx context.Context, id Identity) ([]dto.SubmissionResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	apprentice, err := apprenticeOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		return nil, err
	}
	subs, err := s.repo.Submission.ListByApprentice(ctx, apprentice.ID)
	if err != nil {
		s.logger.Error("查询周报列表失败", zap.String("apprentice_id", apprentice.ID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.SubmissionResponse, 0, len(subs))
	for i := range subs {
		result = append(result, toSubmissionResponse(&subs[i]))
	}
	return result, nil
}

// ────────────────────── UploadFile ──────────────────────

func isAllowedAttachment(fileName, contentType string) bool {
	if strings.HasPrefix(contentType, "image/") || allowedAttachmentTypes[contentType] {
		return true
	}
	return allowedAttachmentExts[strings.ToLower(path.Ext(fileName))]
}

// attachmentKey weekly-submissions/<user>/<week>/<ts>-<rand>.<ext>
func attachmentKey(userID string, week int, fileName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(fileName))
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("weekly-submissions/%s/%d/%d-%s%s", userID, week, now.UnixMilli(), random, ext)
}

func (s *submissionService) UploadFile(ctx context.Context, id Identity, week int, fileName, contentType string, data []byte) (*dto.UploadedFileResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, pkgerrors.NewFieldError("file", "文件不能为空")
	}
	if len(data) > MaxAttachmentSize {
		return nil, pkgerrors.NewFieldError("file", "单个附件不能超过 10MB")
	}
	if !isAllowedAttachment(fileName, contentType) {
		return nil, pkgerrors.NewFieldError("file", "仅支持图片、PDF 与 Word 文档")
	}
	if _, err := apprenticeOf(ctx, s.repo, s.logger, id.UserID); err != nil {
		return nil, err
	}

	key := attachmentKey(id.UserID, week, fileName, s.now())
	url, err := s.store.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, pkgerrors.Kind(pkgerrors.ErrDependentWrite, "附件上传失败")
	}

	s.logger.Info("附件已上传", zap.String("key", key), zap.Int("size", len(data)))
	return &dto.UploadedFileResponse{
		FileURL:  url,
		FileName: fileName,
		FileSize: int64(len(data)),
		FileType: contentType,
	}, nil
}
