package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Maddrobots/hangar13demo/internal/model"
)

// SubmissionRepository 周报数据访问接口
type SubmissionRepository interface {
	// Upsert 按 (apprentice_id, week_number) 插入或覆盖，回填 ID
	Upsert(ctx context.Context, s *model.WeeklySubmission) error
	GetByApprenticeAndWeek(ctx context.Context, apprenticeID string, week int) (*model.WeeklySubmission, error)
	ListByApprentice(ctx context.Context, apprenticeID string) ([]model.WeeklySubmission, error)
	// ReplaceFiles 事务内删除该周报的全部附件并写入新附件
	ReplaceFiles(ctx context.Context, submissionID string, files []model.WeeklySubmissionFile) error
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Upsert(ctx context.Context, s *model.WeeklySubmission) error {
	err := r.db.WithContext(ctx).
		Omit("Files").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "apprentice_id"}, {Name: "week_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"curriculum_item_id", "reflection_text", "status", "submitted_at", "updated_at",
			}),
		}).
		Create(s).Error
	if err != nil {
		return err
	}

	// ON CONFLICT 分支下 RETURNING 不一定回填主键，重新读取一次
	var saved model.WeeklySubmission
	if err := r.db.WithContext(ctx).
		Select("id", "created_at").
		Where("apprentice_id = ? AND week_number = ?", s.ApprenticeID, s.WeekNumber).
		First(&saved).Error; err != nil {
		return err
	}
	s.ID = saved.ID
	s.CreatedAt = saved.CreatedAt
	return nil
}

func (r *submissionRepo) GetByApprenticeAndWeek(ctx context.Context, apprenticeID string, week int) (*model.WeeklySubmission, error) {
	var s model.WeeklySubmission
	err := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("apprentice_id = ? AND week_number = ?", apprenticeID, week).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepo) ListByApprentice(ctx context.Context, apprenticeID string) ([]model.WeeklySubmission, error) {
	var list []model.WeeklySubmission
	err := r.db.WithContext(ctx).
		Preload("Files").
		Where("apprentice_id = ?", apprenticeID).
		Order("week_number DESC").
		Find(&list).Error
	return list, err
}

func (r *submissionRepo) ReplaceFiles(ctx context.Context, submissionID string, files []model.WeeklySubmissionFile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", submissionID).
			Delete(&model.WeeklySubmissionFile{}).Error; err != nil {
			return err
		}
		if len(files) == 0 {
			return nil
		}
		for i := range files {
			files[i].SubmissionID = submissionID
		}
		return tx.Create(&files).Error
	})
}
