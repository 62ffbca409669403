package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Maddrobots/hangar13demo/internal/model"
)

// CurriculumRepository 课程目录数据访问接口
type CurriculumRepository interface {
	ListActive(ctx context.Context) ([]model.CurriculumItem, error)
	GetByID(ctx context.Context, id string) (*model.CurriculumItem, error)
}

type curriculumRepo struct {
	db *gorm.DB
}

// NewCurriculumRepo 创建 CurriculumRepository 实例
func NewCurriculumRepo(db *gorm.DB) CurriculumRepository {
	return &curriculumRepo{db: db}
}

func (r *curriculumRepo) ListActive(ctx context.Context) ([]model.CurriculumItem, error) {
	var items []model.CurriculumItem
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("order_index ASC").
		Find(&items).Error
	return items, err
}

func (r *curriculumRepo) GetByID(ctx context.Context, id string) (*model.CurriculumItem, error) {
	var item model.CurriculumItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ProgressRepository 学徒课程进度数据访问接口
type ProgressRepository interface {
	ListByApprentice(ctx context.Context, apprenticeID string) ([]model.ApprenticeProgress, error)
	ListByApprenticeIDs(ctx context.Context, apprenticeIDs []string) ([]model.ApprenticeProgress, error)
	// Upsert 按 (apprentice_id, curriculum_item_id) 插入或覆盖
	Upsert(ctx context.Context, p *model.ApprenticeProgress) error
}

type progressRepo struct {
	db *gorm.DB
}

// NewProgressRepo 创建 ProgressRepository 实例
func NewProgressRepo(db *gorm.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) ListByApprentice(ctx context.Context, apprenticeID string) ([]model.ApprenticeProgress, error) {
	var list []model.ApprenticeProgress
	err := r.db.WithContext(ctx).Where("apprentice_id = ?", apprenticeID).Find(&list).Error
	return list, err
}

func (r *progressRepo) ListByApprenticeIDs(ctx context.Context, apprenticeIDs []string) ([]model.ApprenticeProgress, error) {
	var list []model.ApprenticeProgress
	if len(apprenticeIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("apprentice_id IN ?", apprenticeIDs).Find(&list).Error
	return list, err
}

func (r *progressRepo) Upsert(ctx context.Context, p *model.ApprenticeProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "apprentice_id"}, {Name: "curriculum_item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "hours_spent", "completed_at", "updated_at"}),
		}).
		Create(p).Error
}
