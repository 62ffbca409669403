package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Maddrobots/hangar13demo/internal/model"
)

// ApprenticeRepository 学徒数据访问接口
type ApprenticeRepository interface {
	Create(ctx context.Context, a *model.Apprentice) error
	GetByID(ctx context.Context, id string) (*model.Apprentice, error)
	GetByUserID(ctx context.Context, userID string) (*model.Apprentice, error)
	// ListByMentor 导师名下指定状态的学徒，按创建时间倒序
	ListByMentor(ctx context.Context, mentorID, status string) ([]model.Apprentice, error)
	// ListUnassigned 在训且尚未分配导师的学徒
	ListUnassigned(ctx context.Context) ([]model.Apprentice, error)
	UpdateMentor(ctx context.Context, id string, mentorID *string) error
	// ClaimMentor 仅当学徒尚无导师时写入，返回是否认领成功
	ClaimMentor(ctx context.Context, id, mentorID string) (bool, error)
	UpdateStatus(ctx context.Context, id, status string, endDate *time.Time) error
}

type apprenticeRepo struct {
	db *gorm.DB
}

// NewApprenticeRepo 创建 ApprenticeRepository 实例
func NewApprenticeRepo(db *gorm.DB) ApprenticeRepository {
	return &apprenticeRepo{db: db}
}

func (r *apprenticeRepo) Create(ctx context.Context, a *model.Apprentice) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *apprenticeRepo) GetByID(ctx context.Context, id string) (*model.Apprentice, error) {
	var a model.Apprentice
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *apprenticeRepo) GetByUserID(ctx context.Context, userID string) (*model.Apprentice, error) {
	var a model.Apprentice
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *apprenticeRepo) ListByMentor(ctx context.Context, mentorID, status string) ([]model.Apprentice, error) {
	var list []model.Apprentice
	err := r.db.WithContext(ctx).
		Where("mentor_id = ? AND status = ?", mentorID, status).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *apprenticeRepo) ListUnassigned(ctx context.Context) ([]model.Apprentice, error) {
	var list []model.Apprentice
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("mentor_id IS NULL AND status = ?", model.ApprenticeActive).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *apprenticeRepo) UpdateMentor(ctx context.Context, id string, mentorID *string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Apprentice{}).
		Where("id = ?", id).
		Update("mentor_id", mentorID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *apprenticeRepo) ClaimMentor(ctx context.Context, id, mentorID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Apprentice{}).
		Where("id = ? AND mentor_id IS NULL", id).
		Update("mentor_id", mentorID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *apprenticeRepo) UpdateStatus(ctx context.Context, id, status string, endDate *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Apprentice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   status,
			"end_date": endDate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
