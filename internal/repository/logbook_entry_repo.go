package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Maddrobots/hangar13demo/internal/model"
	pkgerrors "github.com/Maddrobots/hangar13demo/pkg/errors"
)

// EntryFilter 日志条目列表过滤条件
type EntryFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// ApprenticeHours 学徒累计工时
type ApprenticeHours struct {
	ApprenticeID string
	TotalHours   float64
}

// LogbookEntryRepository 日志条目数据访问接口
type LogbookEntryRepository interface {
	Create(ctx context.Context, entry *model.LogbookEntry) error
	GetByID(ctx context.Context, id string) (*model.LogbookEntry, error)
	// Update 乐观锁更新草稿内容字段（含状态），version 不匹配返回 ErrOptimisticLock
	Update(ctx context.Context, entry *model.LogbookEntry) error
	// Review 乐观锁写入审批结果，仅当当前状态为 fromStatus 时生效
	Review(ctx context.Context, entry *model.LogbookEntry, fromStatus string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, apprenticeID string, filter EntryFilter) ([]model.LogbookEntry, int64, error)
	// ListAllByApprentice 进度计算用，按日期倒序返回全部条目
	ListAllByApprentice(ctx context.Context, apprenticeID string) ([]model.LogbookEntry, error)
	// ListByApprenticeIDs 批量读取多名学徒的条目，status 为空表示不过滤
	ListByApprenticeIDs(ctx context.Context, apprenticeIDs []string, status string) ([]model.LogbookEntry, error)
	SumHoursByApprenticeIDs(ctx context.Context, apprenticeIDs []string) ([]ApprenticeHours, error)
}

type logbookEntryRepo struct {
	db *gorm.DB
}

// NewLogbookEntryRepo 创建 LogbookEntryRepository 实例
func NewLogbookEntryRepo(db *gorm.DB) LogbookEntryRepository {
	return &logbookEntryRepo{db: db}
}

func (r *logbookEntryRepo) Create(ctx context.Context, entry *model.LogbookEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *logbookEntryRepo) GetByID(ctx context.Context, id string) (*model.LogbookEntry, error) {
	var entry model.LogbookEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *logbookEntryRepo) Update(ctx context.Context, entry *model.LogbookEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.LogbookEntry{}).
		Where("id = ? AND version = ?", entry.ID, oldVersion).
		Updates(map[string]interface{}{
			"entry_date":       entry.EntryDate,
			"start_time":       entry.StartTime,
			"end_time":         entry.EndTime,
			"hours_worked":     entry.HoursWorked,
			"description":      entry.Description,
			"chapter_code":     entry.ChapterCode,
			"skills_practiced": entry.SkillsPracticed,
			"status":           entry.Status,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Bump()
	return nil
}

func (r *logbookEntryRepo) Review(ctx context.Context, entry *model.LogbookEntry, fromStatus string) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.LogbookEntry{}).
		Where("id = ? AND version = ? AND status = ?", entry.ID, oldVersion, fromStatus).
		Updates(map[string]interface{}{
			"status":        entry.Status,
			"approved_by":   entry.ApprovedBy,
			"approved_at":   entry.ApprovedAt,
			"rejected_by":   entry.RejectedBy,
			"rejected_at":   entry.RejectedAt,
			"reject_reason": entry.RejectReason,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Bump()
	return nil
}

func (r *logbookEntryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.LogbookEntry{}).Error
}

func (r *logbookEntryRepo) List(ctx context.Context, apprenticeID string, filter EntryFilter) ([]model.LogbookEntry, int64, error) {
	var entries []model.LogbookEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LogbookEntry{}).Where("apprentice_id = ?", apprenticeID)
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		db = db.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("entry_date <= ?", *filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Order("entry_date DESC, created_at DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *logbookEntryRepo) ListAllByApprentice(ctx context.Context, apprenticeID string) ([]model.LogbookEntry, error) {
	var entries []model.LogbookEntry
	err := r.db.WithContext(ctx).
		Where("apprentice_id = ?", apprenticeID).
		Order("entry_date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *logbookEntryRepo) ListByApprenticeIDs(ctx context.Context, apprenticeIDs []string, status string) ([]model.LogbookEntry, error) {
	var entries []model.LogbookEntry
	if len(apprenticeIDs) == 0 {
		return entries, nil
	}
	db := r.db.WithContext(ctx).Where("apprentice_id IN ?", apprenticeIDs)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("entry_date DESC, created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *logbookEntryRepo) SumHoursByApprenticeIDs(ctx context.Context, apprenticeIDs []string) ([]ApprenticeHours, error) {
	var rows []ApprenticeHours
	if len(apprenticeIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.LogbookEntry{}).
		Select("apprentice_id, COALESCE(SUM(hours_worked), 0) AS total_hours").
		Where("apprentice_id IN ?", apprenticeIDs).
		Group("apprentice_id").
		Scan(&rows).Error
	return rows, err
}
