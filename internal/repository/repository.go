package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Profile    ProfileRepository
	Apprentice ApprenticeRepository
	Entry      LogbookEntryRepository
	Submission SubmissionRepository
	Curriculum CurriculumRepository
	Progress   ProgressRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Profile:    NewProfileRepo(db),
		Apprentice: NewApprenticeRepo(db),
		Entry:      NewLogbookEntryRepo(db),
		Submission: NewSubmissionRepo(db),
		Curriculum: NewCurriculumRepo(db),
		Progress:   NewProgressRepo(db),
	}
}
