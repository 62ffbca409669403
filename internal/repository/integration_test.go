//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Maddrobots/hangar13demo/internal/logbook"
	"github.com/Maddrobots/hangar13demo/internal/model"
	"github.com/Maddrobots/hangar13demo/internal/repository"
	"github.com/Maddrobots/hangar13demo/pkg/database"
	pkgerrors "github.com/Maddrobots/hangar13demo/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=hangar13 password=hangar13_password dbname=hangar13_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

type fixture struct {
	apprenticeUser *model.Profile
	mentor         *model.Profile
	apprentice     *model.Apprentice
}

// setupFixture 创建学徒、导师档案并返回清理函数
func setupFixture(t *testing.T) (*fixture, func()) {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	suffix := time.Now().UnixNano()

	mentor := &model.Profile{
		Email:        fmt.Sprintf("mentor%d@hangar13.test", suffix),
		FullName:     "测试导师",
		Role:         model.RoleMentor,
		PasswordHash: "$2a$10$placeholder",
	}
	if err := repo.Profile.Create(ctx, mentor); err != nil {
		t.Fatalf("创建导师失败: %v", err)
	}

	user := &model.Profile{
		Email:        fmt.Sprintf("apprentice%d@hangar13.test", suffix),
		FullName:     "测试学徒",
		Role:         model.RoleApprentice,
		PasswordHash: "$2a$10$placeholder",
	}
	if err := repo.Profile.Create(ctx, user); err != nil {
		t.Fatalf("创建学徒档案失败: %v", err)
	}

	a := &model.Apprentice{
		UserID:    user.ID,
		MentorID:  &mentor.ID,
		StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Status:    model.ApprenticeActive,
	}
	if err := repo.Apprentice.Create(ctx, a); err != nil {
		t.Fatalf("创建学徒失败: %v", err)
	}

	cleanup := func() {
		sub := testDB.Model(&model.WeeklySubmission{}).Select("id").Where("apprentice_id = ?", a.ID)
		testDB.Where("submission_id IN (?)", sub).Delete(&model.WeeklySubmissionFile{})
		testDB.Where("apprentice_id = ?", a.ID).Delete(&model.WeeklySubmission{})
		testDB.Unscoped().Where("apprentice_id = ?", a.ID).Delete(&model.LogbookEntry{})
		testDB.Where("id = ?", a.ID).Delete(&model.Apprentice{})
		testDB.Where("id IN ?", []string{user.ID, mentor.ID}).Delete(&model.Profile{})
	}
	return &fixture{apprenticeUser: user, mentor: mentor, apprentice: a}, cleanup
}

func newEntry(apprenticeID string, status logbook.EntryStatus) *model.LogbookEntry {
	return &model.LogbookEntry{
		ApprenticeID:    apprenticeID,
		EntryDate:       time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "08:00",
		EndTime:         "17:00",
		HoursWorked:     9,
		Description:     "更换主起落架刹车组件",
		ChapterCode:     "32",
		SkillsPracticed: logbook.EncodeLegacyChapter("32"),
		Status:          string(status),
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestLogbookEntry_Review_ConflictDetected(t *testing.T) {
	fx, cleanup := setupFixture(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	entry := newEntry(fx.apprentice.ID, logbook.StatusSubmitted)
	if err := repo.Entry.Create(ctx, entry); err != nil {
		t.Fatalf("创建条目失败: %v", err)
	}

	copy1, _ := repo.Entry.GetByID(ctx, entry.ID)
	copy2, _ := repo.Entry.GetByID(ctx, entry.ID)

	now := time.Now()
	copy1.Status = string(logbook.StatusApproved)
	copy1.ApprovedBy = &fx.mentor.ID
	copy1.ApprovedAt = &now
	if err := repo.Entry.Review(ctx, copy1, string(logbook.StatusSubmitted)); err != nil {
		t.Fatalf("第一次审批应成功: %v", err)
	}

	copy2.Status = string(logbook.StatusRejected)
	copy2.RejectedBy = &fx.mentor.ID
	copy2.RejectedAt = &now
	err := repo.Entry.Review(ctx, copy2, string(logbook.StatusSubmitted))
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，得到: %v", err)
	}

	final, _ := repo.Entry.GetByID(ctx, entry.ID)
	if final.Status != string(logbook.StatusApproved) || final.Version != 2 {
		t.Errorf("期望 approved/version=2，得到 %s/%d", final.Status, final.Version)
	}
}

func TestLogbookEntry_BatchedQueries(t *testing.T) {
	fx, cleanup := setupFixture(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	for _, s := range []logbook.EntryStatus{logbook.StatusDraft, logbook.StatusSubmitted, logbook.StatusSubmitted} {
		if err := repo.Entry.Create(ctx, newEntry(fx.apprentice.ID, s)); err != nil {
			t.Fatalf("创建条目失败: %v", err)
		}
	}

	pending, err := repo.Entry.ListByApprenticeIDs(ctx, []string{fx.apprentice.ID}, string(logbook.StatusSubmitted))
	if err != nil {
		t.Fatalf("批量查询失败: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("期望 2 条待审，得到 %d", len(pending))
	}

	sums, err := repo.Entry.SumHoursByApprenticeIDs(ctx, []string{fx.apprentice.ID})
	if err != nil {
		t.Fatalf("汇总工时失败: %v", err)
	}
	if len(sums) != 1 || sums[0].TotalHours != 27 {
		t.Errorf("期望累计 27h，得到 %+v", sums)
	}

	mine, err := repo.Apprentice.ListByMentor(ctx, fx.mentor.ID, model.ApprenticeActive)
	if err != nil || len(mine) != 1 {
		t.Errorf("期望导师名下 1 名学徒，得到 %d (%v)", len(mine), err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Weekly Submission Upsert
// ═══════════════════════════════════════════════════════════

func TestSubmission_UpsertReplacesFiles(t *testing.T) {
	fx, cleanup := setupFixture(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.WeeklySubmission{
		ApprenticeID:   fx.apprentice.ID,
		WeekNumber:     3,
		ReflectionText: "第一次提交",
		Status:         model.SubmissionStatusSubmitted,
		SubmittedAt:    time.Now(),
	}
	if err := repo.Submission.Upsert(ctx, first); err != nil {
		t.Fatalf("首次提交失败: %v", err)
	}
	if err := repo.Submission.ReplaceFiles(ctx, first.ID, []model.WeeklySubmissionFile{
		{FileURL: "https://cdn/a.pdf", FileName: "a.pdf", FileSize: 10, FileType: "application/pdf"},
		{FileURL: "https://cdn/b.png", FileName: "b.png", FileSize: 20, FileType: "image/png"},
	}); err != nil {
		t.Fatalf("写入附件失败: %v", err)
	}

	second := &model.WeeklySubmission{
		ApprenticeID:   fx.apprentice.ID,
		WeekNumber:     3,
		ReflectionText: "第二次提交",
		Status:         model.SubmissionStatusSubmitted,
		SubmittedAt:    time.Now(),
	}
	if err := repo.Submission.Upsert(ctx, second); err != nil {
		t.Fatalf("再次提交失败: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("同一周应覆盖同一条记录，first=%s second=%s", first.ID, second.ID)
	}
	if err := repo.Submission.ReplaceFiles(ctx, second.ID, []model.WeeklySubmissionFile{
		{FileURL: "https://cdn/c.docx", FileName: "c.docx", FileSize: 30},
	}); err != nil {
		t.Fatalf("替换附件失败: %v", err)
	}

	got, err := repo.Submission.GetByApprenticeAndWeek(ctx, fx.apprentice.ID, 3)
	if err != nil {
		t.Fatalf("读取周报失败: %v", err)
	}
	if got.ReflectionText != "第二次提交" {
		t.Errorf("期望反思内容被覆盖，得到 %s", got.ReflectionText)
	}
	if len(got.Files) != 1 || got.Files[0].FileName != "c.docx" {
		t.Errorf("附件应被整体替换，得到 %+v", got.Files)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Legacy Chapter Backfill
// ═══════════════════════════════════════════════════════════

func TestMigration_ChapterBackfillPattern(t *testing.T) {
	var code string
	err := testDB.Raw(`SELECT substring(?::text FROM 'ATA:\s*(\d+)\s*-')`, "ATA: 72 - Engine - Turbine/Turbo Prop").
		Scan(&code).Error
	if err != nil {
		t.Fatalf("执行回填表达式失败: %v", err)
	}
	if code != "72" {
		t.Errorf("期望回填 72，得到 %q", code)
	}
}
