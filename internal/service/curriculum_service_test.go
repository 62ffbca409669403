package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/model"
)

const (
	itemSafety = "4a0c2a7e-1b2c-4d3e-8f40-000000000001"
	itemTorque = "4a0c2a7e-1b2c-4d3e-8f40-000000000002"
)

var curriculumNow = time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)

func setupTestCurriculumService() (*curriculumService, *testFixture) {
	f := newTestFixture()
	f.addProfile("u-app", "Alex Apprentice", model.RoleApprentice)
	f.addProfile("u-mentor", "Morgan Mentor", model.RoleMentor)
	f.addProfile("u-mentor2", "Casey Mentor", model.RoleMentor)
	f.addApprentice("u-app", strPtr("u-mentor"), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f.curriculum.items = []model.CurriculumItem{
		{ID: itemSafety, Title: "Shop safety", OrderIndex: 1, IsActive: true},
		{ID: itemTorque, Title: "Torque practices", OrderIndex: 2, IsActive: true},
	}
	return &curriculumService{repo: f.repo, logger: f.logger, now: fixedNow(curriculumNow)}, f
}

func TestCurriculumService_List_DefaultsNotStarted(t *testing.T) {
	svc, f := setupTestCurriculumService()
	_ = f.progress.Upsert(context.Background(), &model.ApprenticeProgress{
		ApprenticeID: "appr-u-app", CurriculumItemID: itemTorque, Status: "in_progress", HoursSpent: 3,
	})

	items, err := svc.List(context.Background(), appIdentity)
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("期望 2 项，实际 %d", len(items))
	}
	if items[0].Status != "not_started" {
		t.Errorf("无进度记录应为 not_started，实际 %s", items[0].Status)
	}
	if items[1].Status != "in_progress" || items[1].HoursSpent != 3 {
		t.Errorf("进度不符: %+v", items[1])
	}
}

func TestCurriculumService_UpdateProgress_CompleteSetsTimestamp(t *testing.T) {
	svc, f := setupTestCurriculumService()

	resp, err := svc.UpdateProgress(context.Background(), appIdentity, itemSafety, &dto.UpdateCurriculumProgressRequest{
		Status: "completed", HoursSpent: 4,
	})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if resp.CompletedAt == nil {
		t.Error("完成时应记录 completed_at")
	}
	row := f.progress.rows["appr-u-app|"+itemSafety]
	if row.CompletedAt == nil || !row.CompletedAt.Equal(curriculumNow) {
		t.Errorf("completed_at 不符: %v", row.CompletedAt)
	}
}

func TestCurriculumService_UpdateProgress_ApprenticeCannotReview(t *testing.T) {
	svc, _ := setupTestCurriculumService()

	_, err := svc.UpdateProgress(context.Background(), appIdentity, itemSafety, &dto.UpdateCurriculumProgressRequest{
		ApprenticeID: "4a0c2a7e-1b2c-4d3e-8f40-0000000000ff",
		Status:       "reviewed",
	})
	if err == nil {
		t.Error("学徒不应能标记 reviewed")
	}
}

func TestCurriculumService_UpdateProgress_MentorReview(t *testing.T) {
	svc, f := setupTestCurriculumService()
	// 测试夹具学徒 ID 非 UUID，直接改用 UUID 形式的学徒
	a := f.addApprentice("u-app-uuid", strPtr("u-mentor"), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	uuidID := "4a0c2a7e-1b2c-4d3e-8f40-0000000000aa"
	stored := f.apprentices.apprentices[a.ID]
	delete(f.apprentices.apprentices, a.ID)
	stored.ID = uuidID
	f.apprentices.apprentices[uuidID] = stored

	review := &dto.UpdateCurriculumProgressRequest{ApprenticeID: uuidID, Status: "reviewed"}

	_, err := svc.UpdateProgress(context.Background(), mentorIdentity, itemSafety, review)
	if !errors.Is(err, ErrProgressNotCompleted) {
		t.Fatalf("未完成的课程项不能审核，实际: %v", err)
	}

	completedAt := curriculumNow.Add(-time.Hour)
	_ = f.progress.Upsert(context.Background(), &model.ApprenticeProgress{
		ApprenticeID: uuidID, CurriculumItemID: itemSafety, Status: "completed", HoursSpent: 5, CompletedAt: &completedAt,
	})

	_, err = svc.UpdateProgress(context.Background(), Identity{UserID: "u-mentor2"}, itemSafety, review)
	if !errors.Is(err, ErrReviewMentorOnly) {
		t.Errorf("非当前导师应被拒绝，实际: %v", err)
	}

	resp, err := svc.UpdateProgress(context.Background(), mentorIdentity, itemSafety, review)
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if resp.Status != "reviewed" || resp.HoursSpent != 5 {
		t.Errorf("审核应保留原工时: %+v", resp)
	}
}

func TestCurriculumService_UpdateProgress_ReviewedIsLocked(t *testing.T) {
	svc, f := setupTestCurriculumService()
	_ = f.progress.Upsert(context.Background(), &model.ApprenticeProgress{
		ApprenticeID: "appr-u-app", CurriculumItemID: itemSafety, Status: "reviewed",
	})

	_, err := svc.UpdateProgress(context.Background(), appIdentity, itemSafety, &dto.UpdateCurriculumProgressRequest{Status: "in_progress"})
	if !errors.Is(err, ErrProgressReviewed) {
		t.Errorf("期望 ErrProgressReviewed，实际: %v", err)
	}
}

func TestCurriculumService_UpdateProgress_UnknownItem(t *testing.T) {
	svc, _ := setupTestCurriculumService()

	_, err := svc.UpdateProgress(context.Background(), appIdentity, "missing", &dto.UpdateCurriculumProgressRequest{Status: "in_progress"})
	if !errors.Is(err, ErrCurriculumItemNotFound) {
		t.Errorf("期望 ErrCurriculumItemNotFound，实际: %v", err)
	}
}
