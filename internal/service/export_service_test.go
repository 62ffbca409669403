package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"

	"github.com/Maddrobots/hangar13demo/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService() (*exportService, *testFixture) {
	f := newTestFixture()
	f.addProfile("u-app", "Alex Apprentice", model.RoleApprentice)
	f.addProfile("u-mentor", "Morgan Mentor", model.RoleMentor)
	f.addProfile("u-manager", "Pat Manager", model.RoleManager)
	f.addApprentice("u-app", strPtr("u-mentor"), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f.addEntry("appr-u-app", "approved", "2024-03-04", 8, "32")
	f.addEntry("appr-u-app", "submitted", "2024-03-05", 6.5, "29")
	f.addEntry("appr-u-app", "draft", "2024-03-06", 2, "32")
	svc := &exportService{repo: f.repo, logger: f.logger, now: fixedNow(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))}
	return svc, f
}

// ── ExportLogbookXLSX ──

func TestExportService_XLSX_Sheets(t *testing.T) {
	svc, _ := setupTestExportService()

	buf, filename, err := svc.ExportLogbookXLSX(context.Background(), appIdentity, "")
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if filename != "logbook_Alex Apprentice.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("生成的文件应可被 excelize 读取: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(entriesSheet)
	if err != nil {
		t.Fatalf("读取条目 Sheet 失败: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("期望表头 + 3 行，实际 %d 行", len(rows))
	}
	if rows[1][0] != "2024-03-04" {
		t.Errorf("条目应按日期正序，首行日期 %s", rows[1][0])
	}

	summary, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("读取章节汇总 Sheet 失败: %v", err)
	}
	// 表头 + 29 + 32 + 空行 + 合计
	if summary[1][0] != "29" || summary[2][0] != "32" {
		t.Errorf("章节应按代码升序: %v", summary)
	}
	if summary[2][2] != "10" {
		t.Errorf("章节 32 工时应为 10，实际 %s", summary[2][2])
	}
}

func TestExportService_AccessControl(t *testing.T) {
	svc, _ := setupTestExportService()
	ctx := context.Background()

	if _, _, err := svc.ExportLogbookXLSX(ctx, Identity{UserID: "u-mentor"}, "appr-u-app"); err != nil {
		t.Errorf("当前导师应可导出，实际错误: %v", err)
	}
	_, _, err := svc.ExportLogbookXLSX(ctx, Identity{UserID: "u-manager"}, "appr-u-app")
	if !errors.Is(err, ErrApprenticeAccessDeny) {
		t.Errorf("非本人且非导师应被拒绝，实际: %v", err)
	}
	_, _, err = svc.ExportLogbookICS(ctx, Identity{UserID: "u-mentor"}, "")
	if !errors.Is(err, ErrApprenticeNotFound) {
		t.Errorf("导师本人没有学徒记录，实际: %v", err)
	}
}

// ── ExportLogbookICS ──

func TestExportService_ICS_OneEventPerEntry(t *testing.T) {
	svc, _ := setupTestExportService()

	buf, filename, err := svc.ExportLogbookICS(context.Background(), appIdentity, "")
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾: %s", filename)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("生成的日历应可解析: %v", err)
	}
	events := cal.Events()
	if len(events) != 3 {
		t.Fatalf("期望 3 个 VEVENT，实际 %d", len(events))
	}
	start := events[0].GetProperty(ics.ComponentPropertyDtStart)
	end := events[0].GetProperty(ics.ComponentPropertyDtEnd)
	if start == nil || start.Value != "20240304T080000" || end == nil || end.Value != "20240304T160000" {
		t.Errorf("首个事件起止时间不符: %v / %v", start, end)
	}
}

func TestEntrySpan_CrossesMidnight(t *testing.T) {
	e := &model.LogbookEntry{
		EntryDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime: "22:00",
		EndTime:   "02:00",
	}
	from, to, ok := entrySpan(e)
	if !ok {
		t.Fatal("应能解析起止时间")
	}
	if to.Sub(from) != 4*time.Hour {
		t.Errorf("期望跨午夜 4 小时，实际 %v", to.Sub(from))
	}

	e.StartTime = ""
	if _, _, ok := entrySpan(e); ok {
		t.Error("缺少起止时间的旧数据应返回 ok=false")
	}
}
