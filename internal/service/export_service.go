package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Maddrobots/hangar13demo/internal/logbook"
	"github.com/Maddrobots/hangar13demo/internal/model"
	"github.com/Maddrobots/hangar13demo/internal/repository"
)

// ExportService 日志导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置下载响应头。
// 仅学徒本人与其当前导师可以导出。
type ExportService interface {
	// ExportLogbookXLSX 工作簿含 "日志条目" 与 "章节汇总" 两个 Sheet
	ExportLogbookXLSX(ctx context.Context, id Identity, apprenticeID string) (*bytes.Buffer, string, error)
	// ExportLogbookICS 每个条目生成一个 VEVENT
	ExportLogbookICS(ctx context.Context, id Identity, apprenticeID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// load apprenticeID 为空时导出调用者本人的日志
func (s *exportService) load(ctx context.Context, id Identity, apprenticeID string) (*model.Apprentice, []model.LogbookEntry, error) {
	if err := requireIdentity(id); err != nil {
		return nil, nil, err
	}
	var (
		apprentice *model.Apprentice
		err        error
	)
	if apprenticeID == "" {
		apprentice, err = apprenticeOf(ctx, s.repo, s.logger, id.UserID)
	} else {
		apprentice, err = apprenticeByID(ctx, s.repo, s.logger, apprenticeID)
	}
	if err != nil {
		return nil, nil, err
	}
	if apprentice.UserID != id.UserID && !apprentice.IsMentoredBy(id.UserID) {
		return nil, nil, ErrApprenticeAccessDeny
	}

	entries, err := s.repo.Entry.ListAllByApprentice(ctx, apprentice.ID)
	if err != nil {
		s.logger.Error("查询导出条目失败", zap.String("apprentice_id", apprentice.ID), zap.Error(err))
		return nil, nil, err
	}
	// 导出按日期正序
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EntryDate.Before(entries[j].EntryDate)
	})
	return apprentice, entries, nil
}

func exportName(a *model.Apprentice) string {
	if a.Profile != nil && a.Profile.FullName != "" {
		return a.Profile.FullName
	}
	return a.ID
}

// ═══════════════════════════════════════════════════════════
// ExportLogbookXLSX
// ═══════════════════════════════════════════════════════════
//
// Sheet "日志条目"：日期 | 开始 | 结束 | 工时 | ATA 章节 | 描述 | 状态
// Sheet "章节汇总"：章节 | 名称 | 工时（仅有记录的章节，按代码升序）

const (
	entriesSheet = "日志条目"
	summarySheet = "章节汇总"
)

func (s *exportService) ExportLogbookXLSX(ctx context.Context, id Identity, apprenticeID string) (*bytes.Buffer, string, error) {
	apprentice, entries, err := s.load(ctx, id, apprenticeID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(entriesSheet)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	if _, err := f.NewSheet(summarySheet); err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"日期", "开始", "结束", "工时", "ATA 章节", "描述", "状态"}
	for i, h := range headers {
		f.SetCellValue(entriesSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(entriesSheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetColWidth(entriesSheet, "A", "A", 12)
	f.SetColWidth(entriesSheet, "E", "E", 36)
	f.SetColWidth(entriesSheet, "F", "F", 60)

	facts := make([]logbook.EntryFact, 0, len(entries))
	for i, e := range entries {
		row := i + 2
		fact := toEntryFact(&entries[i])
		facts = append(facts, fact)
		f.SetCellValue(entriesSheet, cell("A", row), e.EntryDate.Format(dateLayout))
		f.SetCellValue(entriesSheet, cell("B", row), e.StartTime)
		f.SetCellValue(entriesSheet, cell("C", row), e.EndTime)
		f.SetCellValue(entriesSheet, cell("D", row), e.HoursWorked)
		f.SetCellValue(entriesSheet, cell("E", row), logbook.LabelFor(fact.ChapterCode))
		f.SetCellValue(entriesSheet, cell("F", row), e.Description)
		f.SetCellValue(entriesSheet, cell("G", row), e.Status)
	}

	progress := logbook.ComputeProgress(logbook.ProgressInput{
		StartDate: apprentice.StartDate,
		Entries:   facts,
	}, s.now())
	chapterHours := progress.ChapterHours()
	codes := make([]string, 0, len(chapterHours))
	for code := range chapterHours {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return chapterOrder(codes[i]) < chapterOrder(codes[j]) })

	for i, h := range []string{"章节", "名称", "工时"} {
		f.SetCellValue(summarySheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(summarySheet, "A1", "C1", headerStyle)
	f.SetColWidth(summarySheet, "B", "B", 36)
	for i, code := range codes {
		row := i + 2
		f.SetCellValue(summarySheet, cell("A", row), code)
		f.SetCellValue(summarySheet, cell("B", row), logbook.LabelFor(code))
		f.SetCellValue(summarySheet, cell("C", row), chapterHours[code])
	}
	total := len(codes) + 2
	f.SetCellValue(summarySheet, cell("B", total), "合计")
	f.SetCellValue(summarySheet, cell("C", total), progress.TotalHours)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("logbook_%s.xlsx", exportName(apprentice))
	return buf, filename, nil
}

// chapterOrder 章节代码按数值排序，未知代码排在最后
func chapterOrder(code string) int {
	n, err := strconv.Atoi(code)
	if err != nil {
		return 1 << 30
	}
	return n
}

// ═══════════════════════════════════════════════════════════
// ExportLogbookICS
// ═══════════════════════════════════════════════════════════
//
// 条目时间为现场本地时间，DTSTART / DTEND 以浮动时间写出；
// 缺少起止时间的旧数据导出为全天事件。

const icsFloatingLayout = "20060102T150405"

func (s *exportService) ExportLogbookICS(ctx context.Context, id Identity, apprenticeID string) (*bytes.Buffer, string, error) {
	apprentice, entries, err := s.load(ctx, id, apprenticeID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Hangar 13//Apprentice Logbook//EN")
	cal.SetName(fmt.Sprintf("%s 的学徒日志", exportName(apprentice)))

	stamp := s.now().UTC()
	for i := range entries {
		e := &entries[i]
		fact := toEntryFact(e)

		event := cal.AddEvent(e.ID + "@hangar13")
		event.SetDtStampTime(stamp)
		event.SetSummary(fmt.Sprintf("%.2fh · %s", e.HoursWorked, logbook.LabelFor(fact.ChapterCode)))
		event.SetDescription(e.Description)
		event.SetProperty(ics.ComponentPropertyStatus, icsStatus(e.Status))

		start, end, ok := entrySpan(e)
		if !ok {
			event.SetAllDayStartAt(e.EntryDate)
			continue
		}
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsFloatingLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsFloatingLayout))
	}

	buf := new(bytes.Buffer)
	if err := cal.SerializeTo(buf); err != nil {
		s.logger.Error("写入日历失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("logbook_%s.ics", exportName(apprentice))
	return buf, filename, nil
}

// entrySpan 由条目日期与起止时间得到绝对时间段，跨午夜的结束时间落在次日
func entrySpan(e *model.LogbookEntry) (time.Time, time.Time, bool) {
	start, err := logbook.ParseClockTime(e.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := logbook.ParseClockTime(e.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	day := time.Date(e.EntryDate.Year(), e.EntryDate.Month(), e.EntryDate.Day(), 0, 0, 0, 0, time.UTC)
	from := day.Add(time.Duration(start) * time.Minute)
	to := day.Add(time.Duration(end) * time.Minute)
	if !to.After(from) {
		to = to.Add(24 * time.Hour)
	}
	return from, to, true
}

func icsStatus(status string) string {
	switch logbook.EntryStatus(status) {
	case logbook.StatusApproved:
		return string(ics.ObjectStatusConfirmed)
	case logbook.StatusRejected:
		return string(ics.ObjectStatusCancelled)
	default:
		return string(ics.ObjectStatusTentative)
	}
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
