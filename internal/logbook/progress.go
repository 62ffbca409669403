package logbook

import (
	"math"
	"sort"
	"time"
)

// 培训计划常量，固定不可配置
const (
	ProgramWeeks        = 130
	WeeklyTargetHours   = 40
	TotalTargetHours    = ProgramWeeks * WeeklyTargetHours
	PaceTolerancePoints = 10.0
)

// PaceStatus 进度节奏
type PaceStatus string

const (
	PaceBehind  PaceStatus = "behind_pace"
	PaceOnTrack PaceStatus = "on_track"
	PaceAhead   PaceStatus = "ahead"
)

// CurriculumStatus 课程项完成状态
type CurriculumStatus string

const (
	CurriculumNotStarted CurriculumStatus = "not_started"
	CurriculumInProgress CurriculumStatus = "in_progress"
	CurriculumCompleted  CurriculumStatus = "completed"
	CurriculumReviewed   CurriculumStatus = "reviewed"
)

// Valid 是否为已知课程状态
func (s CurriculumStatus) Valid() bool {
	switch s {
	case CurriculumNotStarted, CurriculumInProgress, CurriculumCompleted, CurriculumReviewed:
		return true
	}
	return false
}

// IsComplete completed 与 reviewed 均计为完成
func (s CurriculumStatus) IsComplete() bool {
	return s == CurriculumCompleted || s == CurriculumReviewed
}

// EntryFact 进度计算所需的条目字段
type EntryFact struct {
	EntryDate   time.Time
	HoursWorked float64
	ChapterCode string
	Status      EntryStatus
}

// CurriculumFact 课程项及当前学徒的完成状态（无进度记录即 not_started）
type CurriculumFact struct {
	ItemID     string           `json:"item_id"`
	Title      string           `json:"title"`
	OrderIndex int              `json:"order_index"`
	Status     CurriculumStatus `json:"status"`
}

// ProgressInput 进度聚合输入
// Entries 的顺序决定章节状态的 "first-seen" 取值
type ProgressInput struct {
	StartDate  time.Time
	Entries    []EntryFact
	Curriculum []CurriculumFact
}

// ChapterStat 单个章节的工时与状态
type ChapterStat struct {
	Hours  float64     `json:"hours"`
	Status EntryStatus `json:"status"`
}

// CurriculumSummary 课程完成度
type CurriculumSummary struct {
	Completed       int             `json:"completed"`
	Total           int             `json:"total"`
	Overall         int             `json:"overall"`
	CurrentTraining *CurriculumFact `json:"current_training,omitempty"`
}

// Progress 学徒进度（每次请求即时计算，不落库）
type Progress struct {
	TotalHours       float64                `json:"total_hours"`
	ApprovedHours    float64                `json:"approved_hours"`
	ThisWeekHours    float64                `json:"this_week_hours"`
	ApprovedCount    int                    `json:"approved_count"`
	PendingCount     int                    `json:"pending_count"`
	CurrentWeek      int                    `json:"current_week"`
	TotalWeeks       int                    `json:"total_weeks"`
	ExpectedHours    float64                `json:"expected_hours"`
	TargetHours      float64                `json:"target_hours"`
	HoursDifference  float64                `json:"hours_difference"`
	HoursProgress    float64                `json:"hours_progress"`
	ExpectedProgress float64                `json:"expected_progress"`
	PaceStatus       PaceStatus             `json:"pace_status"`
	Chapters         map[string]ChapterStat `json:"chapters"`
	ChapterCoverage  int                    `json:"chapter_coverage"`
	TotalChapters    int                    `json:"total_chapters"`
	Curriculum       CurriculumSummary      `json:"curriculum"`
	DueDate          time.Time              `json:"due_date"`
}

// ChapterHours 章节代码 → 累计工时
func (p Progress) ChapterHours() map[string]float64 {
	out := make(map[string]float64, len(p.Chapters))
	for code, st := range p.Chapters {
		out[code] = st.Hours
	}
	return out
}

// ComputeProgress 由学徒的全部条目与课程状态计算进度
func ComputeProgress(in ProgressInput, now time.Time) Progress {
	week := CurrentWeek(in.StartDate, now)
	expected := float64(week * WeeklyTargetHours)
	weekStart := StartOfWeek(now)

	p := Progress{
		CurrentWeek:   week,
		TotalWeeks:    ProgramWeeks,
		ExpectedHours: expected,
		TargetHours:   TotalTargetHours,
		Chapters:      make(map[string]ChapterStat),
		TotalChapters: TotalChapters,
		DueDate:       DueDate(in.StartDate, week),
	}

	for _, e := range in.Entries {
		p.TotalHours += e.HoursWorked
		switch e.Status {
		case StatusApproved:
			p.ApprovedHours += e.HoursWorked
			p.ApprovedCount++
		case StatusSubmitted:
			p.PendingCount++
		}
		if !dateOnly(e.EntryDate).Before(weekStart) {
			p.ThisWeekHours += e.HoursWorked
		}
		accumulateChapter(p.Chapters, e)
	}

	p.TotalHours = Round2(p.TotalHours)
	p.ApprovedHours = Round2(p.ApprovedHours)
	p.ThisWeekHours = Round2(p.ThisWeekHours)
	p.HoursDifference = Round2(p.TotalHours - expected)
	p.ChapterCoverage = len(p.Chapters)

	p.HoursProgress = percentOf(p.TotalHours, TotalTargetHours)
	p.ExpectedProgress = percentOf(expected, TotalTargetHours)
	p.PaceStatus = ClassifyPace(p.HoursProgress, p.ExpectedProgress)

	p.Curriculum = summarizeCurriculum(in.Curriculum)
	return p
}

// accumulateChapter 累加章节工时；状态优先级 submitted > draft > 首个条目的状态
func accumulateChapter(chapters map[string]ChapterStat, e EntryFact) {
	if e.ChapterCode == "" {
		return
	}
	st, seen := chapters[e.ChapterCode]
	if !seen {
		st.Status = e.Status
	}
	st.Hours = Round2(st.Hours + e.HoursWorked)
	switch {
	case e.Status == StatusSubmitted:
		st.Status = StatusSubmitted
	case e.Status == StatusDraft && st.Status != StatusSubmitted:
		st.Status = StatusDraft
	}
	chapters[e.ChapterCode] = st
}

func summarizeCurriculum(items []CurriculumFact) CurriculumSummary {
	sorted := make([]CurriculumFact, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderIndex < sorted[j].OrderIndex })

	s := CurriculumSummary{Total: len(sorted)}
	for i := range sorted {
		if sorted[i].Status.IsComplete() {
			s.Completed++
			continue
		}
		if s.CurrentTraining == nil {
			item := sorted[i]
			s.CurrentTraining = &item
		}
	}
	if s.Total > 0 {
		s.Overall = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// CurrentWeek 培训第几周，开始日之前也至少为第 1 周
func CurrentWeek(start, now time.Time) int {
	days := DaysBetween(start, now)
	week := int(math.Floor(float64(days)/7)) + 1
	if week < 1 {
		return 1
	}
	return week
}

// DaysBetween 两个日期相差的整天数（按日历日，忽略时分秒）
func DaysBetween(from, to time.Time) int {
	return int(math.Floor(dateOnly(to).Sub(dateOnly(from)).Hours() / 24))
}

// DueDate 当前周的截止日 = 开始日 + (周数×7 − 1) 天
func DueDate(start time.Time, week int) time.Time {
	return dateOnly(start).AddDate(0, 0, week*7-1)
}

// StartOfWeek 本周起始日（周日）
func StartOfWeek(now time.Time) time.Time {
	d := dateOnly(now)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// ClassifyPace 实际进度与预期进度相差超过 ±10 个百分点时判定落后或超前
func ClassifyPace(actual, expected float64) PaceStatus {
	switch {
	case actual < expected-PaceTolerancePoints:
		return PaceBehind
	case actual > expected+PaceTolerancePoints:
		return PaceAhead
	default:
		return PaceOnTrack
	}
}

func percentOf(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return v / total * 100
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
