package logbook

import (
	"math"
	"sort"
	"strings"
	"time"
)

// RosterSort 导师名册排序方式
type RosterSort string

const (
	SortCreatedDesc RosterSort = "created_at_desc"
	SortCreatedAsc  RosterSort = "created_at_asc"
	SortName        RosterSort = "name"
	SortPendingDesc RosterSort = "pending_desc"
	SortPace        RosterSort = "pace"
)

// ParseRosterSort 未知取值回落到默认的创建时间倒序
func ParseRosterSort(s string) RosterSort {
	switch RosterSort(s) {
	case SortCreatedAsc, SortName, SortPendingDesc, SortPace:
		return RosterSort(s)
	}
	return SortCreatedDesc
}

// RosterMember 名册中一名学徒的原始数据
type RosterMember struct {
	ApprenticeID string
	UserID       string
	FullName     string
	Email        string
	StartDate    time.Time
	CreatedAt    time.Time
	Entries      []EntryFact
	Curriculum   []CurriculumFact
}

// RosterRow 名册行
type RosterRow struct {
	ApprenticeID string     `json:"apprentice_id"`
	UserID       string     `json:"user_id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	StartDate    time.Time  `json:"start_date"`
	CreatedAt    time.Time  `json:"created_at"`
	Overall      int        `json:"overall_progress"`
	Completed    int        `json:"completed_items"`
	TotalItems   int        `json:"total_items"`
	TotalHours   float64    `json:"total_hours"`
	TargetHours  float64    `json:"target_hours"`
	HoursPercent int        `json:"hours_progress"`
	CurrentWeek  int        `json:"current_week"`
	PaceStatus   PaceStatus `json:"pace_status"`
	PendingCount int        `json:"pending_entries"`
}

// BuildRoster 对每名学徒复用 ComputeProgress 并排序
func BuildRoster(members []RosterMember, now time.Time, order RosterSort) []RosterRow {
	rows := make([]RosterRow, 0, len(members))
	for _, m := range members {
		p := ComputeProgress(ProgressInput{
			StartDate:  m.StartDate,
			Entries:    m.Entries,
			Curriculum: m.Curriculum,
		}, now)
		rows = append(rows, RosterRow{
			ApprenticeID: m.ApprenticeID,
			UserID:       m.UserID,
			FullName:     m.FullName,
			Email:        m.Email,
			StartDate:    m.StartDate,
			CreatedAt:    m.CreatedAt,
			Overall:      p.Curriculum.Overall,
			Completed:    p.Curriculum.Completed,
			TotalItems:   p.Curriculum.Total,
			TotalHours:   p.TotalHours,
			TargetHours:  p.TargetHours,
			HoursPercent: int(math.Round(p.HoursProgress)),
			CurrentWeek:  p.CurrentWeek,
			PaceStatus:   p.PaceStatus,
			PendingCount: p.PendingCount,
		})
	}
	SortRoster(rows, order)
	return rows
}

var paceRank = map[PaceStatus]int{PaceBehind: 0, PaceOnTrack: 1, PaceAhead: 2}

// SortRoster 原地稳定排序；pace 排序把落后的学徒排在最前
func SortRoster(rows []RosterRow, order RosterSort) {
	var less func(a, b RosterRow) bool
	switch order {
	case SortCreatedAsc:
		less = func(a, b RosterRow) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortName:
		less = func(a, b RosterRow) bool { return strings.ToLower(a.FullName) < strings.ToLower(b.FullName) }
	case SortPendingDesc:
		less = func(a, b RosterRow) bool { return a.PendingCount > b.PendingCount }
	case SortPace:
		less = func(a, b RosterRow) bool {
			if paceRank[a.PaceStatus] != paceRank[b.PaceStatus] {
				return paceRank[a.PaceStatus] < paceRank[b.PaceStatus]
			}
			return a.TotalHours < b.TotalHours
		}
	default:
		less = func(a, b RosterRow) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}
