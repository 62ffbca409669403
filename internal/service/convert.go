package service

import (
	"time"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/logbook"
	"github.com/Maddrobots/hangar13demo/internal/model"
)

const dateLayout = "2006-01-02"

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func toProfileResponse(p *model.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		AvatarURL: p.AvatarURL,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func toApprenticeResponse(a *model.Apprentice) dto.ApprenticeResponse {
	resp := dto.ApprenticeResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		MentorID:  a.MentorID,
		StartDate: a.StartDate.Format(dateLayout),
		EndDate:   formatDatePtr(a.EndDate),
		Status:    a.Status,
		CreatedAt: formatTime(a.CreatedAt),
	}
	if a.Profile != nil {
		p := toProfileResponse(a.Profile)
		resp.Profile = &p
	}
	return resp
}

func toEntryResponse(e *model.LogbookEntry) dto.EntryResponse {
	code := e.ChapterCode
	if code == "" {
		code = logbook.DecodeLegacyChapter(e.SkillsPracticed)
	}
	return dto.EntryResponse{
		ID:           e.ID,
		ApprenticeID: e.ApprenticeID,
		EntryDate:    e.EntryDate.Format(dateLayout),
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		HoursWorked:  e.HoursWorked,
		Description:  e.Description,
		ChapterCode:  code,
		ChapterLabel: logbook.LabelFor(code),
		Status:       e.Status,
		ApprovedBy:   e.ApprovedBy,
		ApprovedAt:   formatTimePtr(e.ApprovedAt),
		RejectedBy:   e.RejectedBy,
		RejectedAt:   formatTimePtr(e.RejectedAt),
		RejectReason: e.RejectReason,
		Version:      e.Version,
		CreatedAt:    formatTime(e.CreatedAt),
		UpdatedAt:    formatTime(e.UpdatedAt),
	}
}

// toEntryFact 旧数据 chapter_code 为空时从 skills_practiced 还原
func toEntryFact(e *model.LogbookEntry) logbook.EntryFact {
	code := e.ChapterCode
	if code == "" {
		code = logbook.DecodeLegacyChapter(e.SkillsPracticed)
	}
	return logbook.EntryFact{
		EntryDate:   e.EntryDate,
		HoursWorked: e.HoursWorked,
		ChapterCode: code,
		Status:      logbook.EntryStatus(e.Status),
	}
}

func toEntryFacts(entries []model.LogbookEntry) []logbook.EntryFact {
	facts := make([]logbook.EntryFact, 0, len(entries))
	for i := range entries {
		facts = append(facts, toEntryFact(&entries[i]))
	}
	return facts
}

// toCurriculumFacts 合并课程目录与学徒进度，无进度记录视为 not_started
func toCurriculumFacts(items []model.CurriculumItem, progress []model.ApprenticeProgress) []logbook.CurriculumFact {
	statusByItem := make(map[string]string, len(progress))
	for _, p := range progress {
		statusByItem[p.CurriculumItemID] = p.Status
	}
	facts := make([]logbook.CurriculumFact, 0, len(items))
	for _, it := range items {
		status := logbook.CurriculumNotStarted
		if s, ok := statusByItem[it.ID]; ok {
			status = logbook.CurriculumStatus(s)
		}
		facts = append(facts, logbook.CurriculumFact{
			ItemID:     it.ID,
			Title:      it.Title,
			OrderIndex: it.OrderIndex,
			Status:     status,
		})
	}
	return facts
}

func toSubmissionResponse(s *model.WeeklySubmission) dto.SubmissionResponse {
	files := make([]dto.SubmissionFileResponse, 0, len(s.Files))
	for _, f := range s.Files {
		files = append(files, dto.SubmissionFileResponse{
			ID:       f.ID,
			FileURL:  f.FileURL,
			FileName: f.FileName,
			FileSize: f.FileSize,
			FileType: f.FileType,
		})
	}
	return dto.SubmissionResponse{
		ID:               s.ID,
		ApprenticeID:     s.ApprenticeID,
		WeekNumber:       s.WeekNumber,
		CurriculumItemID: s.CurriculumItemID,
		ReflectionText:   s.ReflectionText,
		Status:           s.Status,
		SubmittedAt:      formatTime(s.SubmittedAt),
		Files:            files,
	}
}
