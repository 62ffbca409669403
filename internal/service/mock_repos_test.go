package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Maddrobots/hangar13demo/internal/model"
	"github.com/Maddrobots/hangar13demo/internal/repository"
	pkgerrors "github.com/Maddrobots/hangar13demo/pkg/errors"
)

var errMockDB = errors.New("mock: db failure")

// 所有 mock 按值保存记录，模拟数据库行与内存对象相互独立

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]model.Profile
	seq      int
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]model.Profile)}
}

func (m *mockProfileRepo) Create(_ context.Context, p *model.Profile) error {
	for _, existing := range m.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return errors.New("mock: duplicate email")
		}
	}
	if p.ID == "" {
		m.seq++
		p.ID = fmt.Sprintf("user-%d", m.seq)
	}
	m.profiles[p.ID] = *p
	return nil
}

func (m *mockProfileRepo) GetByID(_ context.Context, id string) (*model.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) ListByIDs(_ context.Context, ids []string) ([]model.Profile, error) {
	var out []model.Profile
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProfileRepo) UpdateRole(_ context.Context, id, role string) error {
	p, ok := m.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Role = role
	m.profiles[id] = p
	return nil
}

func (m *mockProfileRepo) UpdateProfile(_ context.Context, id string, fields map[string]interface{}) error {
	p, ok := m.profiles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["full_name"].(string); ok {
		p.FullName = v
	}
	if v, ok := fields["avatar_url"].(string); ok {
		p.AvatarURL = v
	}
	m.profiles[id] = p
	return nil
}

// ── Mock ApprenticeRepository ──

type mockApprenticeRepo struct {
	apprentices map[string]model.Apprentice
	profiles    *mockProfileRepo
	seq         int
}

func newMockApprenticeRepo(profiles *mockProfileRepo) *mockApprenticeRepo {
	return &mockApprenticeRepo{apprentices: make(map[string]model.Apprentice), profiles: profiles}
}

func (m *mockApprenticeRepo) withProfile(a model.Apprentice) *model.Apprentice {
	if p, ok := m.profiles.profiles[a.UserID]; ok {
		a.Profile = &p
	}
	return &a
}

func (m *mockApprenticeRepo) Create(_ context.Context, a *model.Apprentice) error {
	if a.ID == "" {
		m.seq++
		a.ID = fmt.Sprintf("appr-%d", m.seq)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	}
	stored := *a
	stored.Profile = nil
	m.apprentices[a.ID] = stored
	return nil
}

func (m *mockApprenticeRepo) GetByID(_ context.Context, id string) (*model.Apprentice, error) {
	if a, ok := m.apprentices[id]; ok {
		return m.withProfile(a), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApprenticeRepo) GetByUserID(_ context.Context, userID string) (*model.Apprentice, error) {
	for _, a := range m.apprentices {
		if a.UserID == userID {
			return m.withProfile(a), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApprenticeRepo) sorted(match func(model.Apprentice) bool) []model.Apprentice {
	var out []model.Apprentice
	for _, a := range m.apprentices {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockApprenticeRepo) ListByMentor(_ context.Context, mentorID, status string) ([]model.Apprentice, error) {
	return m.sorted(func(a model.Apprentice) bool {
		return a.IsMentoredBy(mentorID) && a.Status == status
	}), nil
}

func (m *mockApprenticeRepo) ListUnassigned(_ context.Context) ([]model.Apprentice, error) {
	list := m.sorted(func(a model.Apprentice) bool {
		return a.MentorID == nil && a.Status == model.ApprenticeActive
	})
	for i := range list {
		list[i] = *m.withProfile(list[i])
	}
	return list, nil
}

func (m *mockApprenticeRepo) UpdateMentor(_ context.Context, id string, mentorID *string) error {
	a, ok := m.apprentices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.MentorID = mentorID
	m.apprentices[id] = a
	return nil
}

func (m *mockApprenticeRepo) ClaimMentor(_ context.Context, id, mentorID string) (bool, error) {
	a, ok := m.apprentices[id]
	if !ok || a.MentorID != nil {
		return false, nil
	}
	a.MentorID = &mentorID
	m.apprentices[id] = a
	return true, nil
}

func (m *mockApprenticeRepo) UpdateStatus(_ context.Context, id, status string, endDate *time.Time) error {
	a, ok := m.apprentices[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	a.EndDate = endDate
	m.apprentices[id] = a
	return nil
}

// ── Mock LogbookEntryRepository ──

type mockEntryRepo struct {
	entries map[string]model.LogbookEntry
	seq     int
	// beforeWrite 在写入前执行，用于模拟并发修改
	beforeWrite func(id string)
}

func newMockEntryRepo() *mockEntryRepo {
	return &mockEntryRepo{entries: make(map[string]model.LogbookEntry)}
}

func (m *mockEntryRepo) Create(_ context.Context, e *model.LogbookEntry) error {
	if e.ID == "" {
		m.seq++
		e.ID = fmt.Sprintf("entry-%d", m.seq)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	}
	m.entries[e.ID] = *e
	return nil
}

func (m *mockEntryRepo) GetByID(_ context.Context, id string) (*model.LogbookEntry, error) {
	if e, ok := m.entries[id]; ok {
		return &e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEntryRepo) Update(_ context.Context, e *model.LogbookEntry) error {
	if m.beforeWrite != nil {
		m.beforeWrite(e.ID)
	}
	cur, ok := m.entries[e.ID]
	if !ok || cur.Version != e.Version {
		return pkgerrors.ErrOptimisticLock
	}
	e.Bump()
	m.entries[e.ID] = *e
	return nil
}

func (m *mockEntryRepo) Review(_ context.Context, e *model.LogbookEntry, fromStatus string) error {
	if m.beforeWrite != nil {
		m.beforeWrite(e.ID)
	}
	cur, ok := m.entries[e.ID]
	if !ok || cur.Version != e.Version || cur.Status != fromStatus {
		return pkgerrors.ErrOptimisticLock
	}
	e.Bump()
	m.entries[e.ID] = *e
	return nil
}

func (m *mockEntryRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

func (m *mockEntryRepo) collect(match func(model.LogbookEntry) bool) []model.LogbookEntry {
	var out []model.LogbookEntry
	for _, e := range m.entries {
		if match(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.After(out[j].EntryDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *mockEntryRepo) List(_ context.Context, apprenticeID string, f repository.EntryFilter) ([]model.LogbookEntry, int64, error) {
	all := m.collect(func(e model.LogbookEntry) bool {
		if e.ApprenticeID != apprenticeID {
			return false
		}
		if f.Status != "" && e.Status != f.Status {
			return false
		}
		if f.From != nil && e.EntryDate.Before(*f.From) {
			return false
		}
		if f.To != nil && e.EntryDate.After(*f.To) {
			return false
		}
		return true
	})
	total := int64(len(all))
	if f.Offset >= len(all) {
		return []model.LogbookEntry{}, total, nil
	}
	end := len(all)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return all[f.Offset:end], total, nil
}

func (m *mockEntryRepo) ListAllByApprentice(_ context.Context, apprenticeID string) ([]model.LogbookEntry, error) {
	return m.collect(func(e model.LogbookEntry) bool { return e.ApprenticeID == apprenticeID }), nil
}

func (m *mockEntryRepo) ListByApprenticeIDs(_ context.Context, ids []string, status string) ([]model.LogbookEntry, error) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return m.collect(func(e model.LogbookEntry) bool {
		return set[e.ApprenticeID] && (status == "" || e.Status == status)
	}), nil
}

func (m *mockEntryRepo) SumHoursByApprenticeIDs(_ context.Context, ids []string) ([]repository.ApprenticeHours, error) {
	var out []repository.ApprenticeHours
	for _, id := range ids {
		total := 0.0
		for _, e := range m.entries {
			if e.ApprenticeID == id {
				total += e.HoursWorked
			}
		}
		out = append(out, repository.ApprenticeHours{ApprenticeID: id, TotalHours: total})
	}
	return out, nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	submissions map[string]model.WeeklySubmission
	files       map[string][]model.WeeklySubmissionFile
	seq         int
	failFiles   bool
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{
		submissions: make(map[string]model.WeeklySubmission),
		files:       make(map[string][]model.WeeklySubmissionFile),
	}
}

func (m *mockSubmissionRepo) Upsert(_ context.Context, s *model.WeeklySubmission) error {
	for id, existing := range m.submissions {
		if existing.ApprenticeID == s.ApprenticeID && existing.WeekNumber == s.WeekNumber {
			s.ID = id
			m.submissions[id] = *s
			return nil
		}
	}
	m.seq++
	s.ID = fmt.Sprintf("sub-%d", m.seq)
	m.submissions[s.ID] = *s
	return nil
}

func (m *mockSubmissionRepo) GetByApprenticeAndWeek(_ context.Context, apprenticeID string, week int) (*model.WeeklySubmission, error) {
	for id, s := range m.submissions {
		if s.ApprenticeID == apprenticeID && s.WeekNumber == week {
			s.Files = append([]model.WeeklySubmissionFile(nil), m.files[id]...)
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) ListByApprentice(_ context.Context, apprenticeID string) ([]model.WeeklySubmission, error) {
	var out []model.WeeklySubmission
	for id, s := range m.submissions {
		if s.ApprenticeID == apprenticeID {
			s.Files = m.files[id]
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekNumber > out[j].WeekNumber })
	return out, nil
}

func (m *mockSubmissionRepo) ReplaceFiles(_ context.Context, submissionID string, files []model.WeeklySubmissionFile) error {
	if m.failFiles {
		return errMockDB
	}
	m.files[submissionID] = append([]model.WeeklySubmissionFile(nil), files...)
	return nil
}

// ── Mock CurriculumRepository / ProgressRepository ──

type mockCurriculumRepo struct {
	items []model.CurriculumItem
}

func (m *mockCurriculumRepo) ListActive(_ context.Context) ([]model.CurriculumItem, error) {
	var out []model.CurriculumItem
	for _, it := range m.items {
		if it.IsActive {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *mockCurriculumRepo) GetByID(_ context.Context, id string) (*model.CurriculumItem, error) {
	for _, it := range m.items {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type mockProgressRepo struct {
	rows map[string]model.ApprenticeProgress // key: apprenticeID|itemID
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{rows: make(map[string]model.ApprenticeProgress)}
}

func (m *mockProgressRepo) ListByApprentice(_ context.Context, apprenticeID string) ([]model.ApprenticeProgress, error) {
	var out []model.ApprenticeProgress
	for _, p := range m.rows {
		if p.ApprenticeID == apprenticeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProgressRepo) ListByApprenticeIDs(ctx context.Context, ids []string) ([]model.ApprenticeProgress, error) {
	var out []model.ApprenticeProgress
	for _, id := range ids {
		list, _ := m.ListByApprentice(ctx, id)
		out = append(out, list...)
	}
	return out, nil
}

func (m *mockProgressRepo) Upsert(_ context.Context, p *model.ApprenticeProgress) error {
	m.rows[p.ApprenticeID+"|"+p.CurriculumItemID] = *p
	return nil
}

// ── 测试夹具 ──

type testFixture struct {
	repo        *repository.Repository
	profiles    *mockProfileRepo
	apprentices *mockApprenticeRepo
	entries     *mockEntryRepo
	submissions *mockSubmissionRepo
	curriculum  *mockCurriculumRepo
	progress    *mockProgressRepo
	logger      *zap.Logger
}

func newTestFixture() *testFixture {
	profiles := newMockProfileRepo()
	f := &testFixture{
		profiles:    profiles,
		apprentices: newMockApprenticeRepo(profiles),
		entries:     newMockEntryRepo(),
		submissions: newMockSubmissionRepo(),
		curriculum:  &mockCurriculumRepo{},
		progress:    newMockProgressRepo(),
		logger:      zap.NewNop(),
	}
	f.repo = &repository.Repository{
		Profile:    f.profiles,
		Apprentice: f.apprentices,
		Entry:      f.entries,
		Submission: f.submissions,
		Curriculum: f.curriculum,
		Progress:   f.progress,
	}
	return f
}

func (f *testFixture) addProfile(id, name, role string) model.Profile {
	p := model.Profile{ID: id, Email: id + "@hangar13.test", FullName: name, Role: role}
	_ = f.profiles.Create(context.Background(), &p)
	return p
}

func (f *testFixture) addApprentice(userID string, mentorID *string, start time.Time) model.Apprentice {
	a := model.Apprentice{
		ID:        "appr-" + userID,
		UserID:    userID,
		MentorID:  mentorID,
		StartDate: start,
		Status:    model.ApprenticeActive,
	}
	_ = f.apprentices.Create(context.Background(), &a)
	return a
}

func (f *testFixture) addEntry(apprenticeID, status, date string, hours float64, chapter string) model.LogbookEntry {
	d, _ := parseDate(date)
	e := model.LogbookEntry{
		ApprenticeID: apprenticeID,
		EntryDate:    d,
		StartTime:    "08:00",
		EndTime:      "16:00",
		HoursWorked:  hours,
		Description:  "Replaced brake assembly on main gear",
		ChapterCode:  chapter,
		Status:       status,
	}
	_ = f.entries.Create(context.Background(), &e)
	return e
}

func strPtr(s string) *string { return &s }

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
