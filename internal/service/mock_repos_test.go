package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/epicodus/course-scheduler/internal/model"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses   map[string]*model.Course
	offices   *mockOfficeRepo
	languages *mockLanguageRepo
	tracks    *mockTrackRepo
}

func newMockCourseRepo(offices *mockOfficeRepo, languages *mockLanguageRepo, tracks *mockTrackRepo) *mockCourseRepo {
	return &mockCourseRepo{
		courses:   make(map[string]*model.Course),
		offices:   offices,
		languages: languages,
		tracks:    tracks,
	}
}

func (m *mockCourseRepo) CreateWithSchedule(_ context.Context, course *model.Course, days []model.ClassDay, times []model.ClassTime, reviews []model.CodeReview) error {
	stored := *course
	stored.ClassDays = days
	stored.ClassTimes = times
	stored.CodeReviews = reviews
	m.courses[stored.CourseID] = &stored
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	stored, ok := m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	// 模拟 Preload：关联有序、平铺字段就位
	course := *stored
	course.ClassDays = append([]model.ClassDay(nil), stored.ClassDays...)
	sort.Slice(course.ClassDays, func(i, j int) bool {
		return course.ClassDays[i].Date.Before(course.ClassDays[j].Date)
	})
	course.ClassTimes = append([]model.ClassTime(nil), stored.ClassTimes...)
	sort.Slice(course.ClassTimes, func(i, j int) bool {
		return course.ClassTimes[i].Wday < course.ClassTimes[j].Wday
	})
	course.CodeReviews = append([]model.CodeReview(nil), stored.CodeReviews...)
	sort.Slice(course.CodeReviews, func(i, j int) bool {
		return course.CodeReviews[i].WeekIndex < course.CodeReviews[j].WeekIndex
	})

	if m.offices != nil {
		if o, ok := m.offices.offices[course.OfficeID]; ok {
			course.Office = o
		}
	}
	if m.languages != nil {
		if l, ok := m.languages.languages[course.LanguageID]; ok {
			course.Language = l
		}
	}
	if m.tracks != nil && course.TrackID != nil {
		if t, ok := m.tracks.tracks[*course.TrackID]; ok {
			course.Track = t
		}
	}

	return &course, nil
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CourseID < result[j].CourseID
	})
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	stored, ok := m.courses[course.CourseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *course
	updated.ClassDays = stored.ClassDays
	updated.ClassTimes = stored.ClassTimes
	updated.CodeReviews = stored.CodeReviews
	m.courses[updated.CourseID] = &updated
	return nil
}

func (m *mockCourseRepo) RebuildSchedule(_ context.Context, course *model.Course, days []model.ClassDay, times []model.ClassTime, reviews []model.CodeReview, replaceDays bool) error {
	stored, ok := m.courses[course.CourseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	updated := *course
	updated.ClassDays = stored.ClassDays
	updated.ClassTimes = stored.ClassTimes
	updated.CodeReviews = stored.CodeReviews

	if replaceDays {
		updated.ClassDays = days
		updated.ClassTimes = times
	}

	// insert-if-absent：已存在的周次保持原样
	existing := make(map[int]bool, len(updated.CodeReviews))
	for _, cr := range updated.CodeReviews {
		existing[cr.WeekIndex] = true
	}
	for _, cr := range reviews {
		if existing[cr.WeekIndex] {
			continue
		}
		updated.CodeReviews = append(updated.CodeReviews, cr)
	}

	m.courses[updated.CourseID] = &updated
	return nil
}

// ── Mock ClassDayRepository ──

type mockClassDayRepo struct {
	courses *mockCourseRepo
}

func newMockClassDayRepo(courses *mockCourseRepo) *mockClassDayRepo {
	return &mockClassDayRepo{courses: courses}
}

func (m *mockClassDayRepo) ListByCourse(_ context.Context, courseID string) ([]model.ClassDay, error) {
	stored, ok := m.courses.courses[courseID]
	if !ok {
		return nil, nil
	}
	days := append([]model.ClassDay(nil), stored.ClassDays...)
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

func (m *mockClassDayRepo) ListCourseDatesUntil(_ context.Context, courseID string, until time.Time) ([]time.Time, error) {
	stored, ok := m.courses.courses[courseID]
	if !ok {
		return nil, nil
	}
	var dates []time.Time
	for _, d := range stored.ClassDays {
		if !d.Date.After(until) {
			dates = append(dates, d.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (m *mockClassDayRepo) ListDatesUntil(_ context.Context, courseIDs []string, until time.Time) ([]time.Time, error) {
	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}

	var dates []time.Time
	for id, c := range m.courses.courses {
		if len(courseIDs) > 0 && !wanted[id] {
			continue
		}
		for _, d := range c.ClassDays {
			if !d.Date.After(until) {
				dates = append(dates, d.Date)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates, nil
}

// ── Mock CodeReviewRepository ──

type mockCodeReviewRepo struct {
	courses *mockCourseRepo
}

func newMockCodeReviewRepo(courses *mockCourseRepo) *mockCodeReviewRepo {
	return &mockCodeReviewRepo{courses: courses}
}

func (m *mockCodeReviewRepo) ListByCourse(_ context.Context, courseID string) ([]model.CodeReview, error) {
	stored, ok := m.courses.courses[courseID]
	if !ok {
		return nil, nil
	}
	reviews := append([]model.CodeReview(nil), stored.CodeReviews...)
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].WeekIndex < reviews[j].WeekIndex })
	return reviews, nil
}

func (m *mockCodeReviewRepo) GetByCourseAndWeek(_ context.Context, courseID string, weekIndex int) (*model.CodeReview, error) {
	stored, ok := m.courses.courses[courseID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range stored.CodeReviews {
		if stored.CodeReviews[i].WeekIndex == weekIndex {
			cr := stored.CodeReviews[i]
			return &cr, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock OfficeRepository ──

type mockOfficeRepo struct {
	offices map[string]*model.Office
}

func newMockOfficeRepo() *mockOfficeRepo {
	return &mockOfficeRepo{offices: make(map[string]*model.Office)}
}

func (m *mockOfficeRepo) Create(_ context.Context, office *model.Office) error {
	if office.OfficeID == "" {
		office.OfficeID = "office-" + office.Name
	}
	m.offices[office.OfficeID] = office
	return nil
}

func (m *mockOfficeRepo) GetByID(_ context.Context, id string) (*model.Office, error) {
	if o, ok := m.offices[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOfficeRepo) List(_ context.Context) ([]model.Office, error) {
	var result []model.Office
	for _, o := range m.offices {
		result = append(result, *o)
	}
	return result, nil
}

// ── Mock LanguageRepository ──

type mockLanguageRepo struct {
	languages map[string]*model.Language
}

func newMockLanguageRepo() *mockLanguageRepo {
	return &mockLanguageRepo{languages: make(map[string]*model.Language)}
}

func (m *mockLanguageRepo) Create(_ context.Context, language *model.Language) error {
	if language.LanguageID == "" {
		language.LanguageID = "lang-" + language.Name
	}
	m.languages[language.LanguageID] = language
	return nil
}

func (m *mockLanguageRepo) GetByID(_ context.Context, id string) (*model.Language, error) {
	if l, ok := m.languages[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLanguageRepo) List(_ context.Context) ([]model.Language, error) {
	var result []model.Language
	for _, l := range m.languages {
		result = append(result, *l)
	}
	return result, nil
}

// ── Mock TrackRepository ──

type mockTrackRepo struct {
	tracks map[string]*model.Track
}

func newMockTrackRepo() *mockTrackRepo {
	return &mockTrackRepo{tracks: make(map[string]*model.Track)}
}

func (m *mockTrackRepo) Create(_ context.Context, track *model.Track) error {
	if track.TrackID == "" {
		track.TrackID = "track-" + track.Description
	}
	m.tracks[track.TrackID] = track
	return nil
}

func (m *mockTrackRepo) GetByID(_ context.Context, id string) (*model.Track, error) {
	if t, ok := m.tracks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrackRepo) List(_ context.Context) ([]model.Track, error) {
	var result []model.Track
	for _, t := range m.tracks {
		result = append(result, *t)
	}
	return result, nil
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	holidays map[string]*model.Holiday
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{holidays: make(map[string]*model.Holiday)}
}

func (m *mockHolidayRepo) Create(_ context.Context, holiday *model.Holiday) error {
	for _, h := range m.holidays {
		if h.Date.Equal(holiday.Date) {
			return gorm.ErrDuplicatedKey
		}
	}
	if holiday.HolidayID == "" {
		holiday.HolidayID = "holiday-" + holiday.Date.Format("2006-01-02")
	}
	m.holidays[holiday.HolidayID] = holiday
	return nil
}

func (m *mockHolidayRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.holidays[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.holidays, id)
	return nil
}

func (m *mockHolidayRepo) List(_ context.Context) ([]model.Holiday, error) {
	var result []model.Holiday
	for _, h := range m.holidays {
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// [自证通过] internal/service/mock_repos_test.go
