package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/epicodus/course-scheduler/internal/dto"
	"github.com/epicodus/course-scheduler/internal/model"
	"github.com/epicodus/course-scheduler/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound    = errors.New("课程不存在")
	ErrOfficeNotFound    = errors.New("办公室不存在")
	ErrLanguageNotFound  = errors.New("语言不存在")
	ErrTrackNotFound     = errors.New("方向不存在")
	ErrInvalidDate       = errors.New("日期格式无效")
	ErrRebuildInProgress = errors.New("课表重建进行中")
)

// RebuildLocker 课表重建互斥锁
// 同一课程同时只允许一次重建；拿不到锁即冲突，不排队等待
type RebuildLocker interface {
	AcquireRebuildLock(ctx context.Context, courseID string) (bool, error)
	ReleaseRebuildLock(ctx context.Context, courseID string) error
}

// CourseService 课程与课表构建接口
type CourseService interface {
	// Create 创建课程；给定 layout_ref 时整套课表（上课日、每周时段、
	// 代码评审）在同一事务内一并生成
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	// Update 更新课程；layout_ref 发生实际变更时触发课表重建
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	// GetByID 课程详情（含上课日、每周时段）
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	// List 课程列表
	List(ctx context.Context) ([]dto.CourseSummaryResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	parser *LayoutParser
	locker RebuildLocker
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
// locker 允许为 nil（如 Redis 不可用时降级运行，放弃重建互斥）
func NewCourseService(repo *repository.Repository, parser *LayoutParser, locker RebuildLocker, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, parser: parser, locker: locker, logger: logger}
}

// ════════════════════════════════════════
//  创建
// ════════════════════════════════════════

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date %q", ErrInvalidDate, req.StartDate)
	}

	office, err := s.repo.Office.GetByID(ctx, req.OfficeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, err
	}
	language, err := s.repo.Language.GetByID(ctx, req.LanguageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLanguageNotFound
		}
		return nil, err
	}
	var track *model.Track
	if req.TrackID != nil {
		track, err = s.repo.Track.GetByID(ctx, *req.TrackID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTrackNotFound
			}
			return nil, err
		}
	}

	course := &model.Course{
		CourseID:   uuid.NewString(),
		OfficeID:   req.OfficeID,
		LanguageID: req.LanguageID,
		TrackID:    req.TrackID,
		LayoutRef:  req.LayoutRef,
	}
	if req.Parttime != nil {
		course.Parttime = *req.Parttime
	}
	if req.InternshipCourse != nil {
		course.InternshipCourse = *req.InternshipCourse
	}

	var (
		dayValues []ClassDayValue
		times     []model.ClassTime
		reviews   []model.CodeReview
		layout    *LayoutSpec
	)

	if req.LayoutRef != nil {
		layout, err = s.parser.Parse(ctx, *req.LayoutRef)
		if err != nil {
			return nil, err
		}
		course.Parttime = layout.PartTime
		course.InternshipCourse = layout.Internship
		times = classTimesFromPattern(course.CourseID, layout.WeeklyTimes)
	}

	// 手工上课日优先于布局生成
	if len(req.ClassDays) > 0 {
		dayValues, err = parseManualClassDays(req.ClassDays)
		if err != nil {
			return nil, err
		}
		course.ClassDaysSetManually = true
	} else if layout != nil {
		holidays, err := s.repo.Holiday.List(ctx)
		if err != nil {
			return nil, err
		}
		dayValues, err = GenerateClassDays(startDate, layout.WeeklyTimes, layout.TargetDays, NewHolidaySet(holidays))
		if err != nil {
			return nil, err
		}
	}

	if layout != nil {
		reviews, err = PlanCodeReviews(course.CourseID, course.Parttime, startDate, dayValues, layout.CodeReviews, office)
		if err != nil {
			return nil, err
		}
	}

	applyScheduleBounds(course, startDate, dayValues)

	if req.Description != nil {
		course.Description = *req.Description
		course.DescriptionSetManually = true
	} else {
		course.Description = deriveDescription(startDate, language.Name, track, course.Parttime, course.InternshipCourse)
	}

	days := classDaysFromValues(course.CourseID, dayValues)
	if err := s.repo.Course.CreateWithSchedule(ctx, course, days, times, reviews); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程已创建",
		zap.String("courseID", course.CourseID),
		zap.String("description", course.Description),
		zap.Int("classDays", len(days)),
		zap.Int("codeReviews", len(reviews)))

	return s.GetByID(ctx, course.CourseID)
}

// ════════════════════════════════════════
//  更新与重建
// ════════════════════════════════════════

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Description != nil {
		course.Description = *req.Description
		course.DescriptionSetManually = true
	}

	switch {
	case req.ClearLayoutRef:
		// 显式置空：已生成的课表保持不动
		course.LayoutRef = nil
		if err := s.repo.Course.Update(ctx, course); err != nil {
			return nil, err
		}

	case req.LayoutRef == nil, course.LayoutRef != nil && *course.LayoutRef == *req.LayoutRef:
		// 未提供或值未变：不触发任何重建副作用
		if err := s.repo.Course.Update(ctx, course); err != nil {
			return nil, err
		}

	default:
		if err := s.rebuild(ctx, course, *req.LayoutRef); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, course.CourseID)
}

// rebuild 按新 layout_ref 重建课表。
// 上课日仅在非手工维护时重新生成；代码评审只追加缺失的周，已有行不动。
func (s *courseService) rebuild(ctx context.Context, course *model.Course, newRef string) error {
	if s.locker != nil {
		ok, err := s.locker.AcquireRebuildLock(ctx, course.CourseID)
		if err != nil {
			s.logger.Warn("重建锁获取出错，降级为无锁重建", zap.Error(err))
		} else if !ok {
			return ErrRebuildInProgress
		} else {
			defer func() {
				if err := s.locker.ReleaseRebuildLock(ctx, course.CourseID); err != nil {
					s.logger.Warn("重建锁释放失败", zap.Error(err))
				}
			}()
		}
	}

	layout, err := s.parser.Parse(ctx, newRef)
	if err != nil {
		return err
	}

	office, err := s.repo.Office.GetByID(ctx, course.OfficeID)
	if err != nil {
		return err
	}

	if course.StartDate == nil {
		return fmt.Errorf("%w: 课程缺少起始日期，无法重建课表", ErrInvalidDate)
	}
	startDate := truncateToDate(*course.StartDate)

	course.LayoutRef = &newRef
	course.Parttime = layout.PartTime
	course.InternshipCourse = layout.Internship
	times := classTimesFromPattern(course.CourseID, layout.WeeklyTimes)

	var dayValues []ClassDayValue
	replaceDays := !course.ClassDaysSetManually
	if replaceDays {
		holidays, err := s.repo.Holiday.List(ctx)
		if err != nil {
			return err
		}
		dayValues, err = GenerateClassDays(startDate, layout.WeeklyTimes, layout.TargetDays, NewHolidaySet(holidays))
		if err != nil {
			return err
		}
	} else {
		for _, d := range course.ClassDays {
			dayValues = append(dayValues, ClassDayValue{Date: truncateToDate(d.Date), Start: d.StartTime, End: d.EndTime})
		}
	}

	reviews, err := PlanCodeReviews(course.CourseID, course.Parttime, startDate, dayValues, layout.CodeReviews, office)
	if err != nil {
		return err
	}

	applyScheduleBounds(course, startDate, dayValues)
	if !course.DescriptionSetManually {
		languageName := ""
		if course.Language != nil {
			languageName = course.Language.Name
		}
		course.Description = deriveDescription(startDate, languageName, course.Track, course.Parttime, course.InternshipCourse)
	}

	days := classDaysFromValues(course.CourseID, dayValues)
	if err := s.repo.Course.RebuildSchedule(ctx, course, days, times, reviews, replaceDays); err != nil {
		s.logger.Error("重建课表失败", zap.Error(err), zap.String("courseID", course.CourseID))
		return err
	}

	s.logger.Info("课表已重建",
		zap.String("courseID", course.CourseID),
		zap.String("layoutRef", newRef),
		zap.Bool("replacedDays", replaceDays))
	return nil
}

// ════════════════════════════════════════
//  查询
// ════════════════════════════════════════

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return toCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseSummaryResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CourseSummaryResponse, 0, len(courses))
	for i := range courses {
		result = append(result, toCourseSummary(&courses[i]))
	}
	return result, nil
}

// ── 辅助 ──

// deriveDescription 默认描述："YYYY-MM 语言名"，仅非实习、非业余制
// 且带方向的课程追加 "(方向)"
func deriveDescription(start time.Time, languageName string, track *model.Track, parttime, internship bool) string {
	desc := start.Format("2006-01") + " " + languageName
	if track != nil && !internship && !parttime {
		desc += " (" + track.Description + ")"
	}
	return desc
}

// applyScheduleBounds 由上课日回填 start_date / end_date
func applyScheduleBounds(course *model.Course, requested time.Time, days []ClassDayValue) {
	if len(days) == 0 {
		start := truncateToDate(requested)
		course.StartDate = &start
		course.EndDate = nil
		return
	}
	first := days[0].Date
	last := days[len(days)-1].Date
	course.StartDate = &first
	course.EndDate = &last
}

// parseManualClassDays 校验并归一化手工上课日，按日期升序返回
func parseManualClassDays(input []dto.ManualClassDay) ([]ClassDayValue, error) {
	values := make([]ClassDayValue, 0, len(input))
	seen := make(map[string]struct{}, len(input))
	for _, d := range input {
		date, err := time.ParseInLocation("2006-01-02", d.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: class_days 中 %q", ErrInvalidDate, d.Date)
		}
		if _, dup := seen[d.Date]; dup {
			return nil, fmt.Errorf("%w: 上课日重复 %q", ErrInvalidDate, d.Date)
		}
		seen[d.Date] = struct{}{}

		block, err := parseTimeRange(d.StartTime + "-" + d.EndTime)
		if err != nil {
			return nil, err
		}
		values = append(values, ClassDayValue{Date: date, Start: block.Start, End: block.End})
	}
	sort.Slice(values, func(i, j int) bool { return values[i].Date.Before(values[j].Date) })
	return values, nil
}

// classDaysFromValues 计算值 → 待落库模型
func classDaysFromValues(courseID string, values []ClassDayValue) []model.ClassDay {
	days := make([]model.ClassDay, 0, len(values))
	for _, v := range values {
		days = append(days, model.ClassDay{
			ClassDayID: uuid.NewString(),
			CourseID:   courseID,
			Date:       v.Date,
			StartTime:  v.Start,
			EndTime:    v.End,
		})
	}
	return days
}

// classTimesFromPattern 每周模式 → 待落库模型（按 wday 升序）
func classTimesFromPattern(courseID string, pattern map[time.Weekday]TimeBlock) []model.ClassTime {
	times := make([]model.ClassTime, 0, len(pattern))
	for wday := time.Sunday; wday <= time.Saturday; wday++ {
		block, ok := pattern[wday]
		if !ok {
			continue
		}
		times = append(times, model.ClassTime{
			ClassTimeID: uuid.NewString(),
			CourseID:    courseID,
			Wday:        int(wday),
			StartTime:   block.Start,
			EndTime:     block.End,
		})
	}
	return times
}

// toCourseResponse 模型 → 详情响应
func toCourseResponse(c *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:               c.CourseID,
		Description:      c.Description,
		Parttime:         c.Parttime,
		InternshipCourse: c.InternshipCourse,
		LayoutRef:        c.LayoutRef,
		TotalClassDays:   len(c.ClassDays),
	}
	if c.Office != nil {
		resp.OfficeName = c.Office.Name
	}
	if c.Language != nil {
		resp.LanguageName = c.Language.Name
	}
	if c.Track != nil {
		resp.TrackDescription = c.Track.Description
	}
	if c.StartDate != nil {
		resp.StartDate = c.StartDate.Format("2006-01-02")
	}
	if c.EndDate != nil {
		resp.EndDate = c.EndDate.Format("2006-01-02")
	}
	for _, d := range c.ClassDays {
		resp.ClassDays = append(resp.ClassDays, dto.ClassDayResponse{
			Date:      d.Date.Format("2006-01-02"),
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		})
	}
	for _, t := range c.ClassTimes {
		resp.ClassTimes = append(resp.ClassTimes, dto.ClassTimeResponse{
			Wday:      t.Wday,
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
		})
	}
	return resp
}

// toCourseSummary 模型 → 列表项响应
func toCourseSummary(c *model.Course) dto.CourseSummaryResponse {
	resp := dto.CourseSummaryResponse{
		ID:          c.CourseID,
		Description: c.Description,
		Parttime:    c.Parttime,
	}
	if c.Office != nil {
		resp.OfficeName = c.Office.Name
	}
	if c.Language != nil {
		resp.LanguageName = c.Language.Name
	}
	if c.StartDate != nil {
		resp.StartDate = c.StartDate.Format("2006-01-02")
	}
	if c.EndDate != nil {
		resp.EndDate = c.EndDate.Format("2006-01-02")
	}
	return resp
}

// [自证通过] internal/service/course_service.go
